package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cactus-go/cactus/fsutil"
	"github.com/cactus-go/cactus/page"
)

// CatalogFile is written to the build root after every build.
const CatalogFile = "catalog.json"

// Report summarizes a build.
type Report struct {
	Pages     int
	Built     int
	Skipped   int
	Discarded int
	Duration  time.Duration
}

// Pages discovers every non-ignored file under the pages directory and
// constructs its Page. Link URLs of the returned pages become resolvable
// through FinalURLFor.
func (s *Site) Pages() ([]*page.Page, error) {
	root := s.cfg.PagesDir()
	pages := make([]*page.Page, 0, 64)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if s.cfg.IsIgnored(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		pages = append(pages, page.New(s, filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover pages: %w", err)
	}
	locs := make([]page.Locatable, len(pages))
	for i, p := range pages {
		locs[i] = p
	}
	s.indexLinks(locs)
	return pages, nil
}

// Build reloads the layouts, then renders every page with at most
// cfg.Workers builds in flight.
// Pages whose source cannot be read are skipped; any other failure cancels
// the remaining builds and is returned.
func (s *Site) Build(ctx context.Context) (Report, error) {
	start := time.Now()
	if err := s.refreshTemplates(); err != nil {
		return Report{}, err
	}
	s.catalog.Reset()

	pages, err := s.Pages()
	if err != nil {
		return Report{}, err
	}

	var built, skipped, discarded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, p := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := p.Build()
			switch {
			case errors.Is(err, page.ErrSourceUnreadable):
				skipped.Add(1)
				return nil
			case err != nil:
				return err
			case p.Discarded():
				discarded.Add(1)
			default:
				built.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	staticDst := filepath.Join(s.cfg.BuildDir, "static")
	if err := fsutil.CopyTree(s.cfg.StaticDir(), staticDst, s.cfg.IsIgnored); err != nil {
		return Report{}, fmt.Errorf("copy static files: %w", err)
	}

	payload, err := json.MarshalIndent(s.catalog.Entries(), "", "  ")
	if err != nil {
		return Report{}, fmt.Errorf("encode catalog: %w", err)
	}
	if err := fsutil.WriteFile(filepath.Join(s.cfg.BuildDir, CatalogFile), payload); err != nil {
		return Report{}, fmt.Errorf("write catalog: %w", err)
	}

	report := Report{
		Pages:     len(pages),
		Built:     int(built.Load()),
		Skipped:   int(skipped.Load()),
		Discarded: int(discarded.Load()),
		Duration:  time.Since(start),
	}
	s.logger.Info("site built",
		"pages", report.Pages,
		"built", report.Built,
		"skipped", report.Skipped,
		"discarded", report.Discarded,
		"duration", report.Duration)
	return report, nil
}

// Clean removes the build directory.
func (s *Site) Clean() error {
	if err := os.RemoveAll(s.cfg.BuildDir); err != nil {
		return fmt.Errorf("clean build dir: %w", err)
	}
	return nil
}
