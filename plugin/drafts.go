package plugin

import (
	"strconv"

	"github.com/cactus-go/cactus/page"
)

// DraftKey is the front-matter key marking a page as a draft.
const DraftKey = "draft"

// Drafts discards pages whose front matter sets draft to a true value.
type Drafts struct{}

func (Drafts) Name() string { return "drafts" }

func (Drafts) PreBuildPage(_ page.Site, p *page.Page, ctx page.Context, data string) (page.Context, string, error) {
	if isTrue(ctx[DraftKey]) {
		p.Discard()
	}
	return ctx, data, nil
}

func isTrue(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		b, err := strconv.ParseBool(value)
		return err == nil && b
	default:
		return false
	}
}
