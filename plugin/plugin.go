// Package plugin dispatches the per-page build hooks to registered plugins.
package plugin

import (
	"fmt"
	"sync"

	"github.com/cactus-go/cactus/page"
)

// Plugin is anything registered with a Manager. It takes part in a build by
// also implementing PreBuildPager and/or PostBuildPager.
type Plugin interface {
	Name() string
}

// PreBuildPager may rewrite a page's context and body before templating.
type PreBuildPager interface {
	PreBuildPage(site page.Site, p *page.Page, ctx page.Context, data string) (page.Context, string, error)
}

// PostBuildPager is notified after a page has been written.
type PostBuildPager interface {
	PostBuildPage(p *page.Page) error
}

// Manager calls plugin hooks in registration order.
type Manager struct {
	mu      sync.RWMutex
	plugins []Plugin
	names   map[string]struct{}
}

// NewManager registers plugins in order.
func NewManager(plugins ...Plugin) (*Manager, error) {
	m := &Manager{names: make(map[string]struct{})}
	for _, p := range plugins {
		if err := m.Register(p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Register appends p to the hook chain.
func (m *Manager) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("cannot register nil plugin")
	}
	name := p.Name()
	if name == "" {
		return fmt.Errorf("plugin name is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.names[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	m.names[name] = struct{}{}
	m.plugins = append(m.plugins, p)
	return nil
}

// Names lists registered plugins in call order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.plugins))
	for _, p := range m.plugins {
		names = append(names, p.Name())
	}
	return names
}

func (m *Manager) snapshot() []Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Plugin(nil), m.plugins...)
}

// PreBuildPage threads ctx and data through every PreBuildPager.
func (m *Manager) PreBuildPage(site page.Site, p *page.Page, ctx page.Context, data string) (page.Context, string, error) {
	for _, plugin := range m.snapshot() {
		hook, ok := plugin.(PreBuildPager)
		if !ok {
			continue
		}
		var err error
		ctx, data, err = hook.PreBuildPage(site, p, ctx, data)
		if err != nil {
			return nil, "", fmt.Errorf("plugin %s: %w", plugin.Name(), err)
		}
	}
	return ctx, data, nil
}

// PostBuildPage notifies every PostBuildPager.
func (m *Manager) PostBuildPage(p *page.Page) error {
	for _, plugin := range m.snapshot() {
		hook, ok := plugin.(PostBuildPager)
		if !ok {
			continue
		}
		if err := hook.PostBuildPage(p); err != nil {
			return fmt.Errorf("plugin %s: %w", plugin.Name(), err)
		}
	}
	return nil
}
