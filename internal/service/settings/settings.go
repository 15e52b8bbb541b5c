// Package settings persists the widget's appearance preferences.
package settings

import (
	"fmt"
	"sync"

	"github.com/fuadeditingzone/fuadbot-backend/internal/store"
)

const settingsKey = "settings"

// Settings are the UI preference scalars. They ride the same persistence as
// the histories and fall back to defaults on any corrupt value.
type Settings struct {
	Transparency float64 `json:"transparency"`
	Theme        string  `json:"theme"`
	FontSize     string  `json:"fontSize"`
	PanelSize    string  `json:"panelSize"`
}

// Defaults mirrors a fresh widget.
func Defaults() Settings {
	return Settings{
		Transparency: 0.85,
		Theme:        "dark",
		FontSize:     "base",
		PanelSize:    "default",
	}
}

var (
	themes     = map[string]bool{"dark": true, "light": true}
	fontSizes  = map[string]bool{"sm": true, "base": true, "lg": true}
	panelSizes = map[string]bool{"compact": true, "default": true, "expanded": true}
)

// Validate rejects out-of-range values before they are persisted.
func (s Settings) Validate() error {
	if s.Transparency < 0.4 || s.Transparency > 1.0 {
		return fmt.Errorf("transparency %v out of range [0.4, 1.0]", s.Transparency)
	}
	if !themes[s.Theme] {
		return fmt.Errorf("unknown theme %q", s.Theme)
	}
	if !fontSizes[s.FontSize] {
		return fmt.Errorf("unknown font size %q", s.FontSize)
	}
	if !panelSizes[s.PanelSize] {
		return fmt.Errorf("unknown panel size %q", s.PanelSize)
	}
	return nil
}

// Service guards the persisted preferences.
type Service struct {
	mu      sync.RWMutex
	kv      *store.KV
	current Settings
}

// NewService loads persisted preferences, substituting defaults for anything
// unreadable.
func NewService(kv *store.KV) *Service {
	loaded := store.Get(kv, settingsKey, Defaults())
	if loaded.Validate() != nil {
		loaded = Defaults()
	}
	return &Service{kv: kv, current: loaded}
}

// Get returns the active preferences.
func (s *Service) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates and persists new preferences.
func (s *Service) Update(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = next
	store.Set(s.kv, settingsKey, next)
	s.mu.Unlock()
	return nil
}
