// Package config owns the soundboard's persisted state: button assignments,
// hotkey accelerators and the selected output device, stored as a flat JSON
// file. Updates use merge semantics and persist atomically.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultButtonCount is the grid size a fresh config starts with.
const DefaultButtonCount = 16

// ButtonConfig describes one grid button. An empty Path marks the button
// unassigned. Gain is a linear multiplier; 0 is normalized to 1.0 on load.
type ButtonConfig struct {
	Label string  `json:"label"`
	Path  string  `json:"path"`
	Gain  float64 `json:"gain"`
}

// AppConfig is the full persisted application state.
type AppConfig struct {
	Buttons []ButtonConfig `json:"buttons"`
	// Hotkeys maps accelerator strings (e.g. "Ctrl+F1") to button indices.
	Hotkeys map[string]int `json:"hotkeys"`
	// OutputDeviceID is the bound output device; "" means system default.
	OutputDeviceID string `json:"output_device_id"`
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Buttons        []ButtonConfig
	Hotkeys        map[string]int
	OutputDeviceID *string
}

// Store loads, serves and persists the AppConfig.
type Store struct {
	mu   sync.Mutex
	path string
	cur  AppConfig
}

// Default returns a fresh config with an unassigned button grid.
func Default() AppConfig {
	buttons := make([]ButtonConfig, DefaultButtonCount)
	for i := range buttons {
		buttons[i] = ButtonConfig{
			Label: fmt.Sprintf("Button %d", i+1),
			Gain:  1.0,
		}
	}
	return AppConfig{
		Buttons: buttons,
		Hotkeys: make(map[string]int),
	}
}

// Load opens the store at path. A missing file yields the default config;
// it is written out on the first Update.
func Load(path string) (*Store, error) {
	s := &Store{path: path, cur: Default()}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config read: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config parse %s: %w", path, err)
	}
	normalize(&cfg)
	s.cur = cfg
	return s, nil
}

// Get returns a copy of the current config.
func (s *Store) Get() AppConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneConfig(s.cur)
}

// Update merges the patch into the current config, persists the result and
// returns the merged config.
func (s *Store) Update(p Patch) (AppConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Buttons != nil {
		s.cur.Buttons = append([]ButtonConfig(nil), p.Buttons...)
	}
	if p.Hotkeys != nil {
		s.cur.Hotkeys = make(map[string]int, len(p.Hotkeys))
		for k, v := range p.Hotkeys {
			s.cur.Hotkeys[k] = v
		}
	}
	if p.OutputDeviceID != nil {
		s.cur.OutputDeviceID = *p.OutputDeviceID
	}
	normalize(&s.cur)

	if err := s.saveLocked(); err != nil {
		return AppConfig{}, err
	}
	return cloneConfig(s.cur), nil
}

// SetButton replaces one button and persists.
func (s *Store) SetButton(index int, btn ButtonConfig) (AppConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.cur.Buttons) {
		return AppConfig{}, fmt.Errorf("button index %d out of range", index)
	}
	if btn.Gain <= 0 {
		btn.Gain = 1.0
	}
	s.cur.Buttons[index] = btn

	if err := s.saveLocked(); err != nil {
		return AppConfig{}, err
	}
	return cloneConfig(s.cur), nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// saveLocked writes the config via temp file + rename so a crash mid-write
// never corrupts the existing file. Caller holds s.mu.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.cur, "", "  ")
	if err != nil {
		return fmt.Errorf("config encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cuecast-*.json")
	if err != nil {
		return fmt.Errorf("config write: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("config write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("config write: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("config write: %w", err)
	}
	return nil
}

func normalize(cfg *AppConfig) {
	if cfg.Buttons == nil {
		cfg.Buttons = Default().Buttons
	}
	for i := range cfg.Buttons {
		if cfg.Buttons[i].Gain <= 0 {
			cfg.Buttons[i].Gain = 1.0
		}
	}
	if cfg.Hotkeys == nil {
		cfg.Hotkeys = make(map[string]int)
	}
	// Drop hotkeys pointing outside the grid.
	for k, v := range cfg.Hotkeys {
		if v < 0 || v >= len(cfg.Buttons) {
			delete(cfg.Hotkeys, k)
		}
	}
}

func cloneConfig(cfg AppConfig) AppConfig {
	out := cfg
	out.Buttons = append([]ButtonConfig(nil), cfg.Buttons...)
	out.Hotkeys = make(map[string]int, len(cfg.Hotkeys))
	for k, v := range cfg.Hotkeys {
		out.Hotkeys[k] = v
	}
	return out
}
