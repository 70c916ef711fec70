// Package preset persists a generated morph: the resampled pixel grids,
// the settings that produced it and the final assignment, so a morph can
// be replayed without re-solving.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/pointmorph/morph"
)

// Preset is one saved morph. Pixel buffers are raw RGB, 3 bytes per pixel,
// row-major, Sidelen x Sidelen.
type Preset struct {
	Name    string `json:"name"`
	Sidelen int    `json:"sidelen"`

	SourcePixels []byte `json:"source_pixels"`
	TargetPixels []byte `json:"target_pixels"`

	ProximityImportance int64  `json:"proximity_importance"`
	Algorithm           string `json:"algorithm"`

	Assignment []uint32 `json:"assignment,omitempty"`
}

// Grids rebuilds the source and target particle grids from the stored
// pixels.
func (p *Preset) Grids() (src, tgt *morph.ParticleGrid, err error) {
	src, err = morph.NewGridFromPixels(p.SourcePixels, p.Sidelen)
	if err != nil {
		return nil, nil, fmt.Errorf("source pixels: %w", err)
	}
	tgt, err = morph.NewGridFromPixels(p.TargetPixels, p.Sidelen)
	if err != nil {
		return nil, nil, fmt.Errorf("target pixels: %w", err)
	}
	return src, tgt, nil
}

// Validate checks internal consistency before use.
func (p *Preset) Validate() error {
	if p.Sidelen < 1 {
		return fmt.Errorf("sidelen %d out of range", p.Sidelen)
	}
	want := p.Sidelen * p.Sidelen * 3
	if len(p.SourcePixels) != want {
		return fmt.Errorf("source pixels hold %d bytes, want %d", len(p.SourcePixels), want)
	}
	if len(p.TargetPixels) != want {
		return fmt.Errorf("target pixels hold %d bytes, want %d", len(p.TargetPixels), want)
	}
	if p.Assignment != nil && len(p.Assignment) != p.Sidelen*p.Sidelen {
		return fmt.Errorf("assignment holds %d entries, want %d", len(p.Assignment), p.Sidelen*p.Sidelen)
	}
	return nil
}

// Save writes the preset as JSON, creating parent directories as needed.
func Save(path string, p *Preset) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid preset: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating preset directory: %w", err)
		}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preset: %w", err)
	}
	return nil
}

// Load reads and validates a preset JSON file.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preset %s: %w", path, err)
	}
	return &p, nil
}
