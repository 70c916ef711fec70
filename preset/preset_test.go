package preset

import (
	"path/filepath"
	"testing"
)

func testPreset(sidelen int) *Preset {
	n := sidelen * sidelen
	src := make([]byte, n*3)
	tgt := make([]byte, n*3)
	assign := make([]uint32, n)
	for i := 0; i < n; i++ {
		src[i*3] = byte(i)
		tgt[i*3+2] = byte(255 - i)
		assign[i] = uint32(n - 1 - i)
	}
	return &Preset{
		Name:                "test",
		Sidelen:             sidelen,
		SourcePixels:        src,
		TargetPixels:        tgt,
		ProximityImportance: 16,
		Algorithm:           "genetic",
		Assignment:          assign,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := testPreset(4)
	path := filepath.Join(t.TempDir(), "presets", "roundtrip.json")

	if err := Save(path, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Name != p.Name || got.Sidelen != p.Sidelen {
		t.Errorf("header = %q/%d, want %q/%d", got.Name, got.Sidelen, p.Name, p.Sidelen)
	}
	if got.ProximityImportance != 16 || got.Algorithm != "genetic" {
		t.Errorf("settings = %d/%q", got.ProximityImportance, got.Algorithm)
	}
	for i := range p.SourcePixels {
		if got.SourcePixels[i] != p.SourcePixels[i] || got.TargetPixels[i] != p.TargetPixels[i] {
			t.Fatalf("pixel byte %d differs", i)
		}
	}
	for i := range p.Assignment {
		if got.Assignment[i] != p.Assignment[i] {
			t.Fatalf("assignment[%d] = %d, want %d", i, got.Assignment[i], p.Assignment[i])
		}
	}
}

func TestGrids(t *testing.T) {
	p := testPreset(4)
	src, tgt, err := p.Grids()
	if err != nil {
		t.Fatalf("Grids: %v", err)
	}
	if src.Len() != 16 || tgt.Len() != 16 {
		t.Errorf("grid sizes = %d/%d, want 16/16", src.Len(), tgt.Len())
	}
	if src.Particles[1].R != 1 {
		t.Errorf("source particle 1 red = %d, want 1", src.Particles[1].R)
	}
	if tgt.Particles[0].B != 255 {
		t.Errorf("target particle 0 blue = %d, want 255", tgt.Particles[0].B)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Preset)
		wantErr bool
	}{
		{"valid", func(p *Preset) {}, false},
		{"no assignment is valid", func(p *Preset) { p.Assignment = nil }, false},
		{"zero sidelen", func(p *Preset) { p.Sidelen = 0 }, true},
		{"short source pixels", func(p *Preset) { p.SourcePixels = p.SourcePixels[:10] }, true},
		{"short target pixels", func(p *Preset) { p.TargetPixels = p.TargetPixels[:10] }, true},
		{"short assignment", func(p *Preset) { p.Assignment = p.Assignment[:3] }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPreset(4)
			tt.mutate(p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	p := testPreset(4)
	p.Sidelen = 0
	if err := Save(filepath.Join(t.TempDir(), "bad.json"), p); err == nil {
		t.Error("expected Save to reject an invalid preset")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
