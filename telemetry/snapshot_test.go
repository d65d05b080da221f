package telemetry

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadSnapshot(t *testing.T) {
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	snap := &Snapshot{Seed: 7, Frame: 42, Tier: "medium", Stats: &FieldStats{Frame: 42, DyeMax: 0.5}}
	pngPath, err := SaveSnapshot(snap, img, dir)
	if err != nil {
		t.Fatalf("SaveSnapshot error: %v", err)
	}
	if !strings.HasSuffix(pngPath, "frame_000042.png") {
		t.Errorf("unexpected png path %s", pngPath)
	}

	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 3 {
		t.Errorf("png size = %v", decoded.Bounds())
	}

	loaded, err := LoadSnapshot(filepath.Join(dir, "frame_000042.json"))
	if err != nil {
		t.Fatalf("LoadSnapshot error: %v", err)
	}
	if loaded.Seed != 7 || loaded.Tier != "medium" || loaded.Width != 4 || loaded.Height != 3 {
		t.Errorf("loaded metadata = %+v", loaded)
	}
	if loaded.Stats == nil || loaded.Stats.DyeMax != 0.5 {
		t.Errorf("loaded stats = %+v", loaded.Stats)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
