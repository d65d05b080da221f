package telemetry

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// SnapshotVersion is incremented when the metadata format changes.
const SnapshotVersion = 1

// Snapshot describes a saved frame of the composite.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    int64  `json:"seed"`
	Frame   int32  `json:"frame"`
	Tier    string `json:"tier"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Image   string `json:"image"` // PNG file name next to the metadata

	Stats *FieldStats `json:"stats,omitempty"`
}

// SaveSnapshot writes img as PNG plus a JSON metadata file into dir.
// Returns the PNG path.
func SaveSnapshot(snapshot *Snapshot, img image.Image, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	base := fmt.Sprintf("frame_%06d", snapshot.Frame)
	snapshot.Version = SnapshotVersion
	snapshot.Image = base + ".png"
	b := img.Bounds()
	snapshot.Width, snapshot.Height = b.Dx(), b.Dy()

	pngPath := filepath.Join(dir, snapshot.Image)
	f, err := os.Create(pngPath)
	if err != nil {
		return "", fmt.Errorf("create snapshot image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode snapshot image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot image: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, base+".json"), data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return pngPath, nil
}

// LoadSnapshot reads snapshot metadata from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
