package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/fluidbg/config"
)

// QualityRecord is one runtime tier change.
type QualityRecord struct {
	Frame  int     `csv:"frame"`
	From   string  `csv:"from"`
	To     string  `csv:"to"`
	Reason string  `csv:"reason"`
	FPS    float64 `csv:"fps"`
	StdDev float64 `csv:"frame_std_ms"`
}

// csvFile appends gocsv records, writing the header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles run output: CSV logs plus the effective config.
type OutputManager struct {
	dir     string
	perf    *csvFile
	quality *csvFile
	fields  *csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, out := range []struct {
		name string
		dst  **csvFile
	}{
		{"perf.csv", &om.perf},
		{"quality.csv", &om.quality},
		{"fields.csv", &om.fields},
	} {
		f, err := os.Create(filepath.Join(dir, out.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", out.name, err)
		}
		*out.dst = &csvFile{f: f}
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int32, tier string) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(frame, tier)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteQuality writes a tier change to quality.csv.
func (om *OutputManager) WriteQuality(r QualityRecord) error {
	if om == nil {
		return nil
	}
	if err := om.quality.write([]QualityRecord{r}); err != nil {
		return fmt.Errorf("writing quality: %w", err)
	}
	return nil
}

// WriteFields writes a field statistics record to fields.csv.
func (om *OutputManager) WriteFields(fs FieldStats) error {
	if om == nil {
		return nil
	}
	if err := om.fields.write([]FieldStats{fs}); err != nil {
		return fmt.Errorf("writing fields: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.perf, om.quality, om.fields} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
