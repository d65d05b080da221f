package fluid

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/fluidbg/viewport"
)

// DoubleField is a read/write pair of targets that passes ping-pong through.
type DoubleField struct {
	read, write Target
}

// Read returns the current state.
func (d *DoubleField) Read() Target { return d.read }

// Write returns the target the next pass renders into.
func (d *DoubleField) Write() Target { return d.write }

// Swap exchanges read and write after a pass has written the new state.
func (d *DoubleField) Swap() { d.read, d.write = d.write, d.read }

// Width returns the field width in texels.
func (d *DoubleField) Width() int { return d.read.Width() }

// Height returns the field height in texels.
func (d *DoubleField) Height() int { return d.read.Height() }

// ResourceSpec is the set of base resolutions the resources are sized from.
type ResourceSpec struct {
	SimResolution     int
	DyeResolution     int
	BloomResolution   int
	BloomIterations   int
	SunraysResolution int
	LinearFiltering   bool
}

// GetResolution sizes a grid for a surface: the short side gets base texels,
// the long side base*aspect.
func GetResolution(base, surfaceW, surfaceH int) (int, int) {
	return viewport.New(float32(surfaceW), float32(surfaceH)).Resolution(base)
}

// Resources owns every target the simulation renders through.
type Resources struct {
	backend  Backend
	released bool

	Velocity *DoubleField
	Dye      *DoubleField
	Pressure *DoubleField

	Divergence Target
	Curl       Target

	Bloom     Target
	BloomMips []Target

	Sunrays     Target
	SunraysTemp Target
}

// NewResources creates an empty resource set on b. Call Init to allocate.
func NewResources(b Backend) *Resources {
	return &Resources{backend: b}
}

// Init allocates all targets for the surface size, or resizes existing ones.
// Velocity and dye keep their content across a resize; everything else is
// reallocated.
func (r *Resources) Init(spec ResourceSpec, surfaceW, surfaceH int) error {
	if r.released {
		return ErrReleased
	}
	filter := FilterNearest
	if spec.LinearFiltering {
		filter = FilterLinear
	}

	simW, simH := GetResolution(spec.SimResolution, surfaceW, surfaceH)
	dyeW, dyeH := GetResolution(spec.DyeResolution, surfaceW, surfaceH)

	r.backend.SetBlend(BlendDisabled)

	var err error
	if r.Dye, err = r.doubleField(r.Dye, dyeW, dyeH, FormatRGBA, filter); err != nil {
		return fmt.Errorf("dye: %w", err)
	}
	if r.Velocity, err = r.doubleField(r.Velocity, simW, simH, FormatRG, filter); err != nil {
		return fmt.Errorf("velocity: %w", err)
	}

	r.releaseSingles()
	if r.Divergence, err = r.backend.NewTarget(simW, simH, FormatR, FilterNearest); err != nil {
		return fmt.Errorf("divergence: %w", err)
	}
	if r.Curl, err = r.backend.NewTarget(simW, simH, FormatR, FilterNearest); err != nil {
		return fmt.Errorf("curl: %w", err)
	}
	if r.Pressure, err = r.doubleField(nil, simW, simH, FormatR, FilterNearest); err != nil {
		return fmt.Errorf("pressure: %w", err)
	}

	if err := r.initBloom(spec, filter, surfaceW, surfaceH); err != nil {
		return err
	}
	if err := r.initSunrays(spec, filter, surfaceW, surfaceH); err != nil {
		return err
	}

	Logger().Info("fluid resources allocated",
		slog.Int("sim_w", simW), slog.Int("sim_h", simH),
		slog.Int("dye_w", dyeW), slog.Int("dye_h", dyeH),
		slog.Int("bloom_mips", len(r.BloomMips)),
		slog.Bool("linear", spec.LinearFiltering),
	)
	return nil
}

func (r *Resources) initBloom(spec ResourceSpec, filter Filter, surfaceW, surfaceH int) error {
	w, h := GetResolution(spec.BloomResolution, surfaceW, surfaceH)
	var err error
	if r.Bloom, err = r.backend.NewTarget(w, h, FormatRGBA, filter); err != nil {
		return fmt.Errorf("bloom: %w", err)
	}
	for i := 0; i < spec.BloomIterations; i++ {
		mw := w >> (i + 1)
		mh := h >> (i + 1)
		if mw < 2 || mh < 2 {
			break
		}
		t, err := r.backend.NewTarget(mw, mh, FormatRGBA, filter)
		if err != nil {
			return fmt.Errorf("bloom mip %d: %w", i, err)
		}
		r.BloomMips = append(r.BloomMips, t)
	}
	return nil
}

func (r *Resources) initSunrays(spec ResourceSpec, filter Filter, surfaceW, surfaceH int) error {
	w, h := GetResolution(spec.SunraysResolution, surfaceW, surfaceH)
	var err error
	if r.Sunrays, err = r.backend.NewTarget(w, h, FormatR, filter); err != nil {
		return fmt.Errorf("sunrays: %w", err)
	}
	if r.SunraysTemp, err = r.backend.NewTarget(w, h, FormatR, filter); err != nil {
		return fmt.Errorf("sunrays temp: %w", err)
	}
	return nil
}

// doubleField creates a field, or resizes d keeping its read content.
// Unchanged sizes return d as is.
func (r *Resources) doubleField(d *DoubleField, w, h int, format Format, filter Filter) (*DoubleField, error) {
	if d != nil && d.Width() == w && d.Height() == h {
		return d, nil
	}

	read, err := r.backend.NewTarget(w, h, format, filter)
	if err != nil {
		return d, err
	}
	write, err := r.backend.NewTarget(w, h, format, filter)
	if err != nil {
		r.backend.ReleaseTarget(read)
		return d, err
	}

	if d != nil {
		r.backend.Copy(read, d.read)
		r.backend.ReleaseTarget(d.read)
		r.backend.ReleaseTarget(d.write)
	}
	return &DoubleField{read: read, write: write}, nil
}

// releaseSingles frees the targets that are rebuilt on every Init.
func (r *Resources) releaseSingles() {
	b := r.backend
	release := func(t *Target) {
		if *t != nil {
			b.ReleaseTarget(*t)
			*t = nil
		}
	}
	release(&r.Divergence)
	release(&r.Curl)
	release(&r.Bloom)
	release(&r.Sunrays)
	release(&r.SunraysTemp)
	for _, t := range r.BloomMips {
		b.ReleaseTarget(t)
	}
	r.BloomMips = r.BloomMips[:0]
	if r.Pressure != nil {
		b.ReleaseTarget(r.Pressure.read)
		b.ReleaseTarget(r.Pressure.write)
		r.Pressure = nil
	}
}

// Release frees every target. Calling it again is a no-op.
func (r *Resources) Release() {
	if r.released {
		return
	}
	r.releaseSingles()
	for _, d := range []*DoubleField{r.Velocity, r.Dye} {
		if d != nil {
			r.backend.ReleaseTarget(d.read)
			r.backend.ReleaseTarget(d.write)
		}
	}
	r.Velocity = nil
	r.Dye = nil
	r.released = true
	Logger().Info("fluid resources released")
}

// Released reports whether Release has been called.
func (r *Resources) Released() bool { return r.released }
