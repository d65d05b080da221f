package systems

import (
	"testing"

	"github.com/pthm-cable/fluidbg/fluid"
)

func benchTargets(b *testing.B, be *CPUBackend, w, h int, f fluid.Format) (fluid.Target, fluid.Target) {
	b.Helper()
	dst, err := be.NewTarget(w, h, f, fluid.FilterLinear)
	if err != nil {
		b.Fatal(err)
	}
	src, err := be.NewTarget(w, h, f, fluid.FilterLinear)
	if err != nil {
		b.Fatal(err)
	}
	return dst, src
}

func BenchmarkClear(b *testing.B) {
	be := NewCPUBackend(256, 256, CPUOptions{})
	dst, src := benchTargets(b, be, 256, 256, fluid.FormatR)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		be.Clear(dst, src, 0.8)
	}
}

func BenchmarkJacobi(b *testing.B) {
	be := NewCPUBackend(256, 256, CPUOptions{})
	dst, src := benchTargets(b, be, 256, 256, fluid.FormatR)
	div, _ := benchTargets(b, be, 256, 256, fluid.FormatR)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		be.Jacobi(dst, src, div)
	}
}

func BenchmarkAdvectDye(b *testing.B) {
	be := NewCPUBackend(512, 512, CPUOptions{})
	vel, _ := benchTargets(b, be, 128, 128, fluid.FormatRG)
	dst, src := benchTargets(b, be, 512, 512, fluid.FormatRGBA)
	tex(vel).Fill([4]float32{10, -5})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		be.Advect(dst, vel, src, 1.0/60, 1, false)
	}
}

func BenchmarkDisplay(b *testing.B) {
	be := NewCPUBackend(512, 512, CPUOptions{})
	dye, _ := benchTargets(b, be, 512, 512, fluid.FormatRGBA)
	tex(dye).Fill([4]float32{0.2, 0.1, 0.4, 1})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		be.Display(nil, fluid.DisplayParams{Dye: dye, Shading: true})
	}
}
