// Package components defines ECS components for pointer input.
// Struct tags drive the debug inspector (see package inspector).
package components

// Texcoord is a position in simulation texture space (0..1, v up).
type Texcoord struct {
	X, Y float32
}

// Pointer is a mouse or touch contact driving splats.
type Pointer struct {
	ID     int      // Input id: -1 for the mouse, touch ids otherwise
	Pos    Texcoord `inspect:"label,fmt:%.3v"`
	Prev   Texcoord `inspect:"skip"`
	DeltaX float32  `inspect:"bar,min:-0.05,max:0.05"` // Aspect-corrected motion since the last move event
	DeltaY float32  `inspect:"bar,min:-0.05,max:0.05"`
	Down   bool
	Moved  bool // Set by a move event, cleared when the splat is applied

	// Splat color, linear RGB
	R float32 `inspect:"bar,max:0.15"`
	G float32 `inspect:"bar,max:0.15"`
	B float32 `inspect:"bar,max:0.15"`
}

// AutoSplatter wanders along a noise path and splats while the pointers are idle.
type AutoSplatter struct {
	Pos   Texcoord `inspect:"label,fmt:%.3v"`
	Prev  Texcoord `inspect:"skip"`
	T     float64  `inspect:"label,fmt:%.2f"` // Position along the noise path
	Timer float32  `inspect:"bar,max:1"`      // Seconds until the next splat
	Seed  int64    `inspect:"skip"`

	R float32 `inspect:"bar,max:0.15"`
	G float32 `inspect:"bar,max:0.15"`
	B float32 `inspect:"bar,max:0.15"`
}
