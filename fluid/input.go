package fluid

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fluidbg/components"
	"github.com/pthm-cable/fluidbg/viewport"
)

// MousePointer is the pointer id used for the mouse. Touch ids are >= 0.
const MousePointer = -1

// PointerDown starts a contact at pixel (x, y) with a fresh color.
func (s *Simulation) PointerDown(id int, x, y float32) {
	e := s.pointerEntity(id)
	p := s.pointerMap.Get(e)
	u, v := s.vp.ToTexcoord(x, y)
	c := s.generateColor()
	*p = components.Pointer{
		ID:   id,
		Pos:  components.Texcoord{X: u, Y: v},
		Prev: components.Texcoord{X: u, Y: v},
		Down: true,
		R:    c.R, G: c.G, B: c.B,
	}
	s.idle = 0
}

// PointerMove records motion to pixel (x, y). The mouse splats on hover as
// well as while pressed.
func (s *Simulation) PointerMove(id int, x, y float32) {
	u, v := s.vp.ToTexcoord(x, y)
	e, ok := s.pointers[id]
	if !ok {
		// First sighting: no delta yet
		e = s.pointerEntity(id)
		p := s.pointerMap.Get(e)
		p.Pos = components.Texcoord{X: u, Y: v}
		p.Prev = p.Pos
		return
	}

	p := s.pointerMap.Get(e)
	p.Prev = p.Pos
	p.Pos = components.Texcoord{X: u, Y: v}
	p.DeltaX = s.vp.CorrectDeltaX(p.Pos.X - p.Prev.X)
	p.DeltaY = s.vp.CorrectDeltaY(p.Pos.Y - p.Prev.Y)
	p.Moved = absf(p.DeltaX) > 0 || absf(p.DeltaY) > 0
	if p.Moved {
		s.idle = 0
	}
}

// PointerUp ends a contact. Touch pointers are dropped once their last
// motion has been applied.
func (s *Simulation) PointerUp(id int) {
	if e, ok := s.pointers[id]; ok {
		s.pointerMap.Get(e).Down = false
	}
}

// PointerCount returns the number of tracked pointers.
func (s *Simulation) PointerCount() int { return len(s.pointers) }

// Pointers returns a copy of every tracked pointer.
func (s *Simulation) Pointers() []components.Pointer {
	out := make([]components.Pointer, 0, len(s.pointers))
	query := s.pointerFilter.Query()
	for query.Next() {
		out = append(out, *query.Get())
	}
	return out
}

// AutoSplatters returns a copy of every idle auto-splatter.
func (s *Simulation) AutoSplatters() []components.AutoSplatter {
	var out []components.AutoSplatter
	query := s.autoFilter.Query()
	for query.Next() {
		out = append(out, *query.Get())
	}
	return out
}

// Idle returns the seconds since the last pointer activity.
func (s *Simulation) Idle() float32 { return s.idle }

func (s *Simulation) pointerEntity(id int) ecs.Entity {
	if e, ok := s.pointers[id]; ok {
		return e
	}
	c := s.generateColor()
	e := s.pointerMap.NewEntity(&components.Pointer{ID: id, R: c.R, G: c.G, B: c.B})
	s.pointers[id] = e
	return e
}

// QueueSplats schedules a random burst of n splats for the next frame.
func (s *Simulation) QueueSplats(n int) {
	s.splatStack = append(s.splatStack, n)
}

// QueueRandomBurst schedules a burst sized within the configured range.
func (s *Simulation) QueueRandomBurst() {
	d := s.cfg.Driver
	n := d.InitialSplatsMin
	if span := d.InitialSplatsMax - d.InitialSplatsMin; span > 0 {
		n += s.rng.Intn(span + 1)
	}
	s.QueueSplats(n)
}

// MultipleSplats splats n times at random positions with bright colors.
func (s *Simulation) MultipleSplats(n int) {
	for i := 0; i < n; i++ {
		c := s.generateColor().Scale(10)
		x := s.rng.Float32()
		y := s.rng.Float32()
		dx := 1000 * (s.rng.Float32() - 0.5)
		dy := 1000 * (s.rng.Float32() - 0.5)
		s.Splat(x, y, dx, dy, c)
	}
}

// UpdateColors advances the color timer and recolors every pointer each
// time it wraps.
func (s *Simulation) UpdateColors(dt float32) {
	if !s.cfg.Render.Colorful {
		return
	}
	s.colorTimer += dt * float32(s.cfg.Render.ColorUpdateSpeed)
	if s.colorTimer < 1 {
		return
	}
	s.colorTimer = viewport.Wrap(s.colorTimer, 0, 1)

	query := s.pointerFilter.Query()
	for query.Next() {
		p := query.Get()
		c := s.generateColor()
		p.R, p.G, p.B = c.R, c.G, c.B
	}
}

// ApplyInputs runs one queued burst and splats every pointer that moved.
func (s *Simulation) ApplyInputs() {
	if n := len(s.splatStack); n > 0 {
		amount := s.splatStack[n-1]
		s.splatStack = s.splatStack[:n-1]
		s.MultipleSplats(amount)
	}

	force := float32(s.cfg.Sim.SplatForce)
	var stale []ecs.Entity
	var staleIDs []int

	query := s.pointerFilter.Query()
	for query.Next() {
		p := query.Get()
		if p.Moved {
			p.Moved = false
			s.Splat(p.Pos.X, p.Pos.Y, p.DeltaX*force, p.DeltaY*force, Color{p.R, p.G, p.B})
		}
		if !p.Down && p.ID != MousePointer {
			stale = append(stale, query.Entity())
			staleIDs = append(staleIDs, p.ID)
		}
	}

	// Structural changes only after the query is done
	for i, e := range stale {
		s.world.RemoveEntity(e)
		delete(s.pointers, staleIDs[i])
	}
}

// updateAutoSplat walks the auto-splatters along their noise paths once the
// pointers have been idle long enough.
func (s *Simulation) updateAutoSplat(dt float32) {
	ac := s.cfg.AutoSplat
	if !ac.Enabled {
		return
	}
	s.idle += dt
	if s.idle < float32(ac.IdleSeconds) {
		return
	}

	force := float32(s.cfg.Sim.SplatForce * ac.Force)
	query := s.autoFilter.Query()
	for query.Next() {
		a := query.Get()
		a.T += float64(dt) * ac.Speed
		off := float64(a.Seed%97) * 31.7
		a.Pos.X = 0.1 + 0.8*float32(s.noise.Eval2(a.T, off))
		a.Pos.Y = 0.1 + 0.8*float32(s.noise.Eval2(off, a.T+57.3))

		a.Timer -= dt
		if a.Timer > 0 {
			continue
		}
		a.Timer = float32(ac.Interval)

		// Push along the direction traveled since the last splat
		dx := s.vp.CorrectDeltaX(a.Pos.X - a.Prev.X)
		dy := s.vp.CorrectDeltaY(a.Pos.Y - a.Prev.Y)
		a.Prev = a.Pos
		if s.cfg.Render.Colorful {
			c := s.generateColor()
			a.R, a.G, a.B = c.R, c.G, c.B
		}
		s.Splat(a.Pos.X, a.Pos.Y, dx*force, dy*force, Color{a.R, a.G, a.B})
	}
}

func absf(x float32) float32 {
	return float32(math.Abs(float64(x)))
}
