package physics

import "github.com/automoto/tilechunk/shared/geom"

// MemoryWorld keeps every request in memory.
type MemoryWorld struct {
	Bodies []*MemoryBody
}

type MemoryBody struct {
	Pos      geom.Vec2
	Fixtures []FixtureDef
}

func NewMemoryWorld() *MemoryWorld {
	return &MemoryWorld{}
}

func (w *MemoryWorld) CreateStaticBody(pos geom.Vec2) (Body, error) {
	b := &MemoryBody{Pos: pos}
	w.Bodies = append(w.Bodies, b)
	return b, nil
}

func (w *MemoryWorld) DestroyBody(b Body) {
	for i, mb := range w.Bodies {
		if mb == b {
			w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
			return
		}
	}
}

// Fixtures returns all fixtures of all live bodies.
func (w *MemoryWorld) Fixtures() []FixtureDef {
	var out []FixtureDef
	for _, b := range w.Bodies {
		out = append(out, b.Fixtures...)
	}
	return out
}

func (b *MemoryBody) Position() geom.Vec2 {
	return b.Pos
}

func (b *MemoryBody) CreateFixture(def FixtureDef) error {
	if err := def.Validate(); err != nil {
		return err
	}
	b.Fixtures = append(b.Fixtures, def)
	return nil
}
