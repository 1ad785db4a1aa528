package tileset

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type Frame struct {
	Tile     LocalTileID
	Duration time.Duration
}

// Animation is a looping sequence of frames.
type Animation struct {
	Frames []Frame
}

// Duration is the length of one loop.
func (a *Animation) Duration() time.Duration {
	var total time.Duration
	for _, f := range a.Frames {
		total += f.Duration
	}
	return total
}

// FrameAt returns the tile shown at elapsed time t into the animation.
func (a *Animation) FrameAt(t time.Duration) LocalTileID {
	total := a.Duration()
	if total <= 0 {
		return a.Frames[0].Tile
	}
	t %= total
	if t < 0 {
		t += total
	}
	for _, f := range a.Frames {
		if t < f.Duration {
			return f.Tile
		}
		t -= f.Duration
	}
	return a.Frames[len(a.Frames)-1].Tile
}

// Animator plays an Animation in a loop. The clock is a linear tween over
// one loop that restarts when it finishes.
type Animator struct {
	anim  *Animation
	tween *gween.Tween
	tile  LocalTileID
}

func NewAnimator(a *Animation) *Animator {
	secs := float32(a.Duration().Seconds())
	return &Animator{
		anim:  a,
		tween: gween.New(0, secs, secs, ease.Linear),
		tile:  a.Frames[0].Tile,
	}
}

// Update advances the clock by dt seconds and returns the current tile.
func (an *Animator) Update(dt float32) LocalTileID {
	if an.anim.Duration() <= 0 {
		return an.tile
	}
	elapsed, done := an.tween.Update(dt)
	if done {
		an.tween.Reset()
		elapsed = 0
	}
	an.tile = an.anim.FrameAt(time.Duration(float64(elapsed) * float64(time.Second)))
	return an.tile
}

// Tile is the tile shown since the last Update.
func (an *Animator) Tile() LocalTileID {
	return an.tile
}
