// Package counter computes and plays the eased count-up of the hero statistics.
package counter

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync/atomic"
	"time"
)

const (
	DefaultSteps    = 60
	DefaultInterval = 33 * time.Millisecond
)

// ErrAlreadyStarted is returned when an Animator is started a second time.
var ErrAlreadyStarted = errors.New("counter: already started")

// Frames returns the values shown at each of steps ticks. Frame s (1-based) is
// round(ease(s/steps) * target) with the cubic ease-out 1-(1-p)^3, so the last frame equals
// targets. Steps below one yield no frames.
func Frames(targets []int, steps int) [][]int {
	if steps < 1 {
		return nil
	}
	frames := make([][]int, steps)
	for s := 1; s <= steps; s++ {
		ease := 1 - math.Pow(1-float64(s)/float64(steps), 3)
		frame := make([]int, len(targets))
		for i, target := range targets {
			frame[i] = int(math.Round(ease * float64(target)))
		}
		frames[s-1] = frame
	}
	return frames
}

type Option func(*Animator)

// WithSteps overrides DefaultSteps. Values below one are ignored.
func WithSteps(steps int) Option {
	return func(a *Animator) {
		if steps >= 1 {
			a.steps = steps
		}
	}
}

// WithInterval overrides DefaultInterval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.interval = d
		}
	}
}

// Animator plays Frames for a fixed set of targets at most once.
type Animator struct {
	targets  []int
	steps    int
	interval time.Duration
	started  atomic.Bool
}

func New(targets []int, opts ...Option) *Animator {
	a := &Animator{
		targets:  slices.Clone(targets),
		steps:    DefaultSteps,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Animator) Steps() int              { return a.steps }
func (a *Animator) Interval() time.Duration { return a.interval }

// Initial is the snapshot shown before the animation starts.
func (a *Animator) Initial() []int {
	return make([]int, len(a.targets))
}

// Frames returns the full sequence this animator plays.
func (a *Animator) Frames() [][]int {
	return Frames(a.targets, a.steps)
}

// Start plays the frames, one per interval. The returned channel is unbuffered, so frames are
// produced only as they are consumed, and it is closed after the last frame or when ctx is done.
func (a *Animator) Start(ctx context.Context) (<-chan []int, error) {
	if !a.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}
	out := make(chan []int)
	go a.play(ctx, nil, out)
	return out, nil
}

// StartWhenVisible is Start deferred until visible is closed or receives, typically a reveal
// handle's Visible channel. The animator counts as started immediately.
func (a *Animator) StartWhenVisible(ctx context.Context, visible <-chan struct{}) (<-chan []int, error) {
	if !a.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}
	out := make(chan []int)
	go a.play(ctx, visible, out)
	return out, nil
}

func (a *Animator) play(ctx context.Context, visible <-chan struct{}, out chan<- []int) {
	defer close(out)
	if visible != nil {
		select {
		case <-ctx.Done():
			return
		case <-visible:
		}
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for _, frame := range a.Frames() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		select {
		case <-ctx.Done():
			return
		case out <- frame:
		}
	}
}
