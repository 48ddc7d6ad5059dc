// Package reveal tracks when page regions scroll into view. Each registered region starts Hidden
// and becomes Visible exactly once, the first time an observer reports it at least 10% visible.
//
// The HTTP server renders with Deferred (the browser script reveals regions) or Static (animations
// off). Both settle during Register. An interactive embedding that receives live viewport
// reports, such as a headless renderer, implements Observer with one entry channel per region and
// gets a watching goroutine for every region still Hidden.
package reveal

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Threshold is the minimum intersection ratio that reveals a region.
const Threshold = 0.1

// ErrUnsupported is returned by observers that cannot watch regions at all. Regions registered
// against such an observer are shown immediately.
var ErrUnsupported = errors.New("reveal: intersection observation unsupported")

// Direction controls which side a region slides in from.
type Direction string

const (
	Up    Direction = "up"
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection maps unknown values to Up.
func ParseDirection(raw string) Direction {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case Left:
		return Left
	case Right:
		return Right
	default:
		return Up
	}
}

// State is the visibility of a region.
type State int32

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Entry is one intersection report for a region.
type Entry struct {
	Ratio float64
}

// Intersecting reports whether the entry crosses Threshold.
func (e Entry) Intersecting() bool {
	return e.Ratio >= Threshold
}

// Observer streams intersection entries for a region until ctx is cancelled. Cancelling ctx is how
// a region is unobserved.
type Observer interface {
	Observe(ctx context.Context, region string) (<-chan Entry, error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, region string) (<-chan Entry, error)

func (f ObserverFunc) Observe(ctx context.Context, region string) (<-chan Entry, error) {
	return f(ctx, region)
}

// Handle is a registered region.
type Handle struct {
	region    string
	direction Direction
	delay     float64

	state   atomic.Int32
	visible chan struct{}
	once    sync.Once
	cancel  context.CancelFunc
	done    chan struct{}
}

func (h *Handle) Region() string       { return h.region }
func (h *Handle) Direction() Direction { return h.direction }
func (h *Handle) Delay() float64       { return h.delay }

// State returns the current visibility.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Visible is closed when the region is revealed.
func (h *Handle) Visible() <-chan struct{} {
	return h.visible
}

func (h *Handle) reveal() {
	h.once.Do(func() {
		h.state.Store(int32(Visible))
		close(h.visible)
	})
}

// Attrs renders the wrapper attributes the stylesheet and the browser script use to animate the
// region: the reveal classes, the direction and delay data attributes and the transition delay.
func (h *Handle) Attrs() template.HTMLAttr {
	classes := []string{"reveal"}
	switch h.direction {
	case Left:
		classes = append(classes, "from-left")
	case Right:
		classes = append(classes, "from-right")
	}
	if h.State() == Visible {
		classes = append(classes, "visible")
	}

	var b strings.Builder
	fmt.Fprintf(&b, `class="%s" data-reveal="%s"`, strings.Join(classes, " "), h.direction)
	if h.delay > 0 {
		delay := strconv.FormatFloat(h.delay, 'f', -1, 64)
		fmt.Fprintf(&b, ` data-reveal-delay="%s" style="transition-delay:%ss"`, delay, delay)
	}
	if h.State() == Visible {
		b.WriteString(` data-revealed`)
	}
	return template.HTMLAttr(b.String())
}

// Scheduler registers regions against an Observer. Every pending region is watched by its own
// goroutine, which exits on reveal, on Unregister or on Close.
type Scheduler struct {
	observer Observer

	mu      sync.Mutex
	handles map[string]*Handle
	closed  bool
}

// NewScheduler builds a scheduler. A nil observer behaves like Unsupported.
func NewScheduler(observer Observer) *Scheduler {
	if observer == nil {
		observer = Unsupported()
	}
	return &Scheduler{observer: observer, handles: make(map[string]*Handle)}
}

// Register starts watching region. Registering a region twice returns the existing handle.
// Entries the observer has already buffered are applied before Register returns.
func (s *Scheduler) Register(ctx context.Context, region string, direction Direction, delay float64) *Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	delay = math.Round(max(delay, 0)*1000) / 1000

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.handles[region]; ok {
		return h
	}

	h := &Handle{
		region:    region,
		direction: ParseDirection(string(direction)),
		delay:     delay,
		visible:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	if s.closed {
		h.reveal()
		h.cancel = func() {}
		close(h.done)
		return h
	}
	s.handles[region] = h

	watchCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	entries, err := s.observer.Observe(watchCtx, region)
	if err != nil || entries == nil {
		h.reveal()
		cancel()
		close(h.done)
		return h
	}

	if h.prime(entries) {
		cancel()
		close(h.done)
		return h
	}

	go h.watch(watchCtx, entries)
	return h
}

// prime applies already buffered entries and reports whether watching is over.
func (h *Handle) prime(entries <-chan Entry) bool {
	for {
		select {
		case e, ok := <-entries:
			if !ok {
				return true
			}
			if e.Intersecting() {
				h.reveal()
				return true
			}
		default:
			return false
		}
	}
}

func (h *Handle) watch(ctx context.Context, entries <-chan Entry) {
	defer close(h.done)
	defer h.cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-entries:
			if !ok {
				return
			}
			if e.Intersecting() {
				h.reveal()
				return
			}
		}
	}
}

// Unregister stops watching region and waits for its goroutine to exit. The region keeps its
// current state.
func (s *Scheduler) Unregister(region string) {
	s.mu.Lock()
	h, ok := s.handles[region]
	delete(s.handles, region)
	s.mu.Unlock()
	if !ok {
		return
	}
	h.cancel()
	<-h.done
}

// Pending returns the number of regions still waiting to be revealed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.handles {
		if h.State() == Hidden {
			n++
		}
	}
	return n
}

// Close unregisters every region. Regions registered after Close are shown immediately.
func (s *Scheduler) Close() {
	s.mu.Lock()
	handles := s.handles
	s.handles = make(map[string]*Handle)
	s.closed = true
	s.mu.Unlock()

	for _, h := range handles {
		h.cancel()
		<-h.done
	}
}
