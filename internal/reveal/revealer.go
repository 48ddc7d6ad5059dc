package reveal

import (
	"context"
	"fmt"
	"html/template"
	"sync/atomic"
)

// Revealer hands out reveal regions to a single page render. Regions are named in render order,
// which keeps markup stable between requests.
type Revealer struct {
	ctx       context.Context
	scheduler *Scheduler
	prefix    string
	n         atomic.Int64
}

// NewRevealer registers regions named "<prefix>-<n>" against observer on a scheduler of its own.
func NewRevealer(ctx context.Context, observer Observer, prefix string) *Revealer {
	if prefix == "" {
		prefix = "reveal"
	}
	return &Revealer{ctx: ctx, scheduler: NewScheduler(observer), prefix: prefix}
}

// Region registers the next region.
func (r *Revealer) Region(direction string, delay float64) *Handle {
	id := fmt.Sprintf("%s-%d", r.prefix, r.n.Add(1))
	return r.scheduler.Register(r.ctx, id, ParseDirection(direction), delay)
}

// Attrs registers the next region and returns its wrapper attributes. Templates call it as
// {{$.Reveal.Attrs "left" 0.2}}.
func (r *Revealer) Attrs(direction string, delay float64) template.HTMLAttr {
	if r == nil {
		return ""
	}
	return r.Region(direction, delay).Attrs()
}

// Close releases every region of the render.
func (r *Revealer) Close() {
	if r == nil {
		return
	}
	r.scheduler.Close()
}
