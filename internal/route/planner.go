package route

import (
	"context"
	"log/slog"
	"sync"

	"backend-ecocommute/internal/commute"
	"backend-ecocommute/internal/logging"
)

// Planner runs a Generator and remembers the most recent result set.
type Planner struct {
	gen    Generator
	logger *slog.Logger

	mu     sync.RWMutex
	latest []Option
}

func NewPlanner(gen Generator, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Planner{gen: gen, logger: logger}
}

// Plan generates options for q. An incomplete query returns nil and keeps the
// previous result set.
func (p *Planner) Plan(ctx context.Context, q Query) ([]Option, error) {
	options, err := p.gen.Generate(ctx, q)
	if err != nil {
		p.logger.Warn("route generation failed", "error", err)
		return nil, err
	}
	if options == nil {
		return nil, nil
	}

	p.mu.Lock()
	p.latest = cloneOptions(options)
	p.mu.Unlock()

	p.logger.Info("routes generated", "count", len(options), "eco_priority", q.EcoFriendlyPriority)
	return options, nil
}

func (p *Planner) Latest() []Option {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneOptions(p.latest)
}

func cloneOptions(in []Option) []Option {
	out := make([]Option, len(in))
	for i, o := range in {
		o.Route = append([]commute.Coordinate(nil), o.Route...)
		o.Instructions = append([]string(nil), o.Instructions...)
		out[i] = o
	}
	return out
}
