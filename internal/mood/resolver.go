package mood

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolver maps free-form user text to a canonical mood label. Implementations
// return ok=false when the text cannot be resolved; they never return a label
// outside the closed canonical set. External failures (timeouts, malformed
// responses) are handled inside the implementation and surface as ok=false,
// not as errors, so callers have a single "unresolved" outcome to handle.
type Resolver interface {
	Resolve(ctx context.Context, text string) (label string, ok bool)
}

// resolutions counts mood resolution attempts by strategy and outcome.
// Outcome is "resolved" or "unresolved"; strategy is "keyword", "ai",
// or "chain".
var resolutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mood_resolutions_total",
		Help: "Total mood resolution attempts by strategy and outcome.",
	},
	[]string{"strategy", "outcome"},
)

func init() {
	prometheus.MustRegister(resolutions)
}

func observe(strategy string, ok bool) {
	outcome := "unresolved"
	if ok {
		outcome = "resolved"
	}
	resolutions.WithLabelValues(strategy, outcome).Inc()
}

// instrumented wraps a Resolver with resolution metrics.
type instrumented struct {
	strategy string
	inner    Resolver
}

// Instrument returns r wrapped with mood_resolutions_total accounting under
// the given strategy label.
func Instrument(strategy string, r Resolver) Resolver {
	return &instrumented{strategy: strategy, inner: r}
}

func (i *instrumented) Resolve(ctx context.Context, text string) (string, bool) {
	label, ok := i.inner.Resolve(ctx, text)
	observe(i.strategy, ok)
	return label, ok
}

// Chain tries each resolver in order and returns the first resolved label.
// It is how "keyword with AI fallback" deployments are assembled: the cheap
// deterministic classifier runs first and the external call only fires when
// it comes up empty.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(ctx context.Context, text string) (string, bool) {
	for _, r := range c {
		if label, ok := r.Resolve(ctx, text); ok {
			return label, true
		}
	}
	return "", false
}
