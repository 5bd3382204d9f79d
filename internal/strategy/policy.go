package strategy

import "fmt"

// PolicyKind selects how the signal engine turns price/MA relationships into
// events. The three kinds are deliberate alternatives, never mixed in one run.
type PolicyKind string

const (
	// PolicyLevelCount is the stateless level comparison: at the latest bar
	// only, count how many of the trailing window bars closed below their
	// long moving average and label the ticker BUY or SELL.
	PolicyLevelCount PolicyKind = "level_count"
	// PolicyPlainCrossover is the stateful short/long MA crossover with
	// FLAT/LONG position gating.
	PolicyPlainCrossover PolicyKind = "crossover"
	// PolicyGatedCrossover is the crossover with a touch threshold: a
	// transition fires only when the close is actually near one of the
	// moving averages at the decision bar.
	PolicyGatedCrossover PolicyKind = "crossover_gated"
)

// Policy is the tagged strategy variant. Threshold is only meaningful for
// PolicyGatedCrossover.
type Policy struct {
	Kind      PolicyKind
	Threshold float64
}

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(name string, threshold float64) (Policy, error) {
	switch PolicyKind(name) {
	case PolicyLevelCount:
		return Policy{Kind: PolicyLevelCount}, nil
	case PolicyPlainCrossover:
		return Policy{Kind: PolicyPlainCrossover}, nil
	case PolicyGatedCrossover:
		if threshold <= 0 {
			threshold = 0.001
		}
		return Policy{Kind: PolicyGatedCrossover, Threshold: threshold}, nil
	default:
		return Policy{}, fmt.Errorf("unknown signal policy %q", name)
	}
}

// Params is the full parameter set for one engine run.
type Params struct {
	ShortWindow int
	LongWindow  int
	Capital     float64
	Policy      Policy
}
