package strategy

import (
	"math"

	"StockScope/internal/calculator"
	"StockScope/internal/model"
	"StockScope/internal/portfolio"
)

// Outcome is the engine's full result for one ticker: the ordered signal
// history, the latest signal label, the simulated final account value, and
// the moving-average series for chart overlays and display rows.
type Outcome struct {
	Events       []model.SignalEvent
	Latest       model.SignalKind
	FinalValue   float64
	ValueDefined bool
	ShortMA      []float64 // nil for the level-count policy
	LongMA       []float64
}

// Evaluate runs the configured signal policy over the series, co-iterating
// the portfolio tracker so every event carries the account value at that
// bar. The series is never mutated; evaluating twice yields identical
// results.
func Evaluate(series model.Series, p Params) (*Outcome, error) {
	if p.Policy.Kind == PolicyLevelCount {
		return evaluateLevelCount(series, p)
	}
	return evaluateCrossover(series, p)
}

// evaluateLevelCount labels only the latest bar: BUY when strictly fewer
// than half of the trailing window bars closed below their long MA, SELL
// otherwise (exactly half counts as SELL). No position state is kept and
// the portfolio figure is the documented single-shot estimate.
func evaluateLevelCount(series model.Series, p Params) (*Outcome, error) {
	closes := series.Closes()
	w := p.LongWindow
	ma, err := calculator.SMASeries(closes, w)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Latest:       model.SignalHold,
		FinalValue:   p.Capital,
		ValueDefined: true,
		LongMA:       ma,
	}

	n := len(closes)
	if n < w || !calculator.Defined(ma[n-1]) {
		return out, nil // insufficient history degrades to an empty history
	}

	daysBelow := 0
	for i := n - w; i < n; i++ {
		if calculator.Defined(ma[i]) && closes[i] < ma[i] {
			daysBelow++
		}
	}
	buy := float64(daysBelow) < float64(w)/2

	kind := model.SignalSell
	if buy {
		kind = model.SignalBuy
	}

	value, defined := portfolio.EstimateLevelValue(p.Capital, closes[n-1], ma[n-1], buy)
	if !defined {
		value = p.Capital
	}

	last := series.Bars[n-1]
	out.Latest = kind
	out.FinalValue = value
	out.ValueDefined = defined
	out.Events = []model.SignalEvent{{
		Date:           last.Date,
		Kind:           kind,
		Price:          last.Close,
		PositionAfter:  model.PositionFlat,
		PortfolioValue: value,
	}}
	return out, nil
}

// evaluateCrossover runs the FLAT/LONG state machine bar by bar, in date
// order, observing each bar exactly once. BUY fires on the bar where the
// short MA is first above the long MA and the position is FLAT; SELL fires
// when the short MA is below the long MA while LONG. Equality is a plateau
// and never ends the open position. Bars with an undefined MA are skipped
// with the position unchanged, and index 0 never emits.
func evaluateCrossover(series model.Series, p Params) (*Outcome, error) {
	closes := series.Closes()
	shortMA, err := calculator.SMASeries(closes, p.ShortWindow)
	if err != nil {
		return nil, err
	}
	longMA, err := calculator.SMASeries(closes, p.LongWindow)
	if err != nil {
		return nil, err
	}

	track := portfolio.NewTracker(p.Capital)
	position := model.PositionFlat
	var events []model.SignalEvent

	for i := 1; i < len(closes); i++ {
		// Mark the open position before the decision: compounding from a
		// BUY at bar i begins at bar i+1.
		track.Mark(closes[i-1], closes[i])

		if !calculator.Defined(shortMA[i]) || !calculator.Defined(longMA[i]) {
			continue
		}
		prevAbove := calculator.Defined(shortMA[i-1]) && calculator.Defined(longMA[i-1]) &&
			shortMA[i-1] > longMA[i-1]

		switch {
		case position == model.PositionFlat && shortMA[i] > longMA[i] && !prevAbove:
			if !touchGate(p.Policy, closes[i], shortMA[i], longMA[i]) {
				continue
			}
			position = model.PositionLong
			track.Enter(closes[i])
			events = append(events, model.SignalEvent{
				Date:           series.Bars[i].Date,
				Kind:           model.SignalBuy,
				Price:          closes[i],
				PositionAfter:  model.PositionLong,
				PortfolioValue: track.Value(),
			})
		case position == model.PositionLong && shortMA[i] < longMA[i]:
			if !touchGate(p.Policy, closes[i], shortMA[i], longMA[i]) {
				continue
			}
			position = model.PositionFlat
			track.Exit()
			events = append(events, model.SignalEvent{
				Date:           series.Bars[i].Date,
				Kind:           model.SignalSell,
				Price:          closes[i],
				PositionAfter:  model.PositionFlat,
				PortfolioValue: track.Value(),
			})
		}
	}

	// Terminal HOLD: an open position at the end of the run is summarized
	// with its unrealized mark-to-market value, unless the final bar
	// already carries an event.
	if position == model.PositionLong && len(series.Bars) > 0 {
		last := series.Bars[len(series.Bars)-1]
		if len(events) == 0 || !events[len(events)-1].Date.Equal(last.Date) {
			events = append(events, model.SignalEvent{
				Date:           last.Date,
				Kind:           model.SignalHold,
				Price:          last.Close,
				PositionAfter:  model.PositionLong,
				PortfolioValue: track.Value(),
			})
		}
	}

	latest := model.SignalHold
	if len(events) > 0 {
		latest = events[len(events)-1].Kind
	}

	return &Outcome{
		Events:       events,
		Latest:       latest,
		FinalValue:   track.Value(),
		ValueDefined: true,
		ShortMA:      shortMA,
		LongMA:       longMA,
	}, nil
}

// touchGate suppresses a transition under the gated policy unless the close
// sits within the threshold of one of the moving averages, i.e. the
// crossover is live at the decision bar rather than inferred between bars.
func touchGate(p Policy, close, shortMA, longMA float64) bool {
	if p.Kind != PolicyGatedCrossover {
		return true
	}
	if close <= 0 {
		return false
	}
	return math.Abs(close-shortMA)/close <= p.Threshold ||
		math.Abs(close-longMA)/close <= p.Threshold
}
