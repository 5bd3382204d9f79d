package portfolio

import "StockScope/internal/model"

// Tracker owns the running account value for one ticker during a backtest.
// Capital is static while FLAT; while LONG the equity is marked to market
// every bar using the close-to-close return. State lives only for the run:
// the final value is read out, nothing is retained.
type Tracker struct {
	value      float64
	long       bool
	entryPrice float64
}

// NewTracker starts a tracker with the initial capital, FLAT.
func NewTracker(initial float64) *Tracker {
	return &Tracker{value: initial}
}

// Mark applies one bar's close-to-close return to an open position. A zero
// previous close cannot produce a ratio and leaves the value unchanged.
func (t *Tracker) Mark(prevClose, close float64) {
	if !t.long || prevClose == 0 {
		return
	}
	t.value *= 1 + (close-prevClose)/prevClose
}

// Enter opens the long position at the given price.
func (t *Tracker) Enter(price float64) {
	t.long = true
	t.entryPrice = price
}

// Exit closes the position. The equity already reflects every marked bar, so
// the realized value equals the mark-to-market value at the sell bar.
func (t *Tracker) Exit() {
	t.long = false
	t.entryPrice = 0
}

// Value returns the current account value (mark-to-market while LONG).
func (t *Tracker) Value() float64 { return t.value }

// Long reports whether a position is open.
func (t *Tracker) Long() bool { return t.long }

// EntryPrice returns the open position's entry price, if any.
func (t *Tracker) EntryPrice() (float64, bool) {
	if !t.long {
		return 0, false
	}
	return t.entryPrice, true
}

// Result builds the per-ticker report, guarding the ROI division.
func Result(ticker string, initial, final float64) model.PortfolioResult {
	res := model.PortfolioResult{
		Ticker:         ticker,
		InitialCapital: initial,
		FinalValue:     final,
		Profit:         final - initial,
	}
	if initial > 0 {
		res.ROIPercent = res.Profit / initial * 100
		res.ROIDefined = true
	}
	return res
}

// EstimateLevelValue is the single-shot Policy A estimate: initial capital
// scaled once by the distance between the latest close and its moving
// average. It is a coarse one-step figure, not a path simulation. A zero
// moving average makes the estimate undefined.
func EstimateLevelValue(initial, close, ma float64, buy bool) (float64, bool) {
	if ma == 0 {
		return 0, false
	}
	if buy {
		return initial * (1 + (close-ma)/ma), true
	}
	return initial * (1 - (close-ma)/ma), true
}

// Aggregate sums results across tickers. Totals come from the sums, never
// from averaging per-ticker ROI. Results with an undefined ROI are omitted
// so the totals stay clean.
func Aggregate(results []model.PortfolioResult) model.AggregateResult {
	var agg model.AggregateResult
	for _, r := range results {
		if !r.ROIDefined {
			continue
		}
		agg.TotalInvestment += r.InitialCapital
		agg.TotalFinal += r.FinalValue
	}
	agg.TotalProfit = agg.TotalFinal - agg.TotalInvestment
	if agg.TotalInvestment > 0 {
		agg.TotalROIPercent = agg.TotalProfit / agg.TotalInvestment * 100
		agg.ROIDefined = true
	}
	return agg
}
