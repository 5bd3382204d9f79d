package report

import (
	"time"

	"StockScope/internal/calculator"
	"StockScope/internal/model"
	"StockScope/internal/strategy"
)

// Row is one display-ready line of the signal history.
type Row struct {
	Date           time.Time        `json:"date"`
	Signal         model.SignalKind `json:"signal"`
	Price          float64          `json:"price"`
	PositionLabel  string           `json:"position"`
	PortfolioValue float64          `json:"portfolio_value"`
	ShortMA        *float64         `json:"short_ma"`
	LongMA         *float64         `json:"long_ma"`
}

// History projects the engine's event sequence into display rows. Pure: no
// computation beyond lookups, no mutation of inputs.
func History(series model.Series, out *strategy.Outcome) []Row {
	byDate := series.IndexByDate()
	rows := make([]Row, 0, len(out.Events))
	for _, ev := range out.Events {
		row := Row{
			Date:           ev.Date,
			Signal:         ev.Kind,
			Price:          ev.Price,
			PositionLabel:  positionLabel(ev.PositionAfter),
			PortfolioValue: ev.PortfolioValue,
		}
		if i, ok := byDate[ev.Date.Format("2006-01-02")]; ok {
			row.ShortMA = maAt(out.ShortMA, i)
			row.LongMA = maAt(out.LongMA, i)
		}
		rows = append(rows, row)
	}
	return rows
}

// Overlay converts a moving-average series into chart points, with nulls for
// the undefined warm-up prefix.
func Overlay(ma []float64) []*float64 {
	points := make([]*float64, len(ma))
	for i, v := range ma {
		if calculator.Defined(v) {
			val := v
			points[i] = &val
		}
	}
	return points
}

func positionLabel(p model.Position) string {
	if p == model.PositionLong {
		return "Holding"
	}
	return "Not Holding"
}

func maAt(ma []float64, i int) *float64 {
	if i < 0 || i >= len(ma) || !calculator.Defined(ma[i]) {
		return nil
	}
	v := ma[i]
	return &v
}
