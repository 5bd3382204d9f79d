package model

// PortfolioResult summarizes the simulated account for one ticker.
// ROIDefined is false when the percentage could not be computed without
// dividing by zero; consumers must render "Undefined" instead of a number.
type PortfolioResult struct {
	Ticker         string  `json:"ticker"`
	InitialCapital float64 `json:"initial_capital"`
	FinalValue     float64 `json:"final_value"`
	Profit         float64 `json:"profit"`
	ROIPercent     float64 `json:"roi_percent"`
	ROIDefined     bool    `json:"roi_defined"`
}

// AggregateResult sums portfolio results across all successful tickers.
// Total ROI is computed from the sums, not averaged per-ticker.
type AggregateResult struct {
	TotalInvestment float64 `json:"total_investment"`
	TotalFinal      float64 `json:"total_final"`
	TotalProfit     float64 `json:"total_profit"`
	TotalROIPercent float64 `json:"total_roi_percent"`
	ROIDefined      bool    `json:"roi_defined"`
}
