package models

import "time"

// TickerQuote carries a symbol's last and previous close with the derived
// one-decimal percent move.
type TickerQuote struct {
	Last float64 `json:"last"`
	Prev float64 `json:"prev"`
	Pct  float64 `json:"pct"`
}

// SectorBreadth counts how many of the sector universe closed higher.
type SectorBreadth struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Total      int     `json:"total"`
}

// Factors are cross-sectional spreads derived from the snapshot.
type Factors struct {
	MegaVsEqual float64 `json:"megaVsEqual"`
	SmallVsSpx  float64 `json:"smallVsSpx"`
	CreditTone  float64 `json:"creditTone"`
	DollarMove  float64 `json:"dollarMove"`
	VixMove     float64 `json:"vixMove"`
}

// Headline is one news item. Tags are derived by keyword classification,
// never taken from the source.
type Headline struct {
	Title  string    `json:"title"`
	Source string    `json:"source"`
	Time   time.Time `json:"time"`
	Tags   []string  `json:"tags,omitempty"`
}

// Mover is one row of the capitalization-ranked screen.
type Mover struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	MarketCap float64 `json:"marketCap"`
	Last      float64 `json:"last"`
	Prev      float64 `json:"prev"`
}

// MarketSnapshot is a point-in-time aggregation of the fixed symbol
// universe. Symbols whose fetch failed are absent from the maps.
type MarketSnapshot struct {
	AsOf          string                 `json:"asOf"`
	Tickers       map[string]TickerQuote `json:"tickers"`
	Sectors       map[string]float64     `json:"sectors"`
	SectorBreadth SectorBreadth          `json:"sectorBreadth"`
	Factors       Factors                `json:"factors"`
	Headlines     []Headline             `json:"headlines"`
}
