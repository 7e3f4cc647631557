package models

// Sentiment of a narrative token.
const (
	SentimentUp   = "UP"
	SentimentDown = "DOWN"
	SentimentFlat = "FLAT"
)

// Asset classes carried by narrative tokens.
const (
	AssetIndex     = "INDEX"
	AssetSector    = "SECTOR"
	AssetStock     = "STOCK"
	AssetCommodity = "COMMODITY"
	AssetFX        = "FX"
	AssetVol       = "VOL"
	AssetBond      = "BOND"
)

// Token is an inline sentiment marker embedded in narrative text.
type Token struct {
	Sentiment  string `json:"sentiment"`
	AssetClass string `json:"assetClass"`
	Symbol     string `json:"symbol"`
	Label      string `json:"label"`
	Meta       string `json:"meta,omitempty"`
}

// Node is one decoded narrative fragment: a plain text span or a badge.
type Node struct {
	Type  string `json:"type"` // "text" or "badge"
	Text  string `json:"text,omitempty"`
	Token *Token `json:"token,omitempty"`
}

// NarrativeResult is the full synthesized brief.
type NarrativeResult struct {
	AsOf          string                 `json:"asOf"`
	Tickers       map[string]TickerQuote `json:"tickers"`
	Sectors       map[string]float64     `json:"sectors"`
	SectorBreadth SectorBreadth          `json:"sectorBreadth"`
	Factors       Factors                `json:"factors"`
	Headlines     []Headline             `json:"headlines"`
	Paragraphs    []string               `json:"paragraphs"`
	Text          string                 `json:"text"`
	Diagnostic    string                 `json:"diagnostic,omitempty"`
}
