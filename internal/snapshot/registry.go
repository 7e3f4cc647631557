package snapshot

// Symbol universe. The maps below are fixed; a symbol missing from a fetch
// is simply absent from the snapshot.

// US benchmark and style symbols.
const (
	SymSPX         = "^GSPC"
	SymNasdaq      = "^IXIC"
	SymDow         = "^DJI"
	SymRussell     = "^RUT"
	SymEqualWeight = "RSP"
	SymSPYETF      = "SPY"
)

// Macro proxies.
const (
	SymVIX       = "^VIX"
	SymTenYear   = "^TNX"
	SymHighYield = "HYG"
	SymInvGrade  = "LQD"
	SymDollar    = "DX-Y.NYB"
)

// Commodity futures.
const (
	SymGold   = "GC=F"
	SymOil    = "CL=F"
	SymNatGas = "NG=F"
	SymCopper = "HG=F"
)

// SectorSymbols is the 10-sector ETF universe used for breadth.
var SectorSymbols = []string{"XLE", "XLK", "XLF", "XLY", "XLV", "XLI", "XLB", "XLU", "XLRE", "XLC"}

// EuropeSymbols and AsiaSymbols drive the overseas clause of the narrative.
var (
	EuropeSymbols = []string{"^STOXX50E", "^FTSE", "^GDAXI"}
	AsiaSymbols   = []string{"^N225", "^HSI"}
)

// CommoditySymbols in narrative emission order.
var CommoditySymbols = []string{SymOil, SymGold, SymCopper, SymNatGas}

// AllSymbols is the full fetch universe.
var AllSymbols = func() []string {
	symbols := []string{
		SymSPX, SymNasdaq, SymDow, SymRussell, SymEqualWeight, SymSPYETF,
	}
	symbols = append(symbols, SectorSymbols...)
	symbols = append(symbols, EuropeSymbols...)
	symbols = append(symbols, AsiaSymbols...)
	symbols = append(symbols, SymVIX, SymTenYear, SymHighYield, SymInvGrade, SymDollar)
	symbols = append(symbols, SymGold, SymOil, SymNatGas, SymCopper)
	return symbols
}()

// IndexNames maps symbols to display labels for narrative tokens.
var IndexNames = map[string]string{
	SymSPX:         "S&P 500",
	SymNasdaq:      "Nasdaq Composite",
	SymDow:         "Dow Jones Industrial Average",
	SymRussell:     "Russell 2000",
	SymEqualWeight: "S&P 500 Equal Weight",
	SymSPYETF:      "S&P 500 ETF",
	"^STOXX50E":    "Euro Stoxx 50",
	"^FTSE":        "FTSE 100",
	"^GDAXI":       "DAX",
	"^N225":        "Nikkei 225",
	"^HSI":         "Hang Seng Index",
	SymVIX:         "VIX",
	SymTenYear:     "10-Year Treasury Yield",
	SymHighYield:   "High Yield Bonds",
	SymInvGrade:    "Investment Grade Bonds",
	SymDollar:      "U.S. Dollar Index",
	SymOil:         "WTI Crude Oil",
	SymGold:        "Gold",
	SymCopper:      "Copper",
	SymNatGas:      "U.S. Natural Gas",
}

// SectorNames maps sector ETF symbols to sector names.
var SectorNames = map[string]string{
	"XLE":  "Energy",
	"XLK":  "Technology",
	"XLF":  "Financials",
	"XLY":  "Consumer Discretionary",
	"XLV":  "Health Care",
	"XLI":  "Industrials",
	"XLB":  "Materials",
	"XLU":  "Utilities",
	"XLRE": "Real Estate",
	"XLC":  "Communication Services",
}

// DisplayName returns the best label for a symbol, falling back to the
// symbol itself.
func DisplayName(symbol string) string {
	if name, ok := IndexNames[symbol]; ok {
		return name
	}
	if name, ok := SectorNames[symbol]; ok {
		return name
	}
	return symbol
}
