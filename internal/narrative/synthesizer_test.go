package narrative

import (
	"strings"
	"testing"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/snapshot"
)

func baseSnapshot(spxPct float64) models.MarketSnapshot {
	return models.MarketSnapshot{
		AsOf: "2024-06-03T15:00:00Z",
		Tickers: map[string]models.TickerQuote{
			snapshot.SymSPX: {Last: 100 + spxPct, Prev: 100, Pct: spxPct},
		},
		Sectors:       map[string]float64{},
		SectorBreadth: models.SectorBreadth{Count: 5, Percentage: 50, Total: 10},
	}
}

func synthesize(snap models.MarketSnapshot, pulse []models.RiskPulseItem) models.NarrativeResult {
	s := NewSynthesizer()
	s.now = func() time.Time { return time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC) }
	return s.Synthesize(snap, pulse)
}

func TestIndexMoveInsideThresholdStaysPlain(t *testing.T) {
	res := synthesize(baseSnapshot(0.09), nil)
	if strings.Contains(res.Text, "[[") {
		t.Fatalf("0.09%% move should not emit a token: %q", res.Text)
	}
	if !strings.Contains(res.Text, "S&P 500") {
		t.Fatalf("plain label missing: %q", res.Text)
	}
}

func TestIndexMoveOutsideThresholdEmitsToken(t *testing.T) {
	res := synthesize(baseSnapshot(0.11), nil)
	want := "[[UP:INDEX:^GSPC|S&P 500|+0.1%]]"
	if !strings.Contains(res.Text, want) {
		t.Fatalf("token %q missing from %q", want, res.Text)
	}
}

func TestToneWording(t *testing.T) {
	cases := []struct {
		pct  float64
		tone string
	}{
		{0.5, "edging higher"},
		{-0.5, "under pressure"},
		{0.2, "mixed"},
	}
	for _, tc := range cases {
		res := synthesize(baseSnapshot(tc.pct), nil)
		if !strings.Contains(res.Paragraphs[0], tc.tone) {
			t.Fatalf("pct %v: tone %q missing from %q", tc.pct, tc.tone, res.Paragraphs[0])
		}
	}
	res := synthesize(baseSnapshot(0.5), nil)
	if !strings.Contains(res.Paragraphs[0], "5/10 sectors higher") {
		t.Fatalf("breadth missing: %q", res.Paragraphs[0])
	}
}

func TestFactorParagraphGated(t *testing.T) {
	snap := baseSnapshot(0.2)
	snap.Factors = models.Factors{MegaVsEqual: 0.2, SmallVsSpx: 0.1}
	res := synthesize(snap, nil)
	if strings.Contains(res.Text, "Leadership") {
		t.Fatalf("factor paragraph should be gated out: %q", res.Text)
	}

	snap.Factors.MegaVsEqual = 0.6
	res = synthesize(snap, nil)
	if !strings.Contains(res.Text, "Leadership tilts toward mega-caps") {
		t.Fatalf("mega-cap tilt missing: %q", res.Text)
	}

	snap.Factors.MegaVsEqual = -0.6
	res = synthesize(snap, nil)
	if !strings.Contains(res.Text, "equal-weight/SMID") {
		t.Fatalf("equal-weight tilt missing: %q", res.Text)
	}
}

func TestOverseasPicksLargerRegionMove(t *testing.T) {
	snap := baseSnapshot(0.2)
	snap.Factors = models.Factors{MegaVsEqual: 0.6}
	snap.Tickers["^STOXX50E"] = models.TickerQuote{Pct: 0.2}
	snap.Tickers["^FTSE"] = models.TickerQuote{Pct: 0.1}
	snap.Tickers["^N225"] = models.TickerQuote{Pct: -1.5}
	snap.Tickers["^HSI"] = models.TickerQuote{Pct: -0.8}

	res := synthesize(snap, nil)
	if !strings.Contains(res.Text, "Asia trades lower") {
		t.Fatalf("Asia should lead: %q", res.Text)
	}
	if !strings.Contains(res.Text, "Nikkei 225") {
		t.Fatalf("most-moved constituent missing: %q", res.Text)
	}
}

func TestSectorLeadersAndLaggards(t *testing.T) {
	snap := baseSnapshot(0.2)
	snap.Sectors = map[string]float64{
		"XLK": 1.2, "XLE": 0.8, "XLF": 0.1, "XLV": -0.9, "XLU": -0.4,
	}

	res := synthesize(snap, nil)
	if !strings.Contains(res.Text, "Strongest groups: [[UP:SECTOR:XLK|Technology|+1.2%]], [[UP:SECTOR:XLE|Energy|+0.8%]].") {
		t.Fatalf("leaders wrong: %q", res.Text)
	}
	if !strings.Contains(res.Text, "Laggards: [[DOWN:SECTOR:XLV|Health Care|-0.9%]], [[DOWN:SECTOR:XLU|Utilities|-0.4%]].") {
		t.Fatalf("laggards wrong: %q", res.Text)
	}
	// XLF at 0.1 is below the gate and appears nowhere
	if strings.Contains(res.Text, "XLF") {
		t.Fatalf("gated sector leaked: %q", res.Text)
	}
}

func TestMacroParagraphGates(t *testing.T) {
	snap := baseSnapshot(0.2)
	snap.Factors = models.Factors{VixMove: 1.0, DollarMove: 0.1}
	snap.Tickers[snapshot.SymTenYear] = models.TickerQuote{Last: 4.251, Prev: 4.241}

	res := synthesize(snap, nil)
	for _, word := range []string{"Volatility", "Yields", "dollar"} {
		if strings.Contains(res.Text, word) {
			t.Fatalf("%s clause should be gated out: %q", word, res.Text)
		}
	}

	snap.Factors = models.Factors{VixMove: 5.0, DollarMove: -0.4}
	snap.Tickers[snapshot.SymTenYear] = models.TickerQuote{Last: 4.30, Prev: 4.25}
	res = synthesize(snap, nil)
	if !strings.Contains(res.Text, "Volatility rose") {
		t.Fatalf("vix clause missing: %q", res.Text)
	}
	if !strings.Contains(res.Text, "Yields rose: [[UP:BOND:^TNX|U.S. 10Y Treasury|+5 bps]].") {
		t.Fatalf("rates clause wrong: %q", res.Text)
	}
	if !strings.Contains(res.Text, "The dollar is softer") {
		t.Fatalf("dollar clause missing: %q", res.Text)
	}
}

func TestCommodityParagraph(t *testing.T) {
	snap := baseSnapshot(0.2)
	snap.Tickers["CL=F"] = models.TickerQuote{Pct: -1.8}
	snap.Tickers["GC=F"] = models.TickerQuote{Pct: 0.3} // below gate
	snap.Tickers["HG=F"] = models.TickerQuote{Pct: 0.7}

	res := synthesize(snap, nil)
	want := "In commodities, [[DOWN:COMMODITY:CL=F|WTI Crude Oil|-1.8%]], [[UP:COMMODITY:HG=F|Copper|+0.7%]]."
	if !strings.Contains(res.Text, want) {
		t.Fatalf("commodity paragraph wrong:\n got %q\nwant %q", res.Text, want)
	}
}

func TestWhyParagraphDriversAndRisk(t *testing.T) {
	snap := baseSnapshot(0.2)
	now := time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)
	snap.Headlines = []models.Headline{
		{Title: "Fed officials debate timing of cuts", Time: now.Add(-time.Hour)},
		{Title: "Nvidia rallies on chip demand", Time: now.Add(-2 * time.Hour)},
	}
	pulse := []models.RiskPulseItem{
		{Key: models.PulsePolicy, Title: "Policy Uncertainty", Label: models.LabelMedium},
		{Key: models.PulseGeopolitics, Title: "Geopolitical Risk", Label: models.LabelHigh},
	}

	res := synthesize(snap, pulse)
	if !strings.Contains(res.Text, "Drivers today: Fed-cut hopes after soft CPI; chip optimism into Nvidia earnings.") {
		t.Fatalf("drivers wrong: %q", res.Text)
	}
	if !strings.Contains(res.Text, "Risk backdrop: Geopolitical Risk is elevated.") {
		t.Fatalf("risk clause missing: %q", res.Text)
	}
}

func TestHeadlinesGetTagged(t *testing.T) {
	snap := baseSnapshot(0.2)
	snap.Headlines = []models.Headline{{Title: "CPI cools to 3.1%", Time: time.Now()}}

	res := synthesize(snap, nil)
	if len(res.Headlines) != 1 || len(res.Headlines[0].Tags) == 0 || res.Headlines[0].Tags[0] != TagInflation {
		t.Fatalf("headline tags wrong: %+v", res.Headlines)
	}
}

func TestEmptySnapshotSetsDiagnostic(t *testing.T) {
	res := synthesize(models.MarketSnapshot{AsOf: "2024-06-03T15:00:00Z"}, nil)
	if res.Diagnostic == "" {
		t.Fatalf("empty snapshot should carry a diagnostic")
	}
	if len(res.Paragraphs) == 0 {
		t.Fatalf("tone paragraph should still render")
	}
}
