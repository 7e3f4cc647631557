// Package narrative turns a snapshot, the risk pulse, and tagged headlines
// into ordered tokenized paragraphs. Synthesis is pure and deterministic:
// the same inputs always produce the same text.
package narrative

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/signal"
	"MarketBrief/internal/snapshot"
)

// Paragraph gates.
const (
	toneThreshold    = 0.4
	factorGate       = 0.3
	sectorGate       = 0.3
	vixGate          = 3.0
	bpsGate          = 2.0
	dollarGate       = 0.2
	commodityGate    = 0.5
	maxDriverPhrases = 2
)

// Synthesizer builds the narrative brief.
type Synthesizer struct {
	now func() time.Time
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{now: time.Now}
}

// Synthesize composes the full narrative from a snapshot and the pulse.
// Paragraph order is fixed; builders that have nothing to say emit nothing.
func (s *Synthesizer) Synthesize(snap models.MarketSnapshot, pulse []models.RiskPulseItem) models.NarrativeResult {
	now := s.now()

	headlines := make([]models.Headline, len(snap.Headlines))
	for i, h := range snap.Headlines {
		h.Tags = TagHeadline(h.Title)
		headlines[i] = h
	}

	builders := []func() string{
		func() string { return toneParagraph(snap) },
		func() string { return factorGlobalParagraph(snap) },
		func() string { return sectorParagraph(snap) },
		func() string { return macroParagraph(snap) },
		func() string { return commodityParagraph(snap) },
		func() string { return whyParagraph(headlines, pulse, now) },
	}

	var paragraphs []string
	for _, build := range builders {
		if p := build(); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	result := models.NarrativeResult{
		AsOf:          snap.AsOf,
		Tickers:       snap.Tickers,
		Sectors:       snap.Sectors,
		SectorBreadth: snap.SectorBreadth,
		Factors:       snap.Factors,
		Headlines:     headlines,
		Paragraphs:    paragraphs,
		Text:          strings.Join(paragraphs, "\n\n"),
	}
	if len(snap.Tickers) == 0 {
		result.Diagnostic = "no market data available; narrative built from fallbacks"
	}
	return result
}

func toneParagraph(snap models.MarketSnapshot) string {
	spx := snap.Tickers[snapshot.SymSPX].Pct

	tone := "mixed"
	switch {
	case spx >= toneThreshold:
		tone = "edging higher"
	case spx <= -toneThreshold:
		tone = "under pressure"
	}

	verb := "little changed"
	switch {
	case spx >= 0.1:
		verb = fmt.Sprintf("up %.1f%%", spx)
	case spx <= -0.1:
		verb = fmt.Sprintf("down %.1f%%", math.Abs(spx))
	}

	tok := mark(models.AssetIndex, snapshot.SymSPX, snapshot.DisplayName(snapshot.SymSPX), spx, formatPct(spx))
	return fmt.Sprintf("U.S. stocks are %s: %s is %s, with %d/%d sectors higher.",
		tone, tok, verb, snap.SectorBreadth.Count, snap.SectorBreadth.Total)
}

func factorGlobalParagraph(snap models.MarketSnapshot) string {
	f := snap.Factors
	if math.Abs(f.MegaVsEqual) < factorGate && math.Abs(f.SmallVsSpx) < factorGate {
		return ""
	}

	var tilt string
	switch {
	case f.MegaVsEqual >= factorGate:
		tilt = "mega-caps"
	case f.MegaVsEqual <= -factorGate:
		tilt = "equal-weight/SMID"
	case f.SmallVsSpx >= factorGate:
		tilt = "small-caps"
	default:
		tilt = "large-caps"
	}
	sentence := fmt.Sprintf("Leadership tilts toward %s.", tilt)

	if overseas := overseasClause(snap); overseas != "" {
		sentence += " " + overseas
	}
	return sentence
}

func overseasClause(snap models.MarketSnapshot) string {
	europeAvg, europeOK := regionAvg(snap, snapshot.EuropeSymbols)
	asiaAvg, asiaOK := regionAvg(snap, snapshot.AsiaSymbols)
	if !europeOK && !asiaOK {
		return ""
	}

	region, symbols, avg := "Europe", snapshot.EuropeSymbols, europeAvg
	if !europeOK || (asiaOK && math.Abs(asiaAvg) > math.Abs(europeAvg)) {
		region, symbols, avg = "Asia", snapshot.AsiaSymbols, asiaAvg
	}

	lead, leadPct := "", 0.0
	for _, symbol := range symbols {
		q, ok := snap.Tickers[symbol]
		if !ok {
			continue
		}
		if lead == "" || math.Abs(q.Pct) > math.Abs(leadPct) {
			lead, leadPct = symbol, q.Pct
		}
	}
	if lead == "" {
		return ""
	}

	direction := "higher"
	if avg < 0 {
		direction = "lower"
	}
	tok := mark(models.AssetIndex, lead, snapshot.DisplayName(lead), leadPct, formatPct(leadPct))
	return fmt.Sprintf("Overseas, %s trades %s, led by %s.", region, direction, tok)
}

func regionAvg(snap models.MarketSnapshot, symbols []string) (float64, bool) {
	var sum float64
	var n int
	for _, symbol := range symbols {
		if q, ok := snap.Tickers[symbol]; ok {
			sum += q.Pct
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func sectorParagraph(snap models.MarketSnapshot) string {
	type move struct {
		symbol string
		pct    float64
	}

	moves := make([]move, 0, len(snap.Sectors))
	for _, symbol := range snapshot.SectorSymbols {
		pct, ok := snap.Sectors[symbol]
		if !ok || math.Abs(pct) < sectorGate {
			continue
		}
		moves = append(moves, move{symbol, pct})
	}
	if len(moves) == 0 {
		return ""
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].pct > moves[j].pct })

	leaders := moves
	if len(leaders) > 2 {
		leaders = leaders[:2]
	}

	var laggards []move
	for i := len(moves) - 1; i >= 0 && len(laggards) < 2; i-- {
		overlap := false
		for _, l := range leaders {
			if l.symbol == moves[i].symbol {
				overlap = true
				break
			}
		}
		if !overlap {
			laggards = append(laggards, moves[i])
		}
	}

	toks := func(ms []move) string {
		parts := make([]string, len(ms))
		for i, m := range ms {
			parts[i] = mark(models.AssetSector, m.symbol, snapshot.DisplayName(m.symbol), m.pct, formatPct(m.pct))
		}
		return strings.Join(parts, ", ")
	}

	sentence := "Strongest groups: " + toks(leaders) + "."
	if len(laggards) > 0 {
		sentence += " Laggards: " + toks(laggards) + "."
	}
	return sentence
}

func macroParagraph(snap models.MarketSnapshot) string {
	var clauses []string
	f := snap.Factors

	if math.Abs(f.VixMove) >= vixGate {
		direction := "rose"
		if f.VixMove < 0 {
			direction = "fell"
		}
		tok := mark(models.AssetVol, snapshot.SymVIX, snapshot.DisplayName(snapshot.SymVIX), f.VixMove, formatPct(f.VixMove))
		clauses = append(clauses, fmt.Sprintf("Volatility %s (%s).", direction, tok))
	}

	if q, ok := snap.Tickers[snapshot.SymTenYear]; ok {
		bps := signal.BasisPoints(q.Last, q.Prev)
		if math.Abs(bps) >= bpsGate {
			direction := "rose"
			if bps < 0 {
				direction = "fell"
			}
			tok := mark(models.AssetBond, snapshot.SymTenYear, "U.S. 10Y Treasury", bps, formatBps(bps))
			clauses = append(clauses, fmt.Sprintf("Yields %s: %s.", direction, tok))
		}
	}

	if math.Abs(f.DollarMove) >= dollarGate {
		direction := "firmer"
		if f.DollarMove < 0 {
			direction = "softer"
		}
		tok := mark(models.AssetFX, snapshot.SymDollar, snapshot.DisplayName(snapshot.SymDollar), f.DollarMove, formatPct(f.DollarMove))
		clauses = append(clauses, fmt.Sprintf("The dollar is %s (%s).", direction, tok))
	}

	return strings.Join(clauses, " ")
}

func commodityParagraph(snap models.MarketSnapshot) string {
	var toks []string
	for _, symbol := range snapshot.CommoditySymbols {
		q, ok := snap.Tickers[symbol]
		if !ok || math.Abs(q.Pct) < commodityGate {
			continue
		}
		toks = append(toks, mark(models.AssetCommodity, symbol, snapshot.DisplayName(symbol), q.Pct, formatPct(q.Pct)))
	}
	if len(toks) == 0 {
		return ""
	}
	return "In commodities, " + strings.Join(toks, ", ") + "."
}

func whyParagraph(headlines []models.Headline, pulse []models.RiskPulseItem, now time.Time) string {
	tags := TopTags(headlines, now, maxDriverPhrases)
	phrases := make([]string, 0, len(tags))
	for _, tag := range tags {
		if p := Phrase(tag); p != "" {
			phrases = append(phrases, p)
		}
	}

	var sentence string
	if len(phrases) > 0 {
		sentence = "Drivers today: " + strings.Join(phrases, "; ") + "."
	}

	for _, item := range pulse {
		if item.Label == models.LabelHigh {
			risk := fmt.Sprintf("Risk backdrop: %s is elevated.", item.Title)
			if sentence != "" {
				sentence += " " + risk
			} else {
				sentence = risk
			}
			break
		}
	}
	return sentence
}
