package narrative

import (
	"fmt"
	"math"

	"MarketBrief/internal/domain/models"
)

// Per-asset-class sentiment thresholds. A move strictly inside the band in
// both directions is FLAT and rendered as plain text.
var sentimentThresholds = map[string]float64{
	models.AssetIndex:     0.1,
	models.AssetSector:    0.3,
	models.AssetStock:     0.5,
	models.AssetCommodity: 0.5,
	models.AssetFX:        0.2,
	models.AssetVol:       3.0,
	models.AssetBond:      2.0, // basis points
}

// sentimentFor classifies a move for one asset class.
func sentimentFor(assetClass string, move float64) string {
	threshold, ok := sentimentThresholds[assetClass]
	if !ok {
		threshold = sentimentThresholds[models.AssetStock]
	}
	switch {
	case move >= threshold:
		return models.SentimentUp
	case move <= -threshold:
		return models.SentimentDown
	default:
		return models.SentimentFlat
	}
}

// formatPct renders a signed one-decimal percent, e.g. "+0.6%".
func formatPct(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}

// formatBps renders a signed basis point change, e.g. "+5 bps".
func formatBps(bps float64) string {
	return fmt.Sprintf("%+d bps", int(math.Round(bps)))
}

// mark emits a token marker for a classified move, or the plain label when
// the move is flat.
func mark(assetClass, symbol, label string, move float64, meta string) string {
	sent := sentimentFor(assetClass, move)
	if sent == models.SentimentFlat {
		return label
	}
	return Encode(models.Token{
		Sentiment:  sent,
		AssetClass: assetClass,
		Symbol:     symbol,
		Label:      label,
		Meta:       meta,
	})
}
