package narrative

import (
	"testing"

	"MarketBrief/internal/domain/models"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tok := models.Token{
		Sentiment:  models.SentimentUp,
		AssetClass: models.AssetIndex,
		Symbol:     "^GSPC",
		Label:      "S&P 500",
		Meta:       "+0.6%",
	}

	nodes := Decode(Encode(tok))
	if len(nodes) != 1 || nodes[0].Type != "badge" {
		t.Fatalf("nodes = %+v, want single badge", nodes)
	}
	if got := *nodes[0].Token; got != tok {
		t.Fatalf("round trip changed token: %+v != %+v", got, tok)
	}
}

func TestEncodeOmitsEmptyMeta(t *testing.T) {
	tok := models.Token{
		Sentiment:  models.SentimentDown,
		AssetClass: models.AssetSector,
		Symbol:     "XLE",
		Label:      "Energy",
	}
	if got, want := Encode(tok), "[[DOWN:SECTOR:XLE|Energy]]"; got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}

	nodes := Decode(Encode(tok))
	if len(nodes) != 1 || nodes[0].Token == nil || nodes[0].Token.Meta != "" {
		t.Fatalf("decoded meta should be empty: %+v", nodes)
	}
}

func TestDecodeMixedText(t *testing.T) {
	text := "Stocks rose: [[UP:INDEX:^GSPC|S&P 500|+0.6%]] led the way."
	nodes := Decode(text)

	if len(nodes) != 3 {
		t.Fatalf("len(nodes) = %d, want 3: %+v", len(nodes), nodes)
	}
	if nodes[0].Text != "Stocks rose: " || nodes[2].Text != " led the way." {
		t.Fatalf("surrounding text wrong: %+v", nodes)
	}
	if nodes[1].Token == nil || nodes[1].Token.Symbol != "^GSPC" {
		t.Fatalf("badge wrong: %+v", nodes[1])
	}
}

func TestDecodePassesThroughNonMatchingBrackets(t *testing.T) {
	for _, text := range []string{
		"array access [[0]] in code",
		"lowercase [[up:index:spy|S&P]] stays text",
		"[[UP:INDEX]] missing pipe",
	} {
		nodes := Decode(text)
		if len(nodes) != 1 || nodes[0].Type != "text" || nodes[0].Text != text {
			t.Fatalf("Decode(%q) = %+v, want verbatim text", text, nodes)
		}
	}
}

func TestFlattenRendersLabels(t *testing.T) {
	text := "Gains in [[UP:SECTOR:XLK|Technology|+1.2%]] today."
	if got, want := Flatten(Decode(text)), "Gains in Technology today."; got != want {
		t.Fatalf("Flatten = %q, want %q", got, want)
	}
}
