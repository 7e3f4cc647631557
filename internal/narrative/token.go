package narrative

import (
	"fmt"
	"regexp"
	"strings"

	"MarketBrief/internal/domain/models"
)

// Inline marker grammar: [[SENT:KIND:SYMBOL|Label|Meta]], meta optional.
var (
	markerScan   = regexp.MustCompile(`\[\[[^\]]+\]\]`)
	markerFields = regexp.MustCompile(`^\[\[([A-Z]+):([A-Z]+):([^|]+)\|([^|]+)(?:\|(.+))?\]\]$`)
)

// Encode renders a token as its inline marker.
func Encode(t models.Token) string {
	if t.Meta != "" {
		return fmt.Sprintf("[[%s:%s:%s|%s|%s]]", t.Sentiment, t.AssetClass, t.Symbol, t.Label, t.Meta)
	}
	return fmt.Sprintf("[[%s:%s:%s|%s]]", t.Sentiment, t.AssetClass, t.Symbol, t.Label)
}

// Decode splits text into plain spans and badges. A bracketed substring that
// does not match the marker grammar passes through verbatim as text; the
// decoder never discards or re-escapes anything.
func Decode(text string) []models.Node {
	var nodes []models.Node
	last := 0

	for _, loc := range markerScan.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			nodes = appendText(nodes, text[last:loc[0]])
		}

		marker := text[loc[0]:loc[1]]
		fields := markerFields.FindStringSubmatch(marker)
		if fields == nil {
			nodes = appendText(nodes, marker)
		} else {
			nodes = append(nodes, models.Node{
				Type: "badge",
				Token: &models.Token{
					Sentiment:  fields[1],
					AssetClass: fields[2],
					Symbol:     fields[3],
					Label:      fields[4],
					Meta:       fields[5],
				},
			})
		}
		last = loc[1]
	}

	if last < len(text) {
		nodes = appendText(nodes, text[last:])
	}
	return nodes
}

// appendText merges adjacent text spans so passthrough markers do not
// fragment the surrounding sentence.
func appendText(nodes []models.Node, s string) []models.Node {
	if s == "" {
		return nodes
	}
	if n := len(nodes); n > 0 && nodes[n-1].Type == "text" {
		nodes[n-1].Text += s
		return nodes
	}
	return append(nodes, models.Node{Type: "text", Text: s})
}

// Flatten renders decoded nodes back to display text, badges as labels.
func Flatten(nodes []models.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		if n.Type == "badge" && n.Token != nil {
			b.WriteString(n.Token.Label)
		} else {
			b.WriteString(n.Text)
		}
	}
	return b.String()
}
