package feeds

import (
	"context"
	"sort"
	"strings"

	"MarketBrief/internal/domain/models"
	xhttp "MarketBrief/pkg/http"
)

const (
	minMoverCap = 10_000_000_000 // $10B
	maxMovers   = 10
)

// ScreenClient pulls the capitalization-ranked movers screen.
type ScreenClient struct {
	client *xhttp.Client
	url    string
}

// NewScreenClient creates a movers screen client.
func NewScreenClient(client *xhttp.Client, url string) *ScreenClient {
	return &ScreenClient{client: client, url: url}
}

type screenRow struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"shortName"`
	MarketCap float64 `json:"marketCap"`
	Last      float64 `json:"regularMarketPrice"`
	Prev      float64 `json:"regularMarketPreviousClose"`
}

type screenResponse struct {
	Quotes []screenRow `json:"quotes"`
}

// Movers returns the top rows by market cap above $10B. Futures and index
// symbols slip into the raw screen and are excluded here.
func (c *ScreenClient) Movers(ctx context.Context) ([]models.Mover, error) {
	var resp screenResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.url,
	}, &resp)
	if err != nil {
		return nil, unavailable("screen", err)
	}

	movers := make([]models.Mover, 0, len(resp.Quotes))
	for _, row := range resp.Quotes {
		if row.MarketCap <= minMoverCap {
			continue
		}
		if strings.ContainsAny(row.Symbol, "=^") {
			continue
		}
		movers = append(movers, models.Mover{
			Symbol:    row.Symbol,
			Name:      row.Name,
			MarketCap: row.MarketCap,
			Last:      row.Last,
			Prev:      row.Prev,
		})
	}

	sort.Slice(movers, func(i, j int) bool {
		return movers[i].MarketCap > movers[j].MarketCap
	})
	if len(movers) > maxMovers {
		movers = movers[:maxMovers]
	}
	return movers, nil
}
