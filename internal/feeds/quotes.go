package feeds

import (
	"context"

	xhttp "MarketBrief/pkg/http"
)

// QuoteClient fetches last and previous close for one symbol at a time.
type QuoteClient struct {
	client  *xhttp.Client
	baseURL string
}

// NewQuoteClient creates a cross-sectional quote client.
func NewQuoteClient(client *xhttp.Client, baseURL string) *QuoteClient {
	return &QuoteClient{client: client, baseURL: baseURL}
}

type quoteResponse struct {
	Symbol    string  `json:"symbol"`
	Last      float64 `json:"last"`
	PrevClose float64 `json:"prevClose"`
}

// Quote returns {last, prev} for the symbol. A zero previous close is a
// parse failure; percent math upstream would silently neutralize it.
func (c *QuoteClient) Quote(ctx context.Context, symbol string) (float64, float64, error) {
	var resp quoteResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v8/quote",
		QueryParams: map[string][]string{
			"symbols": {symbol},
		},
	}, &resp)
	if err != nil {
		return 0, 0, unavailable("quote", err)
	}
	if resp.PrevClose == 0 {
		return 0, 0, parseFailure("quote", "missing previous close for "+symbol)
	}
	return resp.Last, resp.PrevClose, nil
}
