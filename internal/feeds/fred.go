package feeds

import (
	"context"
	"strconv"

	"MarketBrief/internal/domain/models"
	xhttp "MarketBrief/pkg/http"
)

// FREDClient pulls an observation series from the FRED API. The policy
// indicator reads the economic policy uncertainty index through it.
type FREDClient struct {
	client   *xhttp.Client
	baseURL  string
	apiKey   string
	seriesID string
}

// NewFREDClient creates a series client for one FRED series.
func NewFREDClient(client *xhttp.Client, baseURL, apiKey, seriesID string) *FREDClient {
	return &FREDClient{
		client:   client,
		baseURL:  baseURL,
		apiKey:   apiKey,
		seriesID: seriesID,
	}
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type fredResponse struct {
	Observations []fredObservation `json:"observations"`
}

// Series returns the observation series oldest first. FRED reports missing
// observations as "."; those are skipped.
func (c *FREDClient) Series(ctx context.Context) ([]models.TimeSeriesPoint, error) {
	var resp fredResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/fred/series/observations",
		QueryParams: map[string][]string{
			"series_id": {c.seriesID},
			"api_key":   {c.apiKey},
			"file_type": {"json"},
		},
	}, &resp)
	if err != nil {
		return nil, unavailable("fred", err)
	}

	points := make([]models.TimeSeriesPoint, 0, len(resp.Observations))
	for _, obs := range resp.Observations {
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		points = append(points, models.TimeSeriesPoint{Date: obs.Date, Value: v})
	}
	if len(points) == 0 {
		return nil, parseFailure("fred", "no numeric observations")
	}
	return points, nil
}
