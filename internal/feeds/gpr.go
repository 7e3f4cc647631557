package feeds

import (
	"bytes"
	"context"
	"regexp"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/tabular"
	xhttp "MarketBrief/pkg/http"
)

// GPRClient downloads the monthly geopolitical risk index CSV export.
type GPRClient struct {
	client *xhttp.Client
	url    string
}

// NewGPRClient creates a geopolitical risk client.
func NewGPRClient(client *xhttp.Client, url string) *GPRClient {
	return &GPRClient{client: client, url: url}
}

var (
	gprDatePattern  = regexp.MustCompile(`(?i)^(date|month|period)`)
	gprValuePattern = regexp.MustCompile(`(?i)^gpr\b`)
)

// Series returns the monthly GPR series oldest first.
func (c *GPRClient) Series(ctx context.Context) ([]models.TimeSeriesPoint, error) {
	var body []byte
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.url,
	}, &body)
	if err != nil {
		return nil, unavailable("gpr", err)
	}

	table, err := tabular.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, parseFailure("gpr", err.Error())
	}

	dateCol, ok := tabular.FindColumn(table.Header,
		tabular.Exact{Names: []string{"month", "date"}},
		tabular.Regex{Pattern: gprDatePattern},
		tabular.Positional{Index: 0},
	)
	if !ok {
		return nil, parseFailure("gpr", "no date column")
	}
	valueCol, ok := tabular.FindColumn(table.Header,
		tabular.Exact{Names: []string{"gpr"}},
		tabular.Regex{Pattern: gprValuePattern},
		tabular.Positional{Index: 1},
	)
	if !ok {
		return nil, parseFailure("gpr", "no value column")
	}

	points := make([]models.TimeSeriesPoint, 0, len(table.Rows))
	for i := range table.Rows {
		date := table.Cell(i, dateCol)
		value, ok := table.FloatCell(i, valueCol)
		if date == "" || !ok {
			continue
		}
		points = append(points, models.TimeSeriesPoint{Date: date, Value: value})
	}
	if len(points) == 0 {
		return nil, parseFailure("gpr", "no data rows")
	}
	return points, nil
}
