package feeds

import (
	"bytes"
	"context"
	"regexp"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/tabular"
	xhttp "MarketBrief/pkg/http"
)

// TPUClient downloads the trade policy uncertainty CSV export.
type TPUClient struct {
	client *xhttp.Client
	url    string
}

// NewTPUClient creates a trade policy uncertainty client.
func NewTPUClient(client *xhttp.Client, url string) *TPUClient {
	return &TPUClient{client: client, url: url}
}

var (
	tpuDatePattern  = regexp.MustCompile(`(?i)^(date|month|period|day)`)
	tpuValuePattern = regexp.MustCompile(`(?i)(tpu|trade.?policy)`)
)

// Series returns the daily TPU series oldest first. The sheet's column names
// have drifted over revisions, so both columns are located via the matcher
// chain with positional fallbacks.
func (c *TPUClient) Series(ctx context.Context) ([]models.TimeSeriesPoint, error) {
	var body []byte
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.url,
	}, &body)
	if err != nil {
		return nil, unavailable("tpu", err)
	}

	table, err := tabular.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, parseFailure("tpu", err.Error())
	}

	dateCol, ok := tabular.FindColumn(table.Header,
		tabular.Exact{Names: []string{"date", "month"}},
		tabular.Regex{Pattern: tpuDatePattern},
		tabular.Positional{Index: 0},
	)
	if !ok {
		return nil, parseFailure("tpu", "no date column")
	}
	valueCol, ok := tabular.FindColumn(table.Header,
		tabular.Exact{Names: []string{"tpu", "tpu index"}},
		tabular.Regex{Pattern: tpuValuePattern},
		tabular.Positional{Index: 1},
	)
	if !ok {
		return nil, parseFailure("tpu", "no value column")
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
		return nil, parseFailure("tpu", "no data rows")
	}
	return points, nil
}
