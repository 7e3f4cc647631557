package feeds

import (
	"context"
	"sort"
	"strings"
	"time"

	"MarketBrief/internal/domain/models"
	xhttp "MarketBrief/pkg/http"
	"MarketBrief/pkg/util"
)

const defaultHeadlineLimit = 50

// HeadlineClient pulls recent market headlines.
type HeadlineClient struct {
	client *xhttp.Client
	url    string
	limit  int
}

// NewHeadlineClient creates a headline client. A non-positive limit keeps the
// default cap of 50.
func NewHeadlineClient(client *xhttp.Client, url string, limit int) *HeadlineClient {
	if limit <= 0 {
		limit = defaultHeadlineLimit
	}
	return &HeadlineClient{client: client, url: url, limit: limit}
}

type headlineItem struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
}

type headlineResponse struct {
	Items []headlineItem `json:"items"`
}

// Headlines returns recent items, deduplicated case-insensitively by title,
// newest first, capped at the configured limit. Tags are not set here.
func (c *HeadlineClient) Headlines(ctx context.Context) ([]models.Headline, error) {
	var resp headlineResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.url,
	}, &resp)
	if err != nil {
		return nil, unavailable("headlines", err)
	}

	seen := make(map[string]bool, len(resp.Items))
	headlines := make([]models.Headline, 0, len(resp.Items))
	for _, item := range resp.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if seen[key] {
			continue
		}
		seen[key] = true
		headlines = append(headlines, models.Headline{
			Title:  title,
			Source: item.Source,
			Time:   util.ParseTimeDefault(item.PublishedAt, time.Now()),
		})
	}

	sort.Slice(headlines, func(i, j int) bool {
		return headlines[i].Time.After(headlines[j].Time)
	})
	if len(headlines) > c.limit {
		headlines = headlines[:c.limit]
	}
	return headlines, nil
}
