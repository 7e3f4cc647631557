package narrative

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"MarketBrief/internal/domain/models"
)

// Headline tag categories. Adding a category is a table entry, not new
// control flow.
const (
	TagFed       = "FED"
	TagInflation = "INFLATION"
	TagJobs      = "JOBS"
	TagOil       = "OIL"
	TagAI        = "AI"
	TagChina     = "CHINA"
	TagPolitics  = "POLITICS"
)

type tagRule struct {
	Tag     string
	Pattern *regexp.Regexp
}

var tagRules = []tagRule{
	{TagFed, regexp.MustCompile(`(?i)\b(fed|fomc|powell|rate|dot plot|hike|cut)\b`)},
	{TagInflation, regexp.MustCompile(`(?i)\b(cpi|ppi|inflation|prices)\b`)},
	{TagJobs, regexp.MustCompile(`(?i)\b(nonfarm|payrolls|unemployment|jobless claims)\b`)},
	{TagOil, regexp.MustCompile(`(?i)\b(opec|saudi|inventory|barrel|crude|oil)\b`)},
	{TagAI, regexp.MustCompile(`(?i)\b(ai|chip|semiconductor|nvda|nvidia|tsmc|amd|arm)\b`)},
	{TagChina, regexp.MustCompile(`(?i)\b(china|beijing|tariff)\b`)},
	{TagPolitics, regexp.MustCompile(`(?i)\b(white house|congress|tariff|election|sanction|geopolitical|ukraine|gaza|iran)\b`)},
}

var tagPhrases = map[string]string{
	TagFed:       "Fed-cut hopes after soft CPI",
	TagInflation: "inflation data driving sentiment",
	TagJobs:      "jobs data supporting rate outlook",
	TagOil:       "oil drops on inventory build",
	TagAI:        "chip optimism into Nvidia earnings",
	TagChina:     "China growth jitters",
	TagPolitics:  "tariff headlines",
}

// decayHours controls how fast a headline's weight fades.
const decayHours = 24.0

// TagHeadline returns every category the title matches, in rule order.
func TagHeadline(title string) []string {
	var tags []string
	lower := strings.ToLower(title)
	for _, rule := range tagRules {
		if rule.Pattern.MatchString(lower) {
			tags = append(tags, rule.Tag)
		}
	}
	return tags
}

// TopTags scores tags across headlines with exponential recency decay and
// returns the best n, highest score first. Ties break by rule order so the
// result is deterministic.
func TopTags(headlines []models.Headline, now time.Time, n int) []string {
	scores := make(map[string]float64)
	for _, h := range headlines {
		age := now.Sub(h.Time).Hours()
		if age < 0 {
			age = 0
		}
		weight := math.Exp(-age / decayHours)
		tags := h.Tags
		if tags == nil {
			tags = TagHeadline(h.Title)
		}
		for _, tag := range tags {
			scores[tag] += weight
		}
	}

	ranked := make([]string, 0, len(scores))
	for tag := range scores {
		ranked = append(ranked, tag)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if scores[ranked[i]] != scores[ranked[j]] {
			return scores[ranked[i]] > scores[ranked[j]]
		}
		return ruleOrder(ranked[i]) < ruleOrder(ranked[j])
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Phrase maps a tag to its canned explanatory phrase.
func Phrase(tag string) string {
	return tagPhrases[tag]
}

func ruleOrder(tag string) int {
	for i, rule := range tagRules {
		if rule.Tag == tag {
			return i
		}
	}
	return len(tagRules)
}
