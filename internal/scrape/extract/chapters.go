package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/htmldoc"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/site"
)

var chaptersHeadingPattern = regexp.MustCompile(`(?i)chapters?\s*\(\s*(\d+)\s*\)`)

// Attribute order matters: the first one that parses wins.
var timeAttributes = []string{"data-time", "time", "datetime"}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Latest runs the chapter strategy for profile. Strategies never share
// selectors, so a page is only ever read one way.
func Latest(doc htmldoc.Document, profile site.Profile) models.ChapterUpdate {
	switch profile {
	case site.WebtoonsStyle:
		return webtoonsLatest(doc)
	case site.BatoV2Style:
		return batoV2Latest(doc)
	default:
		return batoV3Latest(doc)
	}
}

func timeFromNode(node htmldoc.Node) *time.Time {
	if node == nil {
		return nil
	}
	for _, attr := range timeAttributes {
		if parsed := parseTimestamp(node.Attr(attr)); parsed != nil {
			return parsed
		}
	}
	return nil
}

// parseTimestamp accepts epoch milliseconds first, then ISO-8601 forms.
func parseTimestamp(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if millis, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		if millis <= 0 {
			return nil
		}
		parsed := time.UnixMilli(millis).UTC()
		return &parsed
	}

	for _, layout := range isoLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

func headingChapterCount(doc htmldoc.Document) *int {
	for _, node := range doc.Find("h1, h2, h3, h4, h5, h6, b, strong, .head, .episode-head") {
		match := chaptersHeadingPattern.FindStringSubmatch(node.Text())
		if len(match) < 2 {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if count := positiveCount(value); count != nil {
			return count
		}
	}
	return nil
}

// positiveCount treats zero and negative counts as absent.
func positiveCount(value int) *int {
	if value <= 0 {
		return nil
	}
	return &value
}
