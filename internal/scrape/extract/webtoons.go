package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/htmldoc"
)

var webtoonsEpisodeTokenPattern = regexp.MustCompile(`^#\s*(\d+)`)

var webtoonsDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
}

func webtoonsLatest(doc htmldoc.Document) models.ChapterUpdate {
	items := doc.Find("#_listUl li._episodeItem")
	if len(items) == 0 {
		items = doc.Find("#_listUl > li")
	}
	if len(items) == 0 {
		return models.ChapterUpdate{}
	}

	first := items[0]
	update := models.ChapterUpdate{
		LatestChapter: webtoonsEpisodeLabel(first),
	}
	if dateNode := first.First(".date"); dateNode != nil {
		update.LastUploadedAt = parseWebtoonsDate(dateNode.Text())
	}

	episodeNo := webtoonsEpisodeNumber(first, len(items))
	update.ChapterCount = positiveCount(max(len(items), episodeNo))

	return update
}

func webtoonsEpisodeLabel(item htmldoc.Node) string {
	for _, selector := range []string{".subj span", ".subj", "a"} {
		if node := item.First(selector); node != nil {
			if text := node.Text(); text != "" {
				return text
			}
		}
	}
	return ""
}

func webtoonsEpisodeNumber(item htmldoc.Node, listLength int) int {
	if number, err := strconv.Atoi(item.Attr("data-episode-no")); err == nil && number > 0 {
		return number
	}
	if tx := item.First(".tx"); tx != nil {
		if match := webtoonsEpisodeTokenPattern.FindStringSubmatch(tx.Text()); len(match) == 2 {
			if number, err := strconv.Atoi(match[1]); err == nil && number > 0 {
				return number
			}
		}
	}
	return listLength
}

// parseWebtoonsDate reads the list's "Month Day, Year" text. The list shows
// the upload a day behind for readers west of UTC, so the calendar day is
// moved forward one and pinned to noon UTC.
func parseWebtoonsDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	for _, layout := range webtoonsDateLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		shifted := time.Date(parsed.Year(), parsed.Month(), parsed.Day()+1, 12, 0, 0, 0, time.UTC)
		return &shifted
	}
	return nil
}
