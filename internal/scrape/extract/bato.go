package extract

import (
	"regexp"
	"time"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/htmldoc"
)

// Chapter links on generic aggregator pages look like /title/<series>/<chapter>.
var chapterHrefPattern = regexp.MustCompile(`/title/[^/?#]+/[^/?#]+`)

var chapterAreaSelectors = []string{
	`[name="chapter-list"]`,
	`[data-name="chapter-list"]`,
	"#chapter-list",
	".episode-list",
	".scrollable-panel",
}

const nearbyTimeDepth = 4

func batoV2Latest(doc htmldoc.Document) models.ChapterUpdate {
	rows := doc.Find(".episode-list .main .item")
	if len(rows) == 0 {
		rows = doc.Find(".episode-list .item")
	}

	var update models.ChapterUpdate
	if len(rows) > 0 {
		first := rows[0]
		link := first.First("a.chapt")
		if link == nil {
			link = first.First("a")
		}
		if link != nil {
			update.LatestChapter = link.Text()
		}
		update.LastUploadedAt = timeFromNode(first.First("time"))
	}

	update.ChapterCount = positiveCount(len(rows))
	if update.ChapterCount == nil {
		update.ChapterCount = headingChapterCount(doc)
	}
	return update
}

type chapterCandidate struct {
	label      string
	href       string
	uploadedAt *time.Time
}

func batoV3Latest(doc htmldoc.Document) models.ChapterUpdate {
	candidates := make([]chapterCandidate, 0)
	for _, link := range doc.Find("a[href]") {
		if !isChapterLink(link) {
			continue
		}
		candidates = append(candidates, chapterCandidate{
			label:      link.Text(),
			href:       link.Attr("href"),
			uploadedAt: nearbyTime(link),
		})
	}

	var update models.ChapterUpdate
	if latest := pickLatestCandidate(candidates); latest != nil {
		update.LatestChapter = latest.label
		update.LastUploadedAt = latest.uploadedAt
	}
	if update.LastUploadedAt == nil {
		update.LastUploadedAt = lastTimeInChapterArea(doc)
	}

	update.ChapterCount = positiveCount(countUniqueCandidates(candidates))
	if update.ChapterCount == nil {
		update.ChapterCount = headingChapterCount(doc)
	}
	return update
}

// nearbyTime first looks at the elements that follow link, up to the next
// chapter link, since flat lists put each <time> right after its link. It
// then walks up until an ancestor holds exactly one <time>. An ancestor with
// several belongs to more than one row and stops the search.
func nearbyTime(link htmldoc.Node) *time.Time {
	if uploadedAt, found := followingTime(link); found {
		return uploadedAt
	}

	node := link.Parent()
	for depth := 0; node != nil && depth < nearbyTimeDepth; depth++ {
		times := node.Find("time")
		switch {
		case len(times) == 1:
			return timeFromNode(times[0])
		case len(times) > 1:
			return nil
		}
		node = node.Parent()
	}
	return nil
}

func followingTime(link htmldoc.Node) (*time.Time, bool) {
	for _, sibling := range link.NextSiblings() {
		if isChapterLink(sibling) || containsChapterLink(sibling) {
			return nil, false
		}
		if sibling.Is("time") {
			return timeFromNode(sibling), true
		}
		if nested := sibling.First("time"); nested != nil {
			return timeFromNode(nested), true
		}
	}
	return nil, false
}

func isChapterLink(node htmldoc.Node) bool {
	return node.Is("a[href]") && chapterHrefPattern.MatchString(node.Attr("href"))
}

func containsChapterLink(node htmldoc.Node) bool {
	for _, link := range node.Find("a[href]") {
		if isChapterLink(link) {
			return true
		}
	}
	return false
}

// pickLatestCandidate prefers the newest timestamp since pages list chapters
// in either direction. Without any timestamp the last link in document order
// wins.
func pickLatestCandidate(candidates []chapterCandidate) *chapterCandidate {
	if len(candidates) == 0 {
		return nil
	}

	var latest *chapterCandidate
	for index := range candidates {
		candidate := &candidates[index]
		if candidate.uploadedAt == nil {
			continue
		}
		if latest == nil || candidate.uploadedAt.After(*latest.uploadedAt) {
			latest = candidate
		}
	}
	if latest != nil {
		return latest
	}
	return &candidates[len(candidates)-1]
}

func countUniqueCandidates(candidates []chapterCandidate) int {
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		key := candidate.href
		if key == "" {
			key = candidate.label
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}

func lastTimeInChapterArea(doc htmldoc.Document) *time.Time {
	var area htmldoc.Node = doc
	for _, selector := range chapterAreaSelectors {
		if node := doc.First(selector); node != nil {
			area = node
			break
		}
	}

	times := area.Find("time")
	for index := len(times) - 1; index >= 0; index-- {
		if parsed := timeFromNode(times[index]); parsed != nil {
			return parsed
		}
	}
	return nil
}
