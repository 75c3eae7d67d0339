package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/dyatlov/go-opengraph/opengraph"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/htmldoc"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/site"
)

const UnknownTitle = "Unknown Title"

var (
	titleSuffixPattern   = regexp.MustCompile(`(?i)\s*[-–—|]\s*read\s+(?:free|online|manga|manhwa|manhua|comics?|webtoons?)\b.*$`)
	genreLabelPattern    = regexp.MustCompile(`(?i)^genres?\s*:?$`)
	languageLabelPattern = regexp.MustCompile(`(?i)^(?:translated\s+from|original\s+language|orig(?:inal)?\.?\s+lang(?:uage)?\.?)\s*:?\s*(.*)$`)
	typeLabelPattern     = regexp.MustCompile(`(?i)^(?:type|format)\s*:\s*(.*)$|^(?:type|format)\s*$`)
	separatorOnlyPattern = regexp.MustCompile(`^[\s,/|•·\-–—]*$`)
	genreSplitPattern    = regexp.MustCompile(`\s*[,/|•·]\s*`)
)

const labelSelectors = "b, strong, label, span, small, h4, h5"

const separatorCutset = " ,/|•·"

func Metadata(doc htmldoc.Document, profile site.Profile, pageURL *url.URL) models.Metadata {
	l := layoutFor(profile)
	og := readOpenGraph(doc)

	return models.Metadata{
		Title:            title(doc, l, og),
		Description:      description(doc, l, og),
		CoverImageURL:    coverImage(doc, l, og, pageURL),
		Genres:           genres(doc, l),
		OriginalLanguage: OriginalLanguage(doc),
	}
}

func readOpenGraph(doc htmldoc.Document) *opengraph.OpenGraph {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(doc.HTML())); err != nil {
		return nil
	}
	return og
}

func title(doc htmldoc.Document, l layout, og *opengraph.OpenGraph) string {
	if title := firstText(doc, l.titleSelectors); title != "" {
		return title
	}
	if og != nil {
		if title := strings.TrimSpace(og.Title); title != "" {
			return title
		}
	}
	if node := doc.First("title"); node != nil {
		if title := strings.TrimSpace(titleSuffixPattern.ReplaceAllString(node.Text(), "")); title != "" {
			return title
		}
	}
	return UnknownTitle
}

func description(doc htmldoc.Document, l layout, og *opengraph.OpenGraph) string {
	if description := firstText(doc, l.descriptionSelectors); description != "" {
		return description
	}
	if og != nil {
		if description := strings.TrimSpace(og.Description); description != "" {
			return description
		}
	}
	if node := doc.First(`meta[name="description"]`); node != nil {
		return node.Attr("content")
	}
	return ""
}

func coverImage(doc htmldoc.Document, l layout, og *opengraph.OpenGraph, pageURL *url.URL) *string {
	var raw string
	if og != nil {
		for _, image := range og.Images {
			if image != nil && strings.TrimSpace(image.URL) != "" {
				raw = strings.TrimSpace(image.URL)
				break
			}
		}
	}
	if raw == "" {
		for _, selector := range l.coverSelectors {
			if node := doc.First(selector); node != nil {
				if src := node.Attr("src"); src != "" {
					raw = src
					break
				}
			}
		}
	}
	if raw == "" {
		return nil
	}

	resolved := absoluteCoverURL(raw, l.canonicalOrigin, pageURL)
	return &resolved
}

func absoluteCoverURL(raw string, canonicalOrigin string, pageURL *url.URL) string {
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	if !strings.HasPrefix(raw, "/") {
		return raw
	}

	origin := canonicalOrigin
	if origin == "" && pageURL != nil && pageURL.Host != "" {
		origin = pageURL.Scheme + "://" + pageURL.Host
	}
	if origin == "" {
		return raw
	}
	return strings.TrimRight(origin, "/") + raw
}

// genres returns chip texts in first-seen order with duplicates dropped.
// Layouts with dedicated genre elements are read directly; otherwise the
// chips next to a "Genres:" label are used.
func genres(doc htmldoc.Document, l layout) []string {
	collector := newGenreSet()

	for _, selector := range l.genreSelectors {
		for _, node := range doc.Find(selector) {
			collector.add(node.Text())
		}
		if collector.len() > 0 {
			return collector.items
		}
	}

	for _, label := range doc.Find(labelSelectors) {
		labelText := label.Text()
		if !genreLabelPattern.MatchString(labelText) {
			continue
		}
		container := label.Parent()
		if container == nil {
			continue
		}

		for _, chip := range container.Find("a, span, u, li") {
			if !chip.IsLeaf() || chip.Text() == labelText {
				continue
			}
			collector.add(chip.Text())
		}
		if collector.len() == 0 {
			for _, part := range genreSplitPattern.Split(label.NextText(), -1) {
				collector.add(part)
			}
		}
		if collector.len() > 0 {
			return collector.items
		}
	}

	return nil
}

type genreSet struct {
	seen  map[string]struct{}
	items []string
}

func newGenreSet() *genreSet {
	return &genreSet{seen: map[string]struct{}{}}
}

func (g *genreSet) add(raw string) {
	text := strings.Trim(strings.TrimSpace(raw), separatorCutset)
	if text == "" || separatorOnlyPattern.MatchString(text) || genreLabelPattern.MatchString(text) {
		return
	}
	if _, ok := g.seen[text]; ok {
		return
	}
	g.seen[text] = struct{}{}
	g.items = append(g.items, text)
}

func (g *genreSet) len() int {
	return len(g.items)
}

var languageByType = []struct {
	keyword  string
	language string
}{
	{keyword: "manhwa", language: "Korean"},
	{keyword: "manhua", language: "Chinese"},
	{keyword: "manga", language: "Japanese"},
}

// OriginalLanguage reads the value next to a "Translated from" label, or
// infers it from the series type when no such label exists.
func OriginalLanguage(doc htmldoc.Document) *string {
	labels := doc.Find(labelSelectors)

	for _, label := range labels {
		match := languageLabelPattern.FindStringSubmatch(label.Text())
		if match == nil {
			continue
		}
		value := strings.TrimSpace(match[1])
		if value == "" {
			value = label.NextText()
		}
		value = strings.TrimSpace(strings.TrimLeft(value, ":"))
		if value != "" {
			return &value
		}
	}

	for _, label := range labels {
		match := typeLabelPattern.FindStringSubmatch(label.Text())
		if match == nil {
			continue
		}
		value := strings.TrimSpace(match[1])
		if value == "" {
			value = label.NextText()
		}
		lowered := strings.ToLower(value)
		for _, candidate := range languageByType {
			if strings.Contains(lowered, candidate.keyword) {
				language := candidate.language
				return &language
			}
		}
	}

	return nil
}

func firstText(doc htmldoc.Document, selectors []string) string {
	for _, selector := range selectors {
		for _, node := range doc.Find(selector) {
			if text := node.Text(); text != "" {
				return text
			}
		}
	}
	return ""
}
