package extract

import "github.com/gabriel/reading-tracker/backend/internal/scrape/site"

// layout is the per-site selector set used by the metadata extractors.
type layout struct {
	titleSelectors       []string
	descriptionSelectors []string
	coverSelectors       []string
	genreSelectors       []string
	// canonicalOrigin resolves root-relative cover paths. Empty means the
	// page's own origin.
	canonicalOrigin string
}

var layouts = map[site.Profile]layout{
	site.WebtoonsStyle: {
		titleSelectors:       []string{"h1.subj", ".detail_header .subj", "h3 b a"},
		descriptionSelectors: []string{"p.summary", "#_asideDetail .summary"},
		coverSelectors:       []string{".detail_header .thmb img", ".detail_body .thmb img"},
		genreSelectors:       []string{".detail_header .info h2.genre", "h2.genre", ".info .genre"},
		canonicalOrigin:      "https://www.webtoons.com",
	},
	site.BatoV2Style: {
		titleSelectors:       []string{"h3.item-title a", "h3 b a"},
		descriptionSelectors: []string{"#limit-height-body-summary .limit-html", ".limit-html"},
		coverSelectors:       []string{".attr-cover img", ".detail-set img"},
		canonicalOrigin:      "https://bato.ing",
	},
	site.BatoV3Generic: {
		titleSelectors:       []string{"h3.font-bold a", "h3 b a", "h3 a[href*='/title/']"},
		descriptionSelectors: []string{".limit-html-p", ".limit-html", ".prose"},
		coverSelectors:       []string{"main img.w-full", ".attr-cover img"},
	},
}

func layoutFor(profile site.Profile) layout {
	if l, ok := layouts[profile]; ok {
		return l
	}
	return layouts[site.BatoV3Generic]
}
