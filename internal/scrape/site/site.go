package site

import "strings"

type Profile int

const (
	Unrecognized Profile = iota
	WebtoonsStyle
	BatoV2Style
	BatoV3Generic
)

var profileNames = map[Profile]string{
	Unrecognized:  "unrecognized",
	WebtoonsStyle: "webtoons",
	BatoV2Style:   "bato_v2",
	BatoV3Generic: "bato_v3",
}

func (p Profile) String() string {
	if name, ok := profileNames[p]; ok {
		return name
	}
	return profileNames[Unrecognized]
}

// Classify picks the extraction profile from the final hostname of a fetch.
// Any non-empty host that is not a known family gets the generic aggregator
// layout.
func Classify(host string) Profile {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "":
		return Unrecognized
	case "www.webtoons.com":
		return WebtoonsStyle
	case "bato.ing", "bato.si":
		return BatoV2Style
	default:
		return BatoV3Generic
	}
}
