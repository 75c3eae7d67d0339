package site

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		host string
		want Profile
	}{
		{host: "www.webtoons.com", want: WebtoonsStyle},
		{host: "WWW.Webtoons.com", want: WebtoonsStyle},
		{host: "webtoons.com", want: BatoV3Generic},
		{host: "bato.ing", want: BatoV2Style},
		{host: "bato.si", want: BatoV2Style},
		{host: "dto.to", want: BatoV3Generic},
		{host: "bato.to", want: BatoV3Generic},
		{host: "mangaaggregator.example", want: BatoV3Generic},
		{host: "  ", want: Unrecognized},
	}

	for _, tc := range cases {
		if got := Classify(tc.host); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.host, got, tc.want)
		}
	}
}

func TestProfileString(t *testing.T) {
	if BatoV2Style.String() != "bato_v2" {
		t.Fatalf("unexpected name %q", BatoV2Style.String())
	}
	if Profile(42).String() != "unrecognized" {
		t.Fatalf("unknown profile should render as unrecognized")
	}
}
