package htmldoc

import "testing"

func TestDocumentQueries(t *testing.T) {
	doc, err := ParseString(`<html><body>
<div class="row"><b>Translated from:</b>
  <span>Korean</span></div>
<div class="row"><b>Status:</b> Ongoing </div>
<ul><li><a href=" /a ">First   link</a></li><li><a href="/b">Second</a></li></ul>
</body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	links := doc.Find("ul a")
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].Attr("href") != "/a" {
		t.Fatalf("expected trimmed href /a, got %q", links[0].Attr("href"))
	}
	if links[0].Text() != "First link" {
		t.Fatalf("expected collapsed text, got %q", links[0].Text())
	}
	if !links[0].IsLeaf() {
		t.Fatalf("expected anchor to be a leaf")
	}
	if doc.First("table") != nil {
		t.Fatalf("expected nil for missing selector")
	}

	labels := doc.Find("div.row b")
	if got := labels[0].NextText(); got != "Korean" {
		t.Fatalf("expected next element text Korean, got %q", got)
	}
	if got := labels[1].NextText(); got != "Ongoing" {
		t.Fatalf("expected next text node Ongoing, got %q", got)
	}
	if parent := labels[0].Parent(); parent == nil || parent.Attr("class") != "row" {
		t.Fatalf("expected parent row div")
	}

	siblings := links[0].Parent().NextSiblings()
	if len(siblings) != 1 || !siblings[0].Is("li") || siblings[0].Text() != "Second" {
		t.Fatalf("expected the second list item as the only next sibling, got %d", len(siblings))
	}
	if links[0].Is("li") {
		t.Fatalf("expected anchor not to match li")
	}
}
