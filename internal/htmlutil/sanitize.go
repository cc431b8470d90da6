package htmlutil

import (
	"html"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// strippedTags are removed wholesale before any field extraction happens.
// Keeping the stripping in one place means site extractors only ever see
// content markup.
var strippedTags = []string{
	"style",
	"noscript",
	"nav",
	"meta",
	"link",
	"form",
	"input",
	"select",
	"textarea",
	"button",
	"iframe",
	"img",
	"svg",
	"video",
	"audio",
	"canvas",
	"object",
	"embed",
}

var strippedAttrPrefixes = []string{"on"}

var strippedAttrs = []string{"style"}

// Parse builds a document from raw page source and sanitizes it in place.
func Parse(pageSource string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageSource))
	if err != nil {
		return nil, err
	}
	Sanitize(doc)
	return doc, nil
}

// Sanitize strips non-content markup from doc: the document head, script and
// media tags, inline event handlers and styles, and empty leaf elements.
func Sanitize(doc *goquery.Document) {
	// Executable scripts go; ld+json blocks stay, they carry the structured
	// posting data some boards embed instead of content markup. Blocks
	// declared in the head are rehomed before the head is dropped.
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if typ, _ := s.Attr("type"); strings.EqualFold(typ, "application/ld+json") {
			return
		}
		s.Remove()
	})
	if body := doc.Find("body"); body.Length() > 0 {
		body.AppendSelection(doc.Find("head script"))
	}
	doc.Find("head").Remove()
	doc.Find(strings.Join(strippedTags, ", ")).Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			kept := node.Attr[:0]
			for _, attr := range node.Attr {
				if dropAttr(attr.Key) {
					continue
				}
				kept = append(kept, attr)
			}
			node.Attr = kept
		}
	})

	removeEmptyLeaves(doc)
}

func dropAttr(key string) bool {
	key = strings.ToLower(key)
	for _, name := range strippedAttrs {
		if key == name {
			return true
		}
	}
	for _, prefix := range strippedAttrPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// removeEmptyLeaves repeatedly drops elements with neither text nor children.
// Removing a leaf can empty its parent, hence the loop; the pass count is
// bounded by the deepest empty subtree.
func removeEmptyLeaves(doc *goquery.Document) {
	for {
		removed := 0
		doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
			if s.Children().Length() > 0 {
				return
			}
			if strings.TrimSpace(s.Text()) != "" {
				return
			}
			if goquery.NodeName(s) == "br" || goquery.NodeName(s) == "hr" {
				return
			}
			s.Remove()
			removed++
		})
		if removed == 0 {
			return
		}
	}
}

// CleanText unescapes entities and collapses runs of whitespace.
func CleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

// FoldText lowercases value and strips diacritics, for keyword matching
// against text that sites accent inconsistently.
func FoldText(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		return strings.ToLower(value)
	}
	return strings.ToLower(folded)
}

// Truncate shortens value to at most max bytes on a word boundary where
// possible, appending an ellipsis when anything was cut.
func Truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 0 || len(value) <= max {
		return value
	}
	cut := value[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}
