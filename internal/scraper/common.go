package scraper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/medmaha/dokoola-scraper/internal/htmlutil"
)

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	layouts := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02",
		"2006-01-02T15:04:05-0700",
		"02 January 2006",
		"2 January 2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"02/01/2006",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %s", value)
}

// selectionHTML returns the inner HTML of the first match, falling back to
// its text when rendering fails.
func selectionHTML(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	inner, err := s.First().Html()
	if err != nil {
		return htmlutil.CleanText(s.First().Text())
	}
	return strings.TrimSpace(inner)
}

// itemTexts collects the cleaned text of every match, dropping empties.
func itemTexts(s *goquery.Selection) []string {
	var out []string
	s.Each(func(_ int, item *goquery.Selection) {
		text := htmlutil.CleanText(item.Text())
		if text == "" {
			return
		}
		out = append(out, text)
	})
	return out
}

// splitList breaks "a, b / c" style field values into items.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == '|'
	}) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// decodeJSONLD parses one ld+json block, tolerating the comment wrappers
// and line separators some sites emit inside them.
func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, " ", "")

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// findJobPosting walks decoded JSON-LD for the first JobPosting node,
// descending into arrays, @graph and mainEntity.
func findJobPosting(data any) (map[string]any, bool) {
	switch value := data.(type) {
	case []any:
		for _, item := range value {
			if posting, ok := findJobPosting(item); ok {
				return posting, true
			}
		}
	case map[string]any:
		if typ := strings.ToLower(jsonString(value["@type"], value["type"])); typ == "jobposting" {
			return value, true
		}
		if graph, ok := value["@graph"]; ok {
			if posting, ok := findJobPosting(graph); ok {
				return posting, true
			}
		}
		if main, ok := value["mainEntity"]; ok {
			if posting, ok := findJobPosting(main); ok {
				return posting, true
			}
		}
	}
	return nil, false
}

func jsonString(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case json.Number:
			return v.String()
		case []any:
			if len(v) > 0 {
				if s := jsonString(v[0]); s != "" {
					return s
				}
			}
		case map[string]any:
			if name := jsonString(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func jsonMap(value any, key string) any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

func jsonStrings(value any) []string {
	switch v := value.(type) {
	case string:
		return splitList(v)
	case []any:
		var out []string
		for _, item := range v {
			if s := jsonString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func jsonAddress(value any) (address string, country string) {
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if addr, ctry := jsonAddress(item); addr != "" || ctry != "" {
				return addr, ctry
			}
		}
	case map[string]any:
		node := v
		if inner, ok := v["address"].(map[string]any); ok {
			node = inner
		}
		parts := []string{
			jsonString(node["streetAddress"]),
			jsonString(node["addressLocality"]),
			jsonString(node["addressRegion"]),
		}
		var cleaned []string
		for _, part := range parts {
			if part != "" {
				cleaned = append(cleaned, part)
			}
		}
		return strings.Join(cleaned, ", "), jsonString(node["addressCountry"])
	case string:
		return v, ""
	}
	return "", ""
}
