package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// geographyVocabulary is the closed set of region names the site uses.
// Free-text matching without it picks up headings, nav items and legal
// text; matching against the vocabulary keeps only actual locations.
var geographyVocabulary = []string{
	"Global", "Europe", "Asia", "Africa", "America", "Americas",
	"North America", "South America", "Latin America",
	"USA", "US", "United States", "UK", "United Kingdom",
	"Germany", "France", "Spain", "Italy", "Poland",
	"Ireland", "Netherlands", "Belgium", "Switzerland",
	"Austria", "Sweden", "Norway", "Denmark", "Finland",
	"Portugal", "Greece", "Czech Republic", "Hungary",
	"Romania", "Bulgaria", "Croatia", "Serbia", "Slovenia",
	"Estonia", "Latvia", "Lithuania", "Luxembourg",
	"Canada", "Mexico", "Brazil", "Argentina", "Chile",
	"China", "Japan", "India", "Singapore", "Australia",
	"Israel", "Turkey", "Russia", "Ukraine",
	"EMEA", "APAC", "LATAM", "NAMER", "MENA",
	"CEE", "DACH", "Nordics", "Benelux",
	"Central Europe", "Eastern Europe", "Western Europe",
	"Northern Europe", "Southern Europe",
}

var geographyLabels = []string{"Investment geography", "Geography", "Regions"}

var geographySplitRE = regexp.MustCompile(`[,;:/\n]`)

// extractGeographies finds the regions a fund invests in. The primary
// strategy reads labeled geography sections; if none yield a match, the
// fallback scans short standalone text blocks for vocabulary entries.
// Order is first-seen in the document, deduplicated.
func extractGeographies(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var geos []string

	add := func(geo string) {
		if _, ok := seen[geo]; ok {
			return
		}
		seen[geo] = struct{}{}
		geos = append(geos, geo)
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		// Long blocks and link dumps are never geography sections.
		if len(text) > 200 || strings.Contains(text, "http") || strings.Contains(text, "www.") {
			return
		}
		if !containsAnyLabel(text) {
			return
		}
		for _, part := range geographySplitRE.Split(text, -1) {
			if geo, ok := vocabularyMatch(strings.TrimSpace(part)); ok {
				add(geo)
			}
		}
	})

	if len(geos) > 0 {
		return geos
	}

	// Fallback: standalone mentions in small text blocks.
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > 50 || strings.Contains(text, "http") {
			return
		}
		if geo, ok := vocabularyMatch(text); ok {
			add(geo)
		}
	})

	return geos
}

func containsAnyLabel(text string) bool {
	for _, label := range geographyLabels {
		if strings.Contains(text, label) {
			return true
		}
	}
	return false
}

// vocabularyMatch returns the canonical vocabulary spelling for a
// candidate string, matching case-insensitively.
func vocabularyMatch(candidate string) (string, bool) {
	if candidate == "" {
		return "", false
	}
	for _, geo := range geographyVocabulary {
		if strings.EqualFold(candidate, geo) {
			return geo, true
		}
	}
	return "", false
}
