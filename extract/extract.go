// Package extract turns the rendered HTML of a fund detail page into
// typed field values. It is a pure function over the HTML string; the
// caller supplies the URL the page came from.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/thanosdpapaioannou/ora-global-website-scraper/models"
)

// nameSelectors is the fallback ladder tried when no <h1> carries the
// fund name.
var nameSelectors = []string{
	".fund-name", ".company-name", ".title", `[class*="name"]`,
}

// descriptionSelectors is the primary ladder for the description block.
var descriptionSelectors = []string{
	".description", ".about", ".overview", `[class*="description"]`, `[class*="about"]`,
}

// boilerplateMarker starts the site-wide legal disclaimer that pollutes
// description blocks and must never end up in the export.
const boilerplateMarker = "The material presented via this website"

var whitespaceRE = regexp.MustCompile(`\s+`)

// Extract parses the detail-page HTML and applies the per-field
// selector strategies. Fields are independent: a missing description
// does not block geographies. Only a missing name is fatal.
func Extract(rawHTML string) (models.PartialFundFields, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return models.PartialFundFields{}, &models.ExtractError{Field: "name"}
	}
	doc := goquery.NewDocumentFromNode(root)

	fields := models.PartialFundFields{
		Name:        extractName(doc, root),
		Geographies: extractGeographies(doc),
		Description: extractDescription(doc, root),
		Portfolio:   extractPortfolio(doc),
		AUM:         extractAUM(doc),
		LinkedInURL: extractLinkedIn(doc),
	}

	if fields.Name == "" {
		return models.PartialFundFields{}, &models.ExtractError{Field: "name"}
	}
	return fields, nil
}

// matchSelection resolves a raw CSS selector against the parsed tree.
// Selectors in the fallback ladders are arbitrary strings, so they go
// through cascadia directly and a bad one simply matches nothing.
func matchSelection(doc *goquery.Document, root *html.Node, selector string) *goquery.Selection {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return doc.FindNodes()
	}
	return doc.FindNodes(cascadia.QueryAll(root, sel)...)
}

func extractName(doc *goquery.Document, root *html.Node) string {
	if name := strings.TrimSpace(doc.Find("h1").First().Text()); name != "" {
		return name
	}
	for _, selector := range nameSelectors {
		var name string
		matchSelection(doc, root, selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			name = strings.TrimSpace(s.Text())
			return name == ""
		})
		if name != "" {
			return name
		}
	}
	return ""
}

func extractDescription(doc *goquery.Document, root *html.Node) string {
	for _, selector := range descriptionSelectors {
		var found string
		matchSelection(doc, root, selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := s.Text()
			if len(text) <= 50 {
				return true
			}
			text = stripBoilerplate(collapseWhitespace(text))
			if len(text) > 20 {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	// Fallback: stitch together the substantial paragraphs.
	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if len(text) > 100 && !strings.Contains(text, boilerplateMarker) {
			parts = append(parts, strings.TrimSpace(text))
		}
	})
	if len(parts) == 0 {
		return ""
	}
	joined := collapseWhitespace(strings.Join(parts, " "))
	if len(joined) > 1000 {
		joined = joined[:1000]
	}
	return stripBoilerplate(joined)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

func stripBoilerplate(s string) string {
	if idx := strings.Index(s, boilerplateMarker); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s
}
