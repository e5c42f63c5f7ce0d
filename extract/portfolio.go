package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// companyKeywords mark a text fragment as a plausible investment name.
var companyKeywords = []string{
	"Ventures", "Capital", "Partners", "Fund", "Labs", "Accelerator",
}

// portfolioNoise disqualifies fragments that leak in from cookie
// banners and the legal footer.
var portfolioNoise = []string{
	"cookies", "material presented", "website", "aum", "investing in startup",
}

var portfolioLabelRE = regexp.MustCompile(`(?i)Portfolio\s*:\s*([^;]*(?:;[^;]*)*)`)

// extractPortfolio collects portfolio company names. The primary
// strategy reads delimited lists after a "Portfolio" label; the
// fallback walks the siblings of a portfolio heading. First-seen
// order, deduplicated.
func extractPortfolio(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var companies []string

	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		companies = append(companies, name)
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if !strings.Contains(text, "Portfolio") || strings.Contains(text, "portfolio management") {
			return
		}
		m := portfolioLabelRE.FindStringSubmatch(text)
		if m == nil {
			return
		}
		for _, part := range strings.FieldsFunc(m[1], func(r rune) bool { return r == ',' || r == ';' }) {
			if name := strings.TrimSpace(part); isCompanyName(name) {
				add(name)
			}
		}
	})

	if len(companies) > 0 {
		return companies
	}

	// Fallback: list items under a portfolio heading.
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(heading.Text()), "portfolio") {
			return true
		}
		sibling := heading.Next()
		for i := 0; i < 5 && sibling.Length() > 0; i++ {
			sibling.Find("li, a, span").Each(func(_ int, item *goquery.Selection) {
				if name := strings.TrimSpace(item.Text()); isCompanyName(name) {
					add(name)
				}
			})
			sibling = sibling.Next()
		}
		return false
	})

	return companies
}

func isCompanyName(name string) bool {
	if len(name) <= 2 || len(name) >= 100 {
		return false
	}
	// Candidates spanning multiple text nodes show up when the label
	// regex matches an ancestor element. They are never real names.
	if strings.ContainsAny(name, "\n\t") {
		return false
	}
	lower := strings.ToLower(name)
	for _, noise := range portfolioNoise {
		if strings.Contains(lower, noise) {
			return false
		}
	}
	for _, kw := range companyKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
