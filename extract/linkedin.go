package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractLinkedIn returns the fund's LinkedIn profile URL. Profile
// links (/company/, /in/) win over bare linkedin.com mentions; social
// sections and icon links are the fallbacks.
func extractLinkedIn(doc *goquery.Document) string {
	var found string

	doc.Find(`a[href*="linkedin.com"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(href, "linkedin.com/company/") || strings.Contains(href, "linkedin.com/in/") {
			found = href
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	doc.Find(`[class*="social"] a, [class*="Social"] a, footer a`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(href, "linkedin.com") {
			found = href
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	doc.Find(`a[aria-label*="LinkedIn"], a[title*="LinkedIn"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href, ok := s.Attr("href"); ok && href != "" {
			found = href
			return false
		}
		return true
	})
	return found
}
