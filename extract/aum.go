package extract

import (
	"math"
	"strconv"
	"strings"

	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// aumPatterns match "AUM: €3,8B EUR" style annotations in page text.
var aumPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)AUM[:\s]*([€$£¥]?\s*[\d,.+]+\+?\s*[TBMK](?:rillion|illion)?\s*(?:EUR|USD|GBP)?)`),
	regexp.MustCompile(`(?i)Assets\s*Under\s*Management[:\s]*([€$£¥]?\s*[\d,.+]+\+?\s*[TBMK](?:rillion|illion)?\s*(?:EUR|USD|GBP)?)`),
}

var currencyRE = regexp.MustCompile(`[€$£¥]|(?i:EUR|USD|GBP)`)

// extractAUM finds an assets-under-management figure and normalizes it
// to a plain euro amount ("3800000000"), or returns "" when the page
// carries none.
func extractAUM(doc *goquery.Document) string {
	var aum string
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		for _, pattern := range aumPatterns {
			if m := pattern.FindStringSubmatch(text); m != nil {
				if normalized := normalizeAUM(m[1]); normalized != "" {
					aum = normalized
					return false
				}
			}
		}
		return true
	})
	return aum
}

// normalizeAUM turns a raw matched figure like "€3,8B" or "$1.2 Billion
// USD" into a rounded integer string of base units. The site mixes
// European (3,8) and US (3.8) decimal notation, so the separator roles
// are inferred from their relative positions.
func normalizeAUM(raw string) string {
	v := strings.TrimSpace(raw)
	v = strings.ReplaceAll(v, "+", "")
	v = strings.TrimSpace(currencyRE.ReplaceAllString(v, ""))

	multiplier := 1.0
	lower := strings.ToLower(v)
	switch {
	case strings.Contains(lower, "t"):
		multiplier = 1e12
		v = stripSuffix(v, "trillion", "t")
	case strings.Contains(lower, "b"):
		multiplier = 1e9
		v = stripSuffix(v, "billion", "b")
	case strings.Contains(lower, "m"):
		multiplier = 1e6
		v = stripSuffix(v, "million", "m")
	case strings.Contains(lower, "k"):
		multiplier = 1e3
		v = stripSuffix(v, "k")
	}
	v = strings.TrimSpace(v)

	hasComma := strings.Contains(v, ",")
	hasPeriod := strings.Contains(v, ".")
	switch {
	case hasComma && hasPeriod:
		if strings.LastIndex(v, ",") > strings.LastIndex(v, ".") {
			// European format: 1.000.000,50
			v = strings.ReplaceAll(v, ".", "")
			v = strings.Replace(v, ",", ".", 1)
		} else {
			// US format: 1,000,000.50
			v = strings.ReplaceAll(v, ",", "")
		}
	case hasComma:
		parts := strings.Split(v, ",")
		if len(parts) == 2 && len(parts[1]) <= 3 {
			// European decimal: 3,8
			v = strings.Replace(v, ",", ".", 1)
		} else {
			// Thousands separator: 1,000
			v = strings.ReplaceAll(v, ",", "")
		}
	}

	num, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(int64(math.Round(num*multiplier)), 10)
}

// stripSuffix removes the first matching unit suffix, longest first,
// case-insensitively.
func stripSuffix(v string, suffixes ...string) string {
	lower := strings.ToLower(v)
	for _, suffix := range suffixes {
		if idx := strings.Index(lower, suffix); idx >= 0 {
			return v[:idx] + v[idx+len(suffix):]
		}
	}
	return v
}
