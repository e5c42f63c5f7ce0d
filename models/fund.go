package models

// FundRecord is one fund as scraped from its detail page.
// DetailURL uniquely identifies a record within a run.
type FundRecord struct {
	Name        string
	DetailURL   string
	Geographies []string // ordered as listed on the page; may be empty
	Description string   // may be empty if the page omits it
	Portfolio   []string // portfolio company names; may be empty
	AUM         string   // assets under management, normalized to plain euros; may be empty
	LinkedInURL string   // may be empty
}

// PartialFundFields holds the extractable fields of a detail page.
// The caller combines it with the URL it fetched to form a FundRecord.
type PartialFundFields struct {
	Name        string
	Geographies []string
	Description string
	Portfolio   []string
	AUM         string
	LinkedInURL string
}

// Record combines extracted fields with the detail URL they came from.
func (f PartialFundFields) Record(detailURL string) FundRecord {
	return FundRecord{
		Name:        f.Name,
		DetailURL:   detailURL,
		Geographies: f.Geographies,
		Description: f.Description,
		Portfolio:   f.Portfolio,
		AUM:         f.AUM,
		LinkedInURL: f.LinkedInURL,
	}
}

// DiscoveredLink is an intermediate entity produced while walking list
// pages. It is consumed by the orchestrator and never persisted.
type DiscoveredLink struct {
	URL        string
	SourcePage int // zero-based index of the list page it was found on
}
