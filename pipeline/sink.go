package pipeline

import "github.com/thanosdpapaioannou/ora-global-website-scraper/models"

// Sink consumes successfully scraped records. The pipeline hands off
// ownership on Append; persistence is the sink's problem.
type Sink interface {
	Append(rec models.FundRecord) error
	Close() error
}

// MultiSink fans one record out to several sinks.
type MultiSink []Sink

func (m MultiSink) Append(rec models.FundRecord) error {
	for _, s := range m {
		if err := s.Append(rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, returning the first error.
func (m MultiSink) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
