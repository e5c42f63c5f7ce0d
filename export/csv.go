// Package export provides the tabular sinks consuming scraped records.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thanosdpapaioannou/ora-global-website-scraper/models"
)

// multiValueSeparator joins geography and portfolio entries inside one
// CSV cell. A semicolon cannot collide with the comma delimiter, and
// the csv writer quotes whatever else needs quoting.
const multiValueSeparator = "; "

var csvHeader = []string{
	"fund_name",
	"fund_url",
	"investment_geographies",
	"fund_description",
	"fund_portfolio",
	"aum_eur",
	"linkedin_url",
}

// CSVSink appends records to a CSV file, header first. Each record is
// flushed immediately so an interrupted run still leaves a usable file.
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink creates the output file (and its directory) and writes
// the header row.
func NewCSVSink(path string) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVSink{file: f, writer: w}, nil
}

// Append writes one record and flushes.
func (s *CSVSink) Append(rec models.FundRecord) error {
	row := []string{
		rec.Name,
		rec.DetailURL,
		strings.Join(rec.Geographies, multiValueSeparator),
		rec.Description,
		strings.Join(rec.Portfolio, multiValueSeparator),
		rec.AUM,
		rec.LinkedInURL,
	}
	if err := s.writer.Write(row); err != nil {
		return err
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes pending output and closes the file.
func (s *CSVSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
