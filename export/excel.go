package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/thanosdpapaioannou/ora-global-website-scraper/models"
)

const excelSheet = "Funds"

var excelColumns = []struct {
	title string
	width float64
}{
	{"Fund Name", 30},
	{"Fund URL", 50},
	{"Investment Geographies", 30},
	{"Fund Description", 60},
	{"Fund Portfolio", 50},
	{"AUM (EUR)", 15},
	{"LinkedIn URL", 40},
}

// ExcelSink accumulates records into a styled workbook, written out on
// Close.
type ExcelSink struct {
	book       *excelize.File
	path       string
	row        int
	cellStyle  int
	moneyStyle int
}

// NewExcelSink prepares the workbook: styled header row, column
// widths, frozen header pane.
func NewExcelSink(path string) (*ExcelSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	book := excelize.NewFile()
	if err := book.SetSheetName("Sheet1", excelSheet); err != nil {
		return nil, err
	}

	thinBorder := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	headerStyle, err := book.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"000080"}},
		Border: thinBorder,
	})
	if err != nil {
		return nil, err
	}
	cellStyle, err := book.NewStyle(&excelize.Style{Border: thinBorder})
	if err != nil {
		return nil, err
	}
	moneyFmt := "#,##0"
	moneyStyle, err := book.NewStyle(&excelize.Style{
		Border:       thinBorder,
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, err
	}

	for i, col := range excelColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		cell := name + "1"
		if err := book.SetCellValue(excelSheet, cell, col.title); err != nil {
			return nil, err
		}
		if err := book.SetCellStyle(excelSheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		if err := book.SetColWidth(excelSheet, name, name, col.width); err != nil {
			return nil, err
		}
	}

	if err := book.SetPanes(excelSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	return &ExcelSink{
		book:       book,
		path:       path,
		row:        1,
		cellStyle:  cellStyle,
		moneyStyle: moneyStyle,
	}, nil
}

// Append adds one record as the next row. A parseable AUM value is
// written as a number so the money format applies.
func (s *ExcelSink) Append(rec models.FundRecord) error {
	s.row++
	values := []any{
		rec.Name,
		rec.DetailURL,
		strings.Join(rec.Geographies, multiValueSeparator),
		rec.Description,
		strings.Join(rec.Portfolio, multiValueSeparator),
		rec.AUM,
		rec.LinkedInURL,
	}

	for i, v := range values {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		cell := name + strconv.Itoa(s.row)

		style := s.cellStyle
		if i == 5 && rec.AUM != "" {
			if aum, perr := strconv.ParseFloat(rec.AUM, 64); perr == nil {
				v = aum
				style = s.moneyStyle
			}
		}

		if err := s.book.SetCellValue(excelSheet, cell, v); err != nil {
			return err
		}
		if err := s.book.SetCellStyle(excelSheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

// Close writes the workbook to disk.
func (s *ExcelSink) Close() error {
	if err := s.book.SaveAs(s.path); err != nil {
		s.book.Close()
		return err
	}
	return s.book.Close()
}
