package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/thanosdpapaioannou/ora-global-website-scraper/models"
)

const detailPage = `<html><body>
<h1>Northwind Capital</h1>
<div class="description">Northwind Capital is a growth-stage investor backing European software companies, with a focus on B2B marketplaces and fintech infrastructure across the region.</div>
<div class="facts">
  <span>Investment geography: Europe, DACH, Poland</span>
  <span>AUM: €3,8B</span>
</div>
<div>Portfolio: Alpha Ventures, Beta Capital; Gamma Partners</div>
<footer><a href="https://www.linkedin.com/company/northwind-capital">LinkedIn</a></footer>
</body></html>`

func TestExtract_FullPage(t *testing.T) {
	fields, err := Extract(detailPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fields.Name != "Northwind Capital" {
		t.Errorf("name = %q", fields.Name)
	}
	wantGeos := []string{"Europe", "DACH", "Poland"}
	if len(fields.Geographies) != len(wantGeos) {
		t.Fatalf("geographies = %v, want %v", fields.Geographies, wantGeos)
	}
	for i, g := range wantGeos {
		if fields.Geographies[i] != g {
			t.Errorf("geographies[%d] = %q, want %q", i, fields.Geographies[i], g)
		}
	}
	if !strings.HasPrefix(fields.Description, "Northwind Capital is a growth-stage investor") {
		t.Errorf("description = %q", fields.Description)
	}
	wantPortfolio := []string{"Alpha Ventures", "Beta Capital", "Gamma Partners"}
	if len(fields.Portfolio) != len(wantPortfolio) {
		t.Fatalf("portfolio = %v, want %v", fields.Portfolio, wantPortfolio)
	}
	for i, p := range wantPortfolio {
		if fields.Portfolio[i] != p {
			t.Errorf("portfolio[%d] = %q, want %q", i, fields.Portfolio[i], p)
		}
	}
	if fields.AUM != "3800000000" {
		t.Errorf("aum = %q, want 3800000000", fields.AUM)
	}
	if fields.LinkedInURL != "https://www.linkedin.com/company/northwind-capital" {
		t.Errorf("linkedin = %q", fields.LinkedInURL)
	}
}

func TestExtract_MissingDescriptionIsNotFatal(t *testing.T) {
	page := `<html><body>
<h1>Quiet Fund</h1>
<span>Investment geography: Nordics, Estonia</span>
</body></html>`

	fields, err := Extract(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields.Name != "Quiet Fund" {
		t.Errorf("name = %q", fields.Name)
	}
	if fields.Description != "" {
		t.Errorf("description = %q, want empty", fields.Description)
	}
	if len(fields.Geographies) != 2 || fields.Geographies[0] != "Nordics" || fields.Geographies[1] != "Estonia" {
		t.Errorf("geographies = %v", fields.Geographies)
	}
}

func TestExtract_MissingNameIsFatal(t *testing.T) {
	page := `<html><body>
<div class="description">A long enough description block that would normally be extracted without any problem at all.</div>
</body></html>`

	_, err := Extract(page)
	if err == nil {
		t.Fatal("expected error")
	}
	var ee *models.ExtractError
	if !errors.As(err, &ee) {
		t.Fatalf("error is %T, want *models.ExtractError", err)
	}
	if ee.Field != "name" {
		t.Errorf("field = %q, want name", ee.Field)
	}
}

func TestExtract_NameFallbackSelector(t *testing.T) {
	page := `<html><body>
<div class="fund-name">  Horizon Partners  </div>
</body></html>`

	fields, err := Extract(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields.Name != "Horizon Partners" {
		t.Errorf("name = %q, want trimmed fallback", fields.Name)
	}
}

func TestExtract_BoilerplateStrippedFromDescription(t *testing.T) {
	page := `<html><body>
<h1>Filtered Fund</h1>
<div class="about">Filtered Fund invests in seed-stage teams across central Europe and beyond. The material presented via this website is for informational purposes only. Nothing in this website constitutes a solicitation.</div>
</body></html>`

	fields, err := Extract(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(fields.Description, "material presented") {
		t.Errorf("boilerplate survived: %q", fields.Description)
	}
	if !strings.HasPrefix(fields.Description, "Filtered Fund invests") {
		t.Errorf("description = %q", fields.Description)
	}
}

func TestExtract_DescriptionParagraphFallback(t *testing.T) {
	long := strings.Repeat("An investor profile sentence with plenty of detail. ", 4)
	page := `<html><body><h1>Para Fund</h1><p>` + long + `</p></body></html>`

	fields, err := Extract(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(fields.Description, "An investor profile sentence") {
		t.Errorf("description = %q", fields.Description)
	}
	if len(fields.Description) > 1000 {
		t.Errorf("description length = %d, want <= 1000", len(fields.Description))
	}
}

func TestExtract_EmptyGeographySectionsYieldEmptySlice(t *testing.T) {
	page := `<html><body><h1>Bare Fund</h1></body></html>`

	fields, err := Extract(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields.Geographies) != 0 {
		t.Errorf("geographies = %v, want empty", fields.Geographies)
	}
	if len(fields.Portfolio) != 0 {
		t.Errorf("portfolio = %v, want empty", fields.Portfolio)
	}
}

func TestExtractGeographies_CaseInsensitiveCanonical(t *testing.T) {
	page := `<html><body>
<h1>Case Fund</h1>
<span>Geography: europe / latam</span>
</body></html>`

	fields, err := Extract(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields.Geographies) != 2 || fields.Geographies[0] != "Europe" || fields.Geographies[1] != "LATAM" {
		t.Errorf("geographies = %v, want canonical [Europe LATAM]", fields.Geographies)
	}
}

func TestExtractPortfolio_HeadingFallback(t *testing.T) {
	page := `<html><body>
<h1>Sibling Fund</h1>
<h3>Portfolio</h3>
<ul><li>Delta Labs</li><li>Epsilon Fund</li><li>not a company</li></ul>
</body></html>`

	fields, err := Extract(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Delta Labs", "Epsilon Fund"}
	if len(fields.Portfolio) != len(want) {
		t.Fatalf("portfolio = %v, want %v", fields.Portfolio, want)
	}
	for i, p := range want {
		if fields.Portfolio[i] != p {
			t.Errorf("portfolio[%d] = %q, want %q", i, fields.Portfolio[i], p)
		}
	}
}
