package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"astromind/internal/domain"
)

// EngineeringRecord describes one engineering upgrade effect page.
type EngineeringRecord struct {
	Availability []string           `json:"availability"`
	Grades       []EngineeringGrade `json:"grades"`
}

// EngineeringGrade holds the flattened effects table of one upgrade grade.
type EngineeringGrade struct {
	Grade   int    `json:"grade"`
	Effects string `json:"effects"`
}

// Engineering extracts an engineering upgrade page into an entity record.
func Engineering(html string) (*EntityRecord, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	rec := &EngineeringRecord{
		Availability: engineeringAvailability(doc),
	}
	for level := 1; level <= 5; level++ {
		if grade := engineeringGrade(doc, level); grade != nil {
			rec.Grades = append(rec.Grades, *grade)
		}
	}
	return &EntityRecord{Kind: domain.KindEngineering, Name: EffectName(doc), Engineering: rec}, nil
}

// EffectName prefers the page header, then the document title with its
// site suffix stripped.
func EffectName(doc *goquery.Document) string {
	h1 := doc.Find("h1.page-header__title").First()
	if h1.Length() > 0 {
		if span := h1.Find("span.mw-page-title-main").First(); span.Length() > 0 {
			return strings.TrimSpace(span.Text())
		}
		return strings.TrimSpace(h1.Text())
	}
	if title := doc.Find("title").First().Text(); title != "" {
		return strings.TrimSpace(strings.SplitN(title, "|", 2)[0])
	}
	return NotDefined
}

func engineeringAvailability(doc *goquery.Document) []string {
	span := doc.Find("span#Availability").First()
	if span.Length() == 0 {
		return nil
	}
	ul := span.Parent().NextAllFiltered("ul").First()
	var out []string
	ul.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if t := strings.TrimSpace(li.Find("a").First().Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// engineeringGrade flattens the effects table under the grade heading into
// one comma-and-newline separated string, row per line.
func engineeringGrade(doc *goquery.Document, level int) *EngineeringGrade {
	span := doc.Find(fmt.Sprintf("span#Grade_%d", level)).First()
	if span.Length() == 0 {
		return nil
	}
	table := span.Parent().NextAllFiltered("table").First()
	if table.Length() == 0 {
		return nil
	}
	var effects strings.Builder
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var values []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			v := strings.TrimSpace(cell.Text())
			v = strings.ReplaceAll(v, "\n", " ")
			v = strings.ReplaceAll(v, "\r", " ")
			values = append(values, v)
		})
		if len(values) > 0 {
			effects.WriteString(strings.Join(values, ","))
			effects.WriteString("\n")
		}
	})
	return &EngineeringGrade{Grade: level, Effects: effects.String()}
}
