// Package extract turns wiki-style HTML documents describing game entities
// into typed records. Every field resolves independently; a label or value
// that cannot be located yields the NotDefined sentinel instead of failing
// the extraction.
package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"astromind/internal/domain"
	"astromind/internal/logger"
)

// NotDefined marks a field whose label or value could not be resolved.
// Records always carry it in place of a missing value, never null.
const NotDefined = "N/A"

// EntityRecord is the tagged-variant result of extracting one document.
// Exactly one variant pointer is non-nil, matching Kind.
type EntityRecord struct {
	Kind        domain.EntityKind  `json:"kind"`
	Name        string             `json:"name"`
	Ship        *ShipRecord        `json:"ship,omitempty"`
	Weapon      *WeaponRecord      `json:"weapon,omitempty"`
	Equipment   *EquipmentRecord   `json:"equipment,omitempty"`
	Engineering *EngineeringRecord `json:"engineering,omitempty"`
}

// SpecField is one (key, value) cell of a specifications table row.
type SpecField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SpecRow is one table row in document column order. Keys are not unique
// across rows.
type SpecRow []SpecField

// Func extracts one HTML document into an entity record.
type Func func(html string) (*EntityRecord, error)

// Parse parses an HTML document for DOM queries. No network I/O happens
// here or anywhere else in this package.
func Parse(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// PageTitle returns the page heading text, or the sentinel when the
// document has no resolvable title.
func PageTitle(doc *goquery.Document) string {
	name := strings.TrimSpace(doc.Find("#firstHeading span").First().Text())
	if name == "" {
		return NotDefined
	}
	return name
}

// asideValue reads the infobox value for a data-source attribute.
func asideValue(doc *goquery.Document, dataSource string) string {
	sel := doc.Find(fmt.Sprintf("aside div[data-source=%q] div.pi-data-value", dataSource)).First()
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return NotDefined
	}
	return cleanValue(text)
}

// valueForLabel finds an infobox h3 label and joins the text of its
// pi-data-value siblings. Multi-valued labels become one newline-joined
// string, never multiple records.
func valueForLabel(doc *goquery.Document, label string) string {
	result := NotDefined
	doc.Find("aside h3.pi-data-label").EachWithBreak(func(_ int, h3 *goquery.Selection) bool {
		if !strings.Contains(h3.Text(), label) {
			return true
		}
		var values []string
		for sib := h3.Next(); sib.Length() > 0 && sib.HasClass("pi-data-value"); sib = sib.Next() {
			if v := strings.TrimSpace(sib.Text()); v != "" {
				values = append(values, cleanValue(v))
			}
		}
		if len(values) > 0 {
			result = strings.Join(values, "\n")
		}
		return false
	})
	return result
}

// hasAsideSection reports whether the infobox contains a section with the
// given heading. It gates optional infobox sub-records.
func hasAsideSection(doc *goquery.Document, name string) bool {
	found := false
	doc.Find("aside section h2").EachWithBreak(func(_ int, h2 *goquery.Selection) bool {
		if strings.Contains(h2.Text(), name) {
			found = true
			return false
		}
		return true
	})
	return found
}

// hasSection reports whether the document body contains an h2 whose span
// text includes name. It gates optional body sub-records.
func hasSection(doc *goquery.Document, name string) bool {
	found := false
	doc.Find("h2 span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if strings.Contains(span.Text(), name) {
			found = true
			return false
		}
		return true
	})
	return found
}

var headerNormRe = regexp.MustCompile(`[()\s]+`)

// normalizeHeader turns a table header cell into a field key:
// "Damage (Type)" -> "damage_type".
func normalizeHeader(text string) string {
	key := headerNormRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "_")
	return strings.Trim(key, "_")
}

// specificationsTable extracts the table following the Specifications
// heading as ordered rows. Header count is aligned to row cell count; rows
// with mismatched cell counts are dropped.
func specificationsTable(doc *goquery.Document) []SpecRow {
	span := doc.Find("span#Specifications").First()
	if span.Length() == 0 {
		return nil
	}
	table := span.Closest("h2").NextAllFiltered("table").First()
	if table.Length() == 0 {
		return nil
	}

	var headers []string
	table.Find("tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, normalizeHeader(th.Text()))
	})
	if len(headers) == 0 {
		return nil
	}

	var rows []SpecRow
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() != len(headers) {
			return // malformed row, dropped
		}
		row := make(SpecRow, 0, len(headers))
		cells.Each(func(i int, td *goquery.Selection) {
			row = append(row, SpecField{Key: headers[i], Value: strings.TrimSpace(td.Text())})
		})
		rows = append(rows, row)
	})
	return rows
}

// cleanValue repairs the multiplication-sign artifacts carried by the wiki
// export ("×" and its mojibake form) into a plain "x".
func cleanValue(s string) string {
	s = strings.ReplaceAll(s, "Ã—", "x")
	return strings.ReplaceAll(s, "×", "x")
}

var nonWordRe = regexp.MustCompile(`\W+`)

// NormalizeName converts an entity name to its file-name form:
// "Python Mk II" -> "python-mk-ii".
func NormalizeName(s string) string {
	clean := strings.TrimSpace(nonWordRe.ReplaceAllString(strings.ToLower(s), " "))
	return strings.Join(strings.Fields(clean), "-")
}

// WriteRecord persists one record as a JSON file in dir, named after its
// kind and normalized entity name.
func WriteRecord(dir string, rec *EntityRecord) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record %q: %w", rec.Name, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_extracted_data.json", rec.Kind, NormalizeName(rec.Name)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write record %q: %w", rec.Name, err)
	}
	return path, nil
}

// Dir runs fn over every HTML document in dir. A document that fails to
// extract is logged with its filename and skipped; the batch continues.
func Dir(dir string, fn Func) ([]*EntityRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir %s: %w", dir, err)
	}
	var records []*EntityRecord
	for _, entry := range entries {
		if entry.IsDir() || !isHTMLFile(entry.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Error("Failed to read %s: %v", entry.Name(), err)
			continue
		}
		rec, err := fn(string(data))
		if err != nil {
			logger.Error("Failed to extract data for %s: %v", entry.Name(), err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func isHTMLFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}
