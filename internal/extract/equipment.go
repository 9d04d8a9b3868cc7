package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"astromind/internal/domain"
)

// EquipmentRecord holds the overview, specifications table and engineering
// options of one equipment page.
type EquipmentRecord struct {
	Overview       *EquipmentOverview    `json:"overview,omitempty"`
	Specifications []SpecRow             `json:"specifications"`
	Engineering    *EquipmentEngineering `json:"engineering,omitempty"`
}

// EquipmentOverview carries the infobox fields of an equipment page.
type EquipmentOverview struct {
	ImageURL      string `json:"image_url"`
	Slot          string `json:"slot"`
	Classes       string `json:"classes"`
	Ratings       string `json:"ratings"`
	NeededRefills string `json:"needed_refills"`
	DefaultKey    string `json:"default_key"`
}

// EquipmentEngineering lists who can modify the equipment and which
// upgrades apply.
type EquipmentEngineering struct {
	Engineers []string `json:"engineers"`
	Upgrades  []string `json:"upgrades"`
}

// Equipment extracts an equipment page into an entity record.
func Equipment(html string) (*EntityRecord, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	name := PageTitle(doc)

	var overview *EquipmentOverview
	aside := doc.Find("aside.portable-infobox").First()
	if aside.Length() > 0 {
		if title := strings.TrimSpace(aside.Find("h2.pi-title").First().Text()); title != "" {
			name = title
		}
		overview = equipmentOverview(aside)
	}

	rec := &EquipmentRecord{
		Overview:       overview,
		Specifications: specificationsTable(doc),
	}
	if doc.Find("h2 span#Engineer_Modifications").Length() > 0 {
		rec.Engineering = &EquipmentEngineering{
			Engineers: anchorTexts(doc.Find("div[data-source*=engineers] a")),
			Upgrades:  anchorTexts(engineerUpgradeList(doc)),
		}
	}
	return &EntityRecord{Kind: domain.KindEquipment, Name: name, Equipment: rec}, nil
}

// EquipmentInfoboxMap renders the equipment infobox as generic metadata
// for overview-chunk attachment. Nil when the page has no infobox.
func EquipmentInfoboxMap(doc *goquery.Document) map[string]any {
	aside := doc.Find("aside.portable-infobox").First()
	if aside.Length() == 0 {
		return nil
	}
	return map[string]any{"overview": *equipmentOverview(aside)}
}

// equipmentOverview resolves the Information section fields by label
// keyword. Unmatched fields keep the sentinel.
func equipmentOverview(aside *goquery.Selection) *EquipmentOverview {
	overview := &EquipmentOverview{
		ImageURL:      NotDefined,
		Slot:          NotDefined,
		Classes:       NotDefined,
		Ratings:       NotDefined,
		NeededRefills: NotDefined,
		DefaultKey:    NotDefined,
	}
	if src, ok := aside.Find("figure.pi-image img").First().Attr("src"); ok {
		overview.ImageURL = src
	}
	aside.Find("div.pi-data").Each(func(_ int, block *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(block.Find("h3").First().Text()))
		value := strings.TrimSpace(block.Find("div.pi-data-value").First().Text())
		if label == "" || value == "" {
			return
		}
		switch {
		case strings.Contains(label, "slot"):
			overview.Slot = value
		case strings.Contains(label, "class"):
			overview.Classes = value
		case strings.Contains(label, "rating"):
			overview.Ratings = value
		case strings.Contains(label, "refill"):
			overview.NeededRefills = value
		case strings.Contains(label, "key"):
			overview.DefaultKey = value
		}
	})
	return overview
}

// engineerUpgradeList finds the ul following the Engineer Modifications
// heading and returns its anchor selection.
func engineerUpgradeList(doc *goquery.Document) *goquery.Selection {
	span := doc.Find("span#Engineer_Modifications").First()
	return span.Closest("h2").NextAllFiltered("ul").First().Find("li a")
}

func anchorTexts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, a *goquery.Selection) {
		if t := strings.TrimSpace(a.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}
