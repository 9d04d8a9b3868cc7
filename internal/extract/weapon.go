package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"astromind/internal/domain"
)

// WeaponRecord holds the specifications table and engineering options of
// one weapon page.
type WeaponRecord struct {
	Specifications []SpecRow          `json:"specifications"`
	Engineering    *WeaponEngineering `json:"engineering,omitempty"`
}

// WeaponEngineering lists the modifications and experimental effects a
// weapon accepts.
type WeaponEngineering struct {
	Modifications       []string `json:"modifications"`
	ExperimentalEffects []string `json:"experimental_effects"`
}

// Weapon extracts a weapon page into an entity record.
func Weapon(html string) (*EntityRecord, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	rec := &WeaponRecord{Specifications: specificationsTable(doc)}
	if doc.Find("h2 span#Engineering").Length() > 0 {
		rec.Engineering = &WeaponEngineering{
			Modifications:       anchorHeadingList(doc, "Modifications"),
			ExperimentalEffects: anchorHeadingList(doc, "Experimental_Effects"),
		}
	}
	return &EntityRecord{Kind: domain.KindWeapon, Name: PageTitle(doc), Weapon: rec}, nil
}

// anchorHeadingList returns the items of the ul following the h3 anchored
// by the given span id.
func anchorHeadingList(doc *goquery.Document, spanID string) []string {
	span := doc.Find("h3 span#" + spanID).First()
	if span.Length() == 0 {
		return nil
	}
	ul := span.Closest("h3").NextAllFiltered("ul").First()
	if ul.Length() == 0 {
		return nil
	}
	var items []string
	ul.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if t := strings.TrimSpace(li.Text()); t != "" {
			items = append(items, t)
		}
	})
	return items
}
