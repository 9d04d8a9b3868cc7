// Package chunker walks a document's heading and paragraph structure and
// emits content chunks tagged with entity identity and section type.
package chunker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"astromind/internal/domain"
	"astromind/internal/extract"
)

// Profile parameterizes the section chunker for one entity kind.
type Profile struct {
	EntityType string
	// EntityName resolves the entity name from the parsed document.
	EntityName func(*goquery.Document) string
	// Infobox, when set, produces structured side-panel metadata that is
	// attached to the overview chunk after the linear pass.
	Infobox func(*goquery.Document) map[string]any
}

// ShipProfile chunks ship pages.
func ShipProfile() Profile {
	return Profile{
		EntityType: string(domain.KindShip),
		EntityName: extract.PageTitle,
		Infobox:    extract.ShipInfoboxMap,
	}
}

// WeaponProfile chunks weapon pages.
func WeaponProfile() Profile {
	return Profile{
		EntityType: string(domain.KindWeapon),
		EntityName: extract.PageTitle,
	}
}

// EquipmentProfile chunks equipment pages.
func EquipmentProfile() Profile {
	return Profile{
		EntityType: string(domain.KindEquipment),
		EntityName: extract.PageTitle,
		Infobox:    extract.EquipmentInfoboxMap,
	}
}

// EngineeringProfile chunks engineering upgrade pages.
func EngineeringProfile() Profile {
	return Profile{
		EntityType: string(domain.KindEngineering),
		EntityName: extract.EffectName,
	}
}

// ProfileFor returns the chunker profile for an entity kind.
func ProfileFor(kind domain.EntityKind) Profile {
	switch kind {
	case domain.KindWeapon:
		return WeaponProfile()
	case domain.KindEquipment:
		return EquipmentProfile()
	case domain.KindEngineering:
		return EngineeringProfile()
	default:
		return ShipProfile()
	}
}

// ExtractChunks makes one linear pass over the document's h2, h3 and p
// nodes in document order. An h2 opens a new chunk; an h3 appends to the
// open chunk's headers; a paragraph appends its text and source markup.
// Paragraphs before the first h2 are discarded.
func ExtractChunks(html string, p Profile) ([]domain.ContentChunk, error) {
	doc, err := extract.Parse(html)
	if err != nil {
		return nil, err
	}
	name := p.EntityName(doc)

	var chunks []domain.ContentChunk
	current := -1
	doc.Find("h2, h3, p").Each(func(_ int, sel *goquery.Selection) {
		switch goquery.NodeName(sel) {
		case "h2":
			heading := strings.TrimSpace(sel.Text())
			chunks = append(chunks, domain.ContentChunk{
				EntityType:  p.EntityType,
				EntityName:  name,
				SectionType: normalizeSection(heading),
				Headers:     []string{heading},
			})
			current = len(chunks) - 1
		case "h3":
			if current >= 0 {
				chunks[current].Headers = append(chunks[current].Headers, strings.TrimSpace(sel.Text()))
			}
		case "p":
			if current >= 0 {
				chunks[current].RawText += sel.Text() + "\n"
				if src, err := goquery.OuterHtml(sel); err == nil {
					chunks[current].Source += src
				}
			}
		}
	})

	if p.Infobox != nil {
		if infobox := p.Infobox(doc); infobox != nil {
			for i := range chunks {
				if chunks[i].SectionType == domain.SectionOverview {
					chunks[i].Infobox = infobox
				}
			}
		}
	}
	return chunks, nil
}

// normalizeSection classifies a heading into the closed section vocabulary
// by keyword substring.
func normalizeSection(heading string) string {
	lower := strings.ToLower(heading)
	switch {
	case strings.Contains(lower, "overview"):
		return domain.SectionOverview
	case strings.Contains(lower, "specif"):
		return domain.SectionSpecifications
	case strings.Contains(lower, "outfit"):
		return domain.SectionOutfitting
	default:
		return domain.SectionOther
	}
}
