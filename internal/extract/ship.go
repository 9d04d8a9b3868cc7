package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"astromind/internal/domain"
)

// ShipRecord holds everything extracted from one ship page.
type ShipRecord struct {
	OverviewText string           `json:"overview_text"`
	Infobox      *ShipInfobox     `json:"infobox,omitempty"`
	Outfitting   *ShipOutfitting  `json:"outfitting,omitempty"`
}

// ShipInfobox mirrors the portable-infobox side panel. Outfitting and
// Hardpoints appear only when the infobox carries those sections.
type ShipInfobox struct {
	Overview       ShipInfoboxOverview        `json:"overview"`
	Specifications ShipInfoboxSpecifications  `json:"specifications"`
	Outfitting     *ShipInfoboxOutfitting     `json:"outfitting,omitempty"`
	Hardpoints     *ShipInfoboxHardpoints     `json:"hardpoints,omitempty"`
}

type ShipInfoboxOverview struct {
	Manufacturer  string `json:"manufacturer"`
	YearsProduced string `json:"years_produced"`
	ShipType      string `json:"ship_type"`
	Cost          string `json:"cost"`
	Insurance     string `json:"insurance"`
	Expansion     string `json:"expansion"`
}

type ShipInfoboxSpecifications struct {
	// HangarType has no infobox source on the wiki; it stays at the
	// sentinel but is always present in the record.
	HangarType       string `json:"hangar_type"`
	LandingPadSize   string `json:"landing_pad_size"`
	Dimensions       string `json:"dimensions"`
	PilotSeats       string `json:"pilot_seats"`
	Multicrew        string `json:"multicrew"`
	FighterHangar    string `json:"fighter_hangar"`
	HullMass         string `json:"hull_mass"`
	MassLockFactor   string `json:"mass_lock_factor"`
	Armour           string `json:"armour"`
	ArmourHardness   string `json:"armour_hardness"`
	Shields          string `json:"shields"`
	HeatCapacity     string `json:"heat_capacity"`
	FuelCapacity     string `json:"fuel_capacity"`
	Manoeuvrability  string `json:"manoeuvrability"`
	TopSpeed         string `json:"top_speed"`
	BoostSpeed       string `json:"boost_speed"`
	UnladenJumpRange string `json:"unladen_jump_range"`
	CargoCapacity    string `json:"cargo_capacity"`
}

type ShipInfoboxOutfitting struct {
	Hardpoints           string `json:"hardpoints"`
	InternalCompartments string `json:"internal_compartments"`
	ReservedCompartments string `json:"reserved_compartments"`
}

type ShipInfoboxHardpoints struct {
	UtilityMount string `json:"utility_mount"`
	WeaponMounts string `json:"weapon_mounts"`
}

// OutfittingModule is one row of a ship outfitting table.
type OutfittingModule struct {
	DefaultSystem string `json:"default_system"`
	DefaultRating string `json:"default_rating"`
	DefaultClass  string `json:"default_class"`
	MaxClass      string `json:"max_class"`
}

// ShipOutfitting lists the ship's hardpoint and compartment loadout.
type ShipOutfitting struct {
	SmallHardpoint          []OutfittingModule `json:"small_hardpoint,omitempty"`
	MediumHardpoint         []OutfittingModule `json:"medium_hardpoint,omitempty"`
	LargeHardpoint          []OutfittingModule `json:"large_hardpoint,omitempty"`
	UtilityMount            []OutfittingModule `json:"utility_mount,omitempty"`
	Bulkhead                *OutfittingModule  `json:"bulkhead,omitempty"`
	ReactorBay              *OutfittingModule  `json:"reactor_bay,omitempty"`
	ThrustersMounting       *OutfittingModule  `json:"thrusters_mounting,omitempty"`
	FrameShiftDriveHousing  *OutfittingModule  `json:"frame_shift_drive_housing,omitempty"`
	EnvironmentControl      *OutfittingModule  `json:"environment_control,omitempty"`
	PowerCoupling           *OutfittingModule  `json:"power_coupling,omitempty"`
	SensorSuite             *OutfittingModule  `json:"sensor_suite,omitempty"`
	FuelStore               *OutfittingModule  `json:"fuel_store,omitempty"`
	InternalCompartments    []OutfittingModule `json:"internal_compartments,omitempty"`
}

// Ship extracts a ship page into an entity record.
func Ship(html string) (*EntityRecord, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	rec := &ShipRecord{
		OverviewText: shipOverviewText(doc),
		Infobox:      shipInfobox(doc),
	}
	if hasSection(doc, "Outfitting") {
		rec.Outfitting = shipOutfitting(doc)
	}
	return &EntityRecord{Kind: domain.KindShip, Name: PageTitle(doc), Ship: rec}, nil
}

func shipOverviewText(doc *goquery.Document) string {
	text := ""
	doc.Find("div.mw-parser-output > p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if t := strings.TrimSpace(p.Text()); t != "" {
			text = t
			return false
		}
		return true
	})
	return text
}

func shipInfobox(doc *goquery.Document) *ShipInfobox {
	box := &ShipInfobox{
		Overview: ShipInfoboxOverview{
			Manufacturer:  asideValue(doc, "manufacturer"),
			YearsProduced: asideValue(doc, "yearsproduced"),
			ShipType:      asideValue(doc, "type"),
			Cost:          asideValue(doc, "cost"),
			Insurance:     asideValue(doc, "insurance"),
			Expansion:     asideValue(doc, "expansion"),
		},
		Specifications: ShipInfoboxSpecifications{
			HangarType:       NotDefined,
			LandingPadSize:   asideValue(doc, "landingpad"),
			Dimensions:       asideValue(doc, "dimensions"),
			PilotSeats:       asideValue(doc, "seats"),
			Multicrew:        asideValue(doc, "multicrew"),
			FighterHangar:    asideValue(doc, "fighterhangar"),
			HullMass:         asideValue(doc, "hullmass"),
			MassLockFactor:   asideValue(doc, "masslock"),
			Armour:           asideValue(doc, "armour"),
			ArmourHardness:   asideValue(doc, "armourhardness"),
			Shields:          asideValue(doc, "shields"),
			HeatCapacity:     asideValue(doc, "heatcapacity"),
			FuelCapacity:     asideValue(doc, "fuelcapacity"),
			Manoeuvrability:  asideValue(doc, "manoeuvrability"),
			TopSpeed:         valueForLabel(doc, "Top Speed"),
			BoostSpeed:       valueForLabel(doc, "Boost Speed"),
			UnladenJumpRange: valueForLabel(doc, "Unladen Jump Range"),
			CargoCapacity:    valueForLabel(doc, "Cargo Capacity"),
		},
	}
	if hasAsideSection(doc, "Outfitting") {
		box.Outfitting = &ShipInfoboxOutfitting{
			Hardpoints:           valueForLabel(doc, "Hardpoints"),
			InternalCompartments: valueForLabel(doc, "Internal Compartments"),
			ReservedCompartments: valueForLabel(doc, "Reserved Compartments"),
		}
	}
	if hasAsideSection(doc, "Hardpoints") {
		box.Hardpoints = &ShipInfoboxHardpoints{
			UtilityMount: valueForLabel(doc, "Utility Mount"),
			WeaponMounts: valueForLabel(doc, "Weapon Mounts"),
		}
	}
	return box
}

// ShipInfoboxMap renders the ship infobox as generic metadata. The chunker
// attaches it to the overview chunk after its linear pass.
func ShipInfoboxMap(doc *goquery.Document) map[string]any {
	box := shipInfobox(doc)
	m := map[string]any{
		"overview":       box.Overview,
		"specifications": box.Specifications,
	}
	if box.Outfitting != nil {
		m["outfitting"] = *box.Outfitting
	}
	if box.Hardpoints != nil {
		m["hardpoints"] = *box.Hardpoints
	}
	return m
}

func shipOutfitting(doc *goquery.Document) *ShipOutfitting {
	return &ShipOutfitting{
		SmallHardpoint:         outfittingList(doc, "Small Hardpoint"),
		MediumHardpoint:        outfittingList(doc, "Medium Hardpoint"),
		LargeHardpoint:         outfittingList(doc, "Large Hardpoint"),
		UtilityMount:           outfittingList(doc, "Utility Mount"),
		Bulkhead:               outfittingSingle(doc, "Bulkhead"),
		ReactorBay:             outfittingSingle(doc, "Reactor Bay"),
		ThrustersMounting:      outfittingSingle(doc, "Thrusters Mounting"),
		FrameShiftDriveHousing: outfittingSingle(doc, "Frame Shift Drive Housing"),
		EnvironmentControl:     outfittingSingle(doc, "Environment Control"),
		PowerCoupling:          outfittingSingle(doc, "Power Coupling"),
		SensorSuite:            outfittingSingle(doc, "Sensor Suite"),
		FuelStore:              outfittingSingle(doc, "Fuel Store"),
		InternalCompartments:   outfittingList(doc, "Internal Compartments"),
	}
}

// outfittingList extracts the module table following an h3 whose span text
// contains sectionTitle. The table must immediately follow the heading.
func outfittingList(doc *goquery.Document, sectionTitle string) []OutfittingModule {
	var modules []OutfittingModule
	doc.Find("h3 span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if !strings.Contains(span.Text(), sectionTitle) {
			return true
		}
		table := span.Closest("h3").Next()
		if !table.Is("table") {
			return false
		}
		table.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if i == 0 {
				return // header row
			}
			modules = append(modules, outfittingModule(tr))
		})
		return false
	})
	return modules
}

// outfittingSingle extracts the table row whose cell text contains label.
func outfittingSingle(doc *goquery.Document, label string) *OutfittingModule {
	var module *OutfittingModule
	doc.Find("table tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		match := false
		tr.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
			if strings.Contains(td.Text(), label) {
				match = true
				return false
			}
			return true
		})
		if !match {
			return true
		}
		m := outfittingModule(tr)
		module = &m
		return false
	})
	return module
}

// outfittingModule maps a row's cell texts to a module. Six-column rows
// carry a two-part system name that is re-joined.
func outfittingModule(tr *goquery.Selection) OutfittingModule {
	var cells []string
	tr.Find("td").Each(func(_ int, td *goquery.Selection) {
		if t := strings.TrimSpace(td.Text()); t != "" {
			cells = append(cells, t)
		}
	})
	at := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return NotDefined
	}
	if len(cells) <= 5 {
		return OutfittingModule{
			DefaultSystem: at(1),
			DefaultRating: at(2),
			DefaultClass:  at(3),
			MaxClass:      at(4),
		}
	}
	return OutfittingModule{
		DefaultSystem: at(1) + " " + at(2),
		DefaultRating: at(3),
		DefaultClass:  at(4),
		MaxClass:      at(5),
	}
}
