package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astromind/internal/domain"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "damage_type", normalizeHeader("Damage (Type)"))
	assert.Equal(t, "top_speed", normalizeHeader("  Top Speed  "))
	assert.Equal(t, "cost", normalizeHeader("Cost"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "python-mk-ii", NormalizeName("Python Mk II"))
	assert.Equal(t, "beam-laser", NormalizeName("Beam  Laser!"))
}

func TestPageTitleMissing(t *testing.T) {
	doc, err := Parse(`<html><body><p>no heading</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, NotDefined, PageTitle(doc))
}

func TestShipAbsentFieldsResolveToSentinel(t *testing.T) {
	page := `<html><body>
<h1 id="firstHeading"><span>Adder</span></h1>
<aside>
 <div data-source="cost"><div class="pi-data-value">87,810 CR</div></div>
 <h3 class="pi-data-label">Top Speed</h3>
 <div class="pi-data-value">220 m/s</div>
</aside>
<div class="mw-parser-output"><p>A small freighter.</p></div>
</body></html>`
	rec, err := Ship(page)
	require.NoError(t, err)
	require.NotNil(t, rec.Ship)

	assert.Equal(t, domain.KindShip, rec.Kind)
	assert.Equal(t, "Adder", rec.Name)
	assert.Equal(t, "A small freighter.", rec.Ship.OverviewText)

	box := rec.Ship.Infobox
	require.NotNil(t, box)
	assert.Equal(t, "87,810 CR", box.Overview.Cost)
	assert.Equal(t, "220 m/s", box.Specifications.TopSpeed)
	// Fields without a label or value carry the sentinel.
	assert.Equal(t, NotDefined, box.Overview.Manufacturer)
	assert.Equal(t, NotDefined, box.Specifications.CargoCapacity)
	// Hangar type has no wiki source but is still part of the record.
	assert.Equal(t, NotDefined, box.Specifications.HangarType)
	// No Outfitting section anywhere, so the gated records stay nil.
	assert.Nil(t, box.Outfitting)
	assert.Nil(t, rec.Ship.Outfitting)
}

func TestShipMultiValuedLabelJoined(t *testing.T) {
	page := `<html><body>
<h1 id="firstHeading"><span>Keelback</span></h1>
<aside>
 <h3 class="pi-data-label">Top Speed</h3>
 <div class="pi-data-value">200 m/s</div>
 <div class="pi-data-value">260 m/s (boost)</div>
</aside>
</body></html>`
	rec, err := Ship(page)
	require.NoError(t, err)
	assert.Equal(t, "200 m/s\n260 m/s (boost)", rec.Ship.Infobox.Specifications.TopSpeed)
}

func TestWeaponSpecificationsDropsMalformedRows(t *testing.T) {
	page := `<html><body>
<h1 id="firstHeading"><span>Beam Laser</span></h1>
<h2><span id="Specifications">Specifications</span></h2>
<table>
 <tr><th>Class</th><th>Damage (Type)</th><th>Cost</th></tr>
 <tr><td>1</td><td>Thermal</td><td>37,430 CR</td></tr>
 <tr><td>2</td><td>Thermal</td></tr>
 <tr><td>3</td><td>Thermal</td><td>500,600 CR</td></tr>
</table>
</body></html>`
	rec, err := Weapon(page)
	require.NoError(t, err)
	require.NotNil(t, rec.Weapon)

	rows := rec.Weapon.Specifications
	require.Len(t, rows, 2)
	assert.Equal(t, SpecField{Key: "class", Value: "1"}, rows[0][0])
	assert.Equal(t, SpecField{Key: "damage_type", Value: "Thermal"}, rows[0][1])
	assert.Equal(t, SpecField{Key: "cost", Value: "500,600 CR"}, rows[1][2])
}

func TestWeaponEngineeringGated(t *testing.T) {
	plain := `<html><body><h1 id="firstHeading"><span>Cannon</span></h1></body></html>`
	rec, err := Weapon(plain)
	require.NoError(t, err)
	assert.Nil(t, rec.Weapon.Engineering)

	engineered := `<html><body>
<h1 id="firstHeading"><span>Cannon</span></h1>
<h2><span id="Engineering">Engineering</span></h2>
<h3><span id="Modifications">Modifications</span></h3>
<ul><li>Overcharged</li><li>Sturdy</li></ul>
<h3><span id="Experimental_Effects">Experimental Effects</span></h3>
<ul><li>Thermal Cascade</li></ul>
</body></html>`
	rec, err = Weapon(engineered)
	require.NoError(t, err)
	require.NotNil(t, rec.Weapon.Engineering)
	assert.Equal(t, []string{"Overcharged", "Sturdy"}, rec.Weapon.Engineering.Modifications)
	assert.Equal(t, []string{"Thermal Cascade"}, rec.Weapon.Engineering.ExperimentalEffects)
}

func TestEquipmentOverviewAndTitleOverride(t *testing.T) {
	page := `<html><body>
<h1 id="firstHeading"><span>Heatsink</span></h1>
<aside class="portable-infobox">
 <h2 class="pi-title">Heat Sink Launcher</h2>
 <figure class="pi-image"><img src="/images/hsl.png"></figure>
 <div class="pi-data"><h3>Slot</h3><div class="pi-data-value">Utility Mount</div></div>
 <div class="pi-data"><h3>Classes</h3><div class="pi-data-value">1</div></div>
</aside>
</body></html>`
	rec, err := Equipment(page)
	require.NoError(t, err)
	assert.Equal(t, "Heat Sink Launcher", rec.Name)

	overview := rec.Equipment.Overview
	require.NotNil(t, overview)
	assert.Equal(t, "/images/hsl.png", overview.ImageURL)
	assert.Equal(t, "Utility Mount", overview.Slot)
	assert.Equal(t, "1", overview.Classes)
	assert.Equal(t, NotDefined, overview.Ratings)
	assert.Equal(t, NotDefined, overview.DefaultKey)
}

func TestEquipmentWithoutInfoboxOrEngineering(t *testing.T) {
	rec, err := Equipment(`<html><body><h1 id="firstHeading"><span>Limpet</span></h1></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Limpet", rec.Name)
	assert.Nil(t, rec.Equipment.Overview)
	assert.Nil(t, rec.Equipment.Engineering)
}

func TestEngineeringGradesAndAvailability(t *testing.T) {
	page := `<html><body>
<h1 class="page-header__title"><span class="mw-page-title-main">Dirty Drive Tuning</span></h1>
<h2><span id="Availability">Availability</span></h2>
<ul>
 <li><a>Professor Palin</a> grade 5</li>
 <li><a>Felicity Farseer</a> grade 1</li>
</ul>
<h2><span id="Grade_1">Grade 1</span></h2>
<table><tbody>
 <tr><td>Optimal Multiplier</td><td>+4%</td></tr>
 <tr><td>Thermal Load</td><td>+10%</td></tr>
</tbody></table>
</body></html>`
	rec, err := Engineering(page)
	require.NoError(t, err)
	assert.Equal(t, "Dirty Drive Tuning", rec.Name)

	eng := rec.Engineering
	require.NotNil(t, eng)
	assert.Equal(t, []string{"Professor Palin", "Felicity Farseer"}, eng.Availability)

	require.NotEmpty(t, eng.Grades)
	assert.Equal(t, 1, eng.Grades[0].Grade)
	assert.Contains(t, eng.Grades[0].Effects, "Optimal Multiplier,+4%")
	assert.Contains(t, eng.Grades[0].Effects, "Thermal Load,+10%")
}
