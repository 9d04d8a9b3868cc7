package domain

// EntityKind identifies which kind of game entity a document describes.
type EntityKind string

const (
	KindShip        EntityKind = "ship"
	KindWeapon      EntityKind = "weapon"
	KindEquipment   EntityKind = "equipment"
	KindEngineering EntityKind = "engineering"
)

// Section types a chunk can be classified into.
const (
	SectionOverview       = "overview"
	SectionSpecifications = "specifications"
	SectionOutfitting     = "outfitting"
	SectionOther          = "other"
)

// ContentChunk is a bounded unit of extracted prose tagged with entity and
// section identity. It is the unit of embedding and retrieval.
type ContentChunk struct {
	EntityType  string
	EntityName  string
	SectionType string
	// Headers holds the accumulated heading text above and within the
	// chunk, most-specific last.
	Headers []string
	RawText string
	// Source retains the original paragraph markup for provenance.
	Source string
	// Infobox carries the structured side-panel data; set only on the
	// overview chunk of an entity.
	Infobox map[string]any
}

// SearchResult is a matching chunk reconstructed from a stored payload,
// with its similarity score.
type SearchResult struct {
	Chunk ContentChunk
	Score float32
}
