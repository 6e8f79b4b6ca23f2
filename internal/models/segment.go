package models

import "fmt"

// Segment identifies which record type a query targets
type Segment string

const (
	SegmentInstances Segment = "instances"
	SegmentHoldings  Segment = "holdings"
	SegmentItems     Segment = "items"
)

// Segments lists the segments in display order
var Segments = []Segment{SegmentInstances, SegmentHoldings, SegmentItems}

// ParseSegment validates a segment name
func ParseSegment(name string) (Segment, error) {
	for _, s := range Segments {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown segment %q (expected instances, holdings or items)", name)
}

// Next returns the segment after s, wrapping around
func (s Segment) Next() Segment {
	for i, seg := range Segments {
		if seg == s {
			return Segments[(i+1)%len(Segments)]
		}
	}
	return SegmentInstances
}

// Title returns the display name of the segment
func (s Segment) Title() string {
	switch s {
	case SegmentInstances:
		return "Instances"
	case SegmentHoldings:
		return "Holdings"
	case SegmentItems:
		return "Items"
	default:
		return string(s)
	}
}

// DefaultOperators returns the single equality operator the catalog supports
func DefaultOperators() []Option {
	return []Option{Operator("=", "")}
}

// DefaultBooleanOperators returns AND and OR
func DefaultBooleanOperators() []Option {
	return []Option{BooleanOperator("AND"), BooleanOperator("OR")}
}

// DefaultVocabulary returns the built-in index vocabulary of a segment
func DefaultVocabulary(s Segment) Vocabulary {
	var options []Option
	switch s {
	case SegmentHoldings:
		options = []Option{
			SearchOption("Keyword", KeywordValue, "keyword all"),
			SearchOption("ISSN", "ISSN", "issn=="),
			SearchOption("ISBN", "ISBN", "isbn=="),
			SearchOption("Call number", "Call Number", "holdingsCallNumber="),
			SearchOption("Holdings HRID", "HRID", "holdingsRecords.hrid=="),
		}
	case SegmentItems:
		options = []Option{
			SearchOption("Keyword", KeywordValue, "keyword all"),
			SearchOption("Barcode", "Barcode", "item.barcode=="),
			SearchOption("ISSN", "ISSN", "issn=="),
			SearchOption("ISBN", "ISBN", "isbn=="),
			SearchOption("Call number", "Call Number", "itemsCallNumber="),
			SearchOption("Item HRID", "Item HRID", "item.hrid=="),
		}
	default:
		options = []Option{
			SearchOption("Keyword", KeywordValue, "keyword all"),
			SearchOption("Title", "Title", "title all"),
			SearchOption("Contributor", "Contributor", "contributors="),
			SearchOption("Identifier (all)", "Identifier", "identifiers.value=="),
			SearchOption("ISSN", "ISSN", "issn=="),
			SearchOption("ISBN", "ISBN", "isbn=="),
			SearchOption("Subject", "Subject", "subjects all"),
			SearchOption("Instance UUID", "UUID", "id=="),
			SearchOption("Instance HRID", "HRID", "hrid=="),
		}
	}
	return Vocabulary{
		SearchOptions:    options,
		Operators:        DefaultOperators(),
		BooleanOperators: DefaultBooleanOperators(),
	}
}

// ItemStatuses are the item status names offered by the item status facet
var ItemStatuses = []string{
	"Aged to lost",
	"Available",
	"Awaiting pickup",
	"Awaiting delivery",
	"Checked out",
	"Claimed returned",
	"Declared lost",
	"In process",
	"In process (non-requestable)",
	"In transit",
	"Intellectual item",
	"Long missing",
	"Lost and paid",
	"Missing",
	"On order",
	"Paged",
	"Restricted",
	"Order closed",
	"Unavailable",
	"Unknown",
	"Withdrawn",
}

// DefaultFacets returns the built-in facet filters of a segment
func DefaultFacets(s Segment) []Facet {
	switch s {
	case SegmentHoldings:
		return []Facet{
			{Name: "effectiveLocation", CQL: "item.effectiveLocationId", Kind: FacetValues},
			{Name: "holdingsPermanentLocation", CQL: "holdingsRecords.permanentLocationId", Kind: FacetValues},
			{Name: "discoverySuppress", CQL: "holdingsRecords.discoverySuppress", Kind: FacetBoolean},
			{Name: "tags", CQL: "holdingsRecords.tags.tagList", Operator: "=", Kind: FacetValues},
		}
	case SegmentItems:
		return []Facet{
			{Name: "materialType", CQL: "item.materialTypeId", Kind: FacetValues},
			{Name: "itemStatus", CQL: "item.status.name", Operator: "==", Kind: FacetValues, Values: ItemStatuses},
			{Name: "effectiveLocation", CQL: "item.effectiveLocationId", Kind: FacetValues},
			{Name: "holdingsPermanentLocation", CQL: "holdingsRecords.permanentLocationId", Kind: FacetValues},
			{Name: "discoverySuppress", CQL: "item.discoverySuppress", Kind: FacetBoolean},
			{Name: "tags", CQL: "item.tags.tagList", Operator: "=", Kind: FacetValues},
		}
	default:
		return []Facet{
			{Name: "effectiveLocation", CQL: "item.effectiveLocationId", Kind: FacetValues},
			{Name: "language", CQL: "languages", Operator: "=", Kind: FacetValues},
			{Name: "format", CQL: "instanceFormatIds", Kind: FacetValues},
			{Name: "resource", CQL: "instanceTypeId", Kind: FacetValues},
			{Name: "mode", CQL: "modeOfIssuanceId", Kind: FacetValues},
			{Name: "natureOfContent", CQL: "natureOfContentTermIds", Kind: FacetValues},
			{Name: "location", CQL: "holdingsRecords.permanentLocationId", Kind: FacetValues},
			{Name: "staffSuppress", CQL: "staffSuppress", Kind: FacetBoolean},
			{Name: "discoverySuppress", CQL: "discoverySuppress", Kind: FacetBoolean},
			{Name: "createdDate", CQL: "metadata.createdDate", Kind: FacetDateRange},
			{Name: "updatedDate", CQL: "metadata.updatedDate", Kind: FacetDateRange},
			{Name: "source", CQL: "source", Operator: "==", Kind: FacetValues, Values: []string{"FOLIO", "MARC"}},
			{Name: "tags", CQL: "tags.tagList", Operator: "=", Kind: FacetValues},
		}
	}
}
