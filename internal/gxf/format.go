// Package gxf parses GTF and GFF annotation rows and aggregates them into
// canonical features, one per grouping-attribute value.
package gxf

// Format describes the parsing conventions of a GXF-like annotation format.
type Format struct {
	// Name is the human readable format name, used in error messages.
	Name string
	// AttrSeparator separates keys from values in the attribute column.
	AttrSeparator byte
	// GroupAttribute is the default attribute used to fold related rows
	// into one transcript.
	GroupAttribute string
}

// GTF uses space-separated, quoted attribute values grouped by transcript_id.
var GTF = Format{Name: "GTF", AttrSeparator: ' ', GroupAttribute: "transcript_id"}

// GFF uses '='-separated attribute values grouped by ID.
var GFF = Format{Name: "GFF", AttrSeparator: '=', GroupAttribute: "ID"}
