// Package output derives BED and GTF/GFF rows from canonical features.
package output

// Options controls how extras and attributes are emitted.
type Options struct {
	// IncludeNumericExtras emits extras whose keys parse as unsigned
	// integers as bare positional values, ascending.
	IncludeNumericExtras bool
	// IncludeNonNumericExtras emits remaining extras as key=value pairs,
	// sorted lexicographically.
	IncludeNonNumericExtras bool
	// Allowlist restricts emission to the listed keys. Nil allows all.
	Allowlist []string
}

// DefaultOptions emits numeric extras only, with no allow-list.
func DefaultOptions() Options {
	return Options{IncludeNumericExtras: true}
}

// allowed reports whether a key passes the allow-list.
func (o Options) allowed(key string) bool {
	if o.Allowlist == nil {
		return true
	}
	for _, k := range o.Allowlist {
		if k == key {
			return true
		}
	}
	return false
}
