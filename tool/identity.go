package tool

// Canonical15Length is the number of leading characters of a platform record
// id that are case-sensitive-unique. The 18-char long form of the same record
// differs only in its case-insensitive suffix, so all identity comparison in
// this module goes through Canonical.
const Canonical15Length = 15

// Canonical returns the 15-char canonical form of a record id, or "" for
// empty input. Pure and total.
func Canonical(id string) string {
	if len(id) <= Canonical15Length {
		return id
	}
	return id[:Canonical15Length]
}

// ContainsCanonical reports whether the canonical form of id appears in ids,
// comparing every element in canonical form.
func ContainsCanonical(ids []string, id string) bool {
	want := Canonical(id)
	if want == "" {
		return false
	}
	for _, candidate := range ids {
		if Canonical(candidate) == want {
			return true
		}
	}
	return false
}
