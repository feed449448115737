package engine

import (
	"sort"
	"strconv"
)

// SelectAll is the option a UI offers to lift the restriction on a field.
const SelectAll = "Select All"

// Selections maps each field to the values a user picked. A missing or
// empty entry, or one containing SelectAll, leaves the field unrestricted.
type Selections map[Field][]string

// Active reports whether the field restricts rows and returns its values.
func (s Selections) Active(f Field) ([]string, bool) {
	values := s[f]
	if len(values) == 0 {
		return nil, false
	}
	for _, v := range values {
		if v == SelectAll {
			return nil, false
		}
	}
	return values, true
}

// Params renders the selections keyed by parameter name, for echoing back
// to clients.
func (s Selections) Params() map[string][]string {
	out := make(map[string][]string, len(s))
	for _, f := range Fields {
		if v, ok := s[f]; ok {
			out[f.Param()] = v
		}
	}
	return out
}

// Filter returns the rows of ds matching every active selection, in their
// original order. Values within a field are OR-combined, fields are
// AND-combined. Values outside a field's domain simply match nothing.
// The result never shares its row list with ds.
func Filter(ds *Dataset, sel Selections) *Dataset {
	type restriction struct {
		field Field
		keys  map[int32]struct{}
	}

	out := &Dataset{store: ds.store, applied: Selections{}}
	var restrictions []restriction
	for _, f := range Fields {
		values, ok := sel.Active(f)
		if !ok {
			continue
		}
		ordered := ds.naturalOrder(f, values)
		out.applied[f] = ordered

		keys := make(map[int32]struct{}, len(ordered))
		for _, v := range ordered {
			if k, ok := ds.store.keyOf(f, v); ok {
				keys[k] = struct{}{}
			}
		}
		restrictions = append(restrictions, restriction{field: f, keys: keys})
	}

	out.rows = make([]int32, 0, len(ds.rows))
	for _, r := range ds.rows {
		pass := true
		for _, rs := range restrictions {
			if _, ok := rs.keys[ds.store.key(rs.field, r)]; !ok {
				pass = false
				break
			}
		}
		if pass {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// naturalOrder deduplicates values and sorts them by first appearance in
// the view. Values not present in the view keep their relative input
// order after all known values.
func (d *Dataset) naturalOrder(f Field, values []string) []string {
	pos := make(map[string]int)
	for i, v := range d.Domain(f) {
		pos[v] = i
	}
	unknown := len(pos)

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = normalize(f, v)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	rank := func(v string) int {
		if p, ok := pos[v]; ok {
			return p
		}
		return unknown
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

// normalize canonicalizes year spellings such as "2006.0" to "2006".
func normalize(f Field, v string) string {
	if f != FieldYear {
		return v
	}
	if y, ok := parseYear(v); ok && y != MissingYear {
		return strconv.Itoa(int(y))
	}
	return v
}
