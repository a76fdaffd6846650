// Package ordered provides deterministic traversal of maps whose
// natural range order is randomized by the runtime: element-type and
// attribute tables keyed by qname.Key, and the various string-keyed
// entity and notation tables.
package ordered

import (
	"sort"

	"aqwari.net/dtd/qname"
)

// StringKeys returns m's keys, sorted.
func StringKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RangeStrings calls fn for every entry of m, in ascending key order.
func RangeStrings[V any](m map[string]V, fn func(string, V)) {
	for _, k := range StringKeys(m) {
		fn(k, m[k])
	}
}

// Keys returns m's keys, sorted by (URI, Local).
func Keys[V any](m map[qname.Key]V) []qname.Key {
	keys := make([]qname.Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].URI != keys[j].URI {
			return keys[i].URI < keys[j].URI
		}
		return keys[i].Local < keys[j].Local
	})
	return keys
}

// Range calls fn for every entry of m, in the order Keys returns.
func Range[V any](m map[qname.Key]V, fn func(qname.Key, V)) {
	for _, k := range Keys(m) {
		fn(k, m[k])
	}
}
