package loader

import "sort"

// Raw trees are Go maps, so document order is not preserved; emitting
// keys sorted keeps Dump deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
