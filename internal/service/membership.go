package service

import "slices"

func contains(ids []string, id string) bool {
	return slices.Contains(ids, id)
}

// without returns a copy of ids with every occurrence of id removed.
func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// withID appends id unless it is already present.
func withID(ids []string, id string) []string {
	if contains(ids, id) {
		return ids
	}
	return append(slices.Clone(ids), id)
}

// dedupe keeps the first occurrence of every id and drops empty ids.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != "" && !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
