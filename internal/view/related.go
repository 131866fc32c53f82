package view

// Related returns the items that share at least one tag with subject, in
// their original order, capped at limit (limit <= 0 means no cap).
//
// The subject itself is skipped wherever it appears in items; identity is
// decided by key, not by position.
func Related[T any, K comparable](items []T, subject T, key func(T) K, tags func(T) []string, limit int) []T {
	want := make(map[string]struct{})
	for _, tag := range tags(subject) {
		want[tag] = struct{}{}
	}
	if len(want) == 0 {
		return nil
	}

	self := key(subject)
	var out []T
	for _, item := range items {
		if key(item) == self {
			continue
		}
		if !sharesTag(tags(item), want) {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func sharesTag(tags []string, want map[string]struct{}) bool {
	for _, tag := range tags {
		if _, ok := want[tag]; ok {
			return true
		}
	}
	return false
}
