package tag

import "strings"

// diffTags splits a tag-set edit into additions and removals by
// case-insensitive name comparison. toAdd keeps the submitted casing,
// toRemove keeps the stored casing. Order follows the input slices;
// duplicates within desired collapse to one entry.
func diffTags(current, desired []string) (toAdd, toRemove []string) {
	currentSet := make(map[string]struct{}, len(current))
	for _, name := range current {
		currentSet[strings.ToLower(name)] = struct{}{}
	}

	desiredSet := make(map[string]struct{}, len(desired))
	for _, name := range desired {
		key := strings.ToLower(name)
		if _, dup := desiredSet[key]; dup {
			continue
		}
		desiredSet[key] = struct{}{}
		if _, ok := currentSet[key]; !ok {
			toAdd = append(toAdd, name)
		}
	}

	for _, name := range current {
		if _, ok := desiredSet[strings.ToLower(name)]; !ok {
			toRemove = append(toRemove, name)
		}
	}
	return toAdd, toRemove
}

// normalizeNames trims whitespace, drops empties and collapses names that
// differ only by case, keeping order and the first casing seen. Duplicates in
// one submission must never count as two references.
func normalizeNames(names []string) []string {
	out := names[:0:0]
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
