package domain

import "strings"

// NormalizeTags maps free-text tag strings into a canonical, deduplicated set:
// whitespace-trimmed, lower-cased, first-occurrence order preserved,
// empty entries dropped. Pure function, never consults storage.
func NormalizeTags(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))

	for _, t := range raw {
		name := strings.ToLower(strings.TrimSpace(t))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
