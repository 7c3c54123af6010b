package repository

import "fmt"

// resolveOrder returns sibling ids in their new sequence. current must already
// be sorted by the existing order. The requested ids come first; siblings left
// out of the request keep their relative order and go after them.
func resolveOrder(current, requested []string) ([]string, error) {
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}

	seen := make(map[string]bool, len(requested))
	out := make([]string, 0, len(current))
	for _, id := range requested {
		if !known[id] {
			return nil, fmt.Errorf("%w: %q is not part of this list", ErrInvalidOrder, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %q listed twice", ErrInvalidOrder, id)
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, id := range current {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out, nil
}
