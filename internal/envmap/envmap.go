// Package envmap provides parsing, merging, and reconstruction of
// environment variable sets between the map form used for overlays and
// the KEY=VALUE list form consumed by os/exec.
package envmap

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for environment parsing.
var (
	// ErrInvalidEntry is returned when an entry is not in KEY=VALUE form.
	ErrInvalidEntry = errors.New("invalid environment entry")
)

// Parse converts KEY=VALUE strings into a map. Entries without '=' or
// with an empty key are rejected.
func Parse(entries []string) (map[string]string, error) {
	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q (want KEY=VALUE)", ErrInvalidEntry, entry)
		}
		result[key] = value
	}
	return result, nil
}

// FromList converts a KEY=VALUE list (e.g. os.Environ) into a map.
// Malformed entries are skipped; the inherited environment is not
// something we can reject.
func FromList(entries []string) map[string]string {
	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		result[key] = value
	}
	return result
}

// Overlay merges maps left to right, later maps taking precedence.
// The inputs are not modified.
func Overlay(maps ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}

// ToList reconstructs a map into a KEY=VALUE list sorted by key for
// deterministic ordering.
func ToList(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, k+"="+m[k])
	}
	return entries
}
