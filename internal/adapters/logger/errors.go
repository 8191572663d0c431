package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// ErrorEntry is one level of an error chain as shown to the user.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries flattens an error chain. zerr errors contribute their
// own message and metadata, joined errors are expanded in order, and any other
// error ends its branch with its full text.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	for current := err; current != nil; {
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			for _, child := range joined.Unwrap() {
				entries = append(entries, collectErrorEntries(child)...)
			}
			break
		}

		var z *zerr.Error
		if ze, ok := current.(*zerr.Error); ok {
			z = ze
		}
		if z == nil {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
			break
		}

		metadata := z.Metadata()
		if pending != nil {
			maps.Copy(metadata, pending)
			pending = nil
		}

		// zerr.With on a foreign error adds an anonymous layer; its metadata
		// belongs to the next visible entry.
		if z.Message() == "" && z.Unwrap() != nil {
			pending = metadata
			current = z.Unwrap()
			continue
		}

		entries = append(entries, ErrorEntry{Message: z.Message(), Metadata: metadata})
		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders entries as "Error: ..." followed by a
// "Caused by:" list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		first, indent := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			first, indent = "    → ", "      "
		}

		lines = append(lines, first+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
