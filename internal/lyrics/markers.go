// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lyrics

import (
	"regexp"
	"strings"
)

// markerPattern matches one bracketed section marker such as [Verse 1] or
// [Chorus]. Nested brackets are not markers.
var markerPattern = regexp.MustCompile(`\[[^\[\]]*\]`)

// StripMarkers removes every bracketed marker from s and collapses runs of
// whitespace to a single space.
func StripMarkers(s string) string {
	return collapse(markerPattern.ReplaceAllString(s, " "))
}

// Preserves reports whether structured carries exactly the content of raw,
// ignoring section markers and whitespace layout.
func Preserves(raw, structured string) bool {
	return StripMarkers(structured) == collapse(raw)
}

// Markers returns the section markers in structured, in order.
func Markers(structured string) []string {
	return markerPattern.FindAllString(structured, -1)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
