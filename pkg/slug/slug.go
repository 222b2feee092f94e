// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are the public handle for reader profiles (e.g., "jane-doe"). This
// package handles normalization, accent removal, and character sanitization;
// uniqueness against the account collection is the caller's concern.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// multiHyphen collapses runs of consecutive hyphens into one.
var multiHyphen = regexp.MustCompile(`-{2,}`)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Strips combining marks (accents).
// 3. Converts to lowercase.
// 4. Replaces every remaining non-alphanumeric rune with a hyphen.
// 5. Collapses hyphen runs and trims leading/trailing hyphens.
//
// The result may be empty when the input carries no ASCII-representable
// letters or digits; callers must handle that case.
func From(s string) string {
	// Decompose and drop non-spacing marks.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, _ := transform.String(t, s)

	folded = strings.ToLower(folded)

	// Anything outside [a-z0-9] becomes a hyphen. Non-ASCII letters that
	// survived decomposition (e.g., CJK) are replaced too: slugs are ASCII.
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}

	out := multiHyphen.ReplaceAllString(b.String(), "-")
	return strings.Trim(out, "-")
}
