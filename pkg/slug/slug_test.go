// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwellapp/inkwell/pkg/slug"
)

/*
TestFrom verifies the normalization pipeline across input classes.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain_ascii", "janedoe", "janedoe"},
		{"spaces_to_hyphens", "Jane Doe", "jane-doe"},
		{"accents_folded", "Éléonore Dupré", "eleonore-dupre"},
		{"punctuation_stripped", "jane.doe+blog!", "jane-doe-blog"},
		{"hyphen_runs_collapsed", "jane---doe", "jane-doe"},
		{"leading_trailing_trimmed", "  jane doe  ", "jane-doe"},
		{"digits_kept", "user2026", "user2026"},
		{"mixed_case", "JaneDOE", "janedoe"},
		{"empty_input", "", ""},
		{"symbols_only", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestFrom_URLSafe asserts that every output rune is from the URL-safe slug
alphabet, no matter the input.
*/
func TestFrom_URLSafe(t *testing.T) {
	inputs := []string{
		"Jane Doe", "Ünïcødé Ûser", "漢字ユーザー", "a b\tc\nd",
		"--edge--case--", "MiXeD 123 CaSe!", "@@@", "ça va bien",
	}

	for _, input := range inputs {
		got := slug.From(input)
		for _, r := range got {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			assert.True(t, ok, "unexpected rune %q in slug %q (input %q)", r, got, input)
		}

		if got != "" {
			assert.NotEqual(t, byte('-'), got[0], "slug must not start with hyphen")
			assert.NotEqual(t, byte('-'), got[len(got)-1], "slug must not end with hyphen")
		}
	}
}
