// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package account

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/inkwellapp/inkwell/pkg/slug"
)

const (
	// collisionSuffixHexLen is the length of the random hex suffix appended
	// when the plain slug is taken.
	collisionSuffixHexLen = 8

	// fallbackSuffixHexLen is the longer suffix used once the retry budget
	// is exhausted. 64 bits of randomness makes a further collision
	// practically impossible.
	fallbackSuffixHexLen = 16

	// maxAllocationAttempts bounds the number of existence probes per
	// allocation, so a pathological collision run cannot loop forever.
	maxAllocationAttempts = 5
)

// SlugChecker answers slug existence queries for the allocator. The account
// [Repository] satisfies it; tests substitute in-memory implementations.
type SlugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Allocator produces unique URL slugs for new accounts.
//
// The candidate order is: the normalized base alone, then the ORIGINAL
// normalized base plus a fresh random suffix per attempt. Suffixes are never
// stacked on an already-suffixed candidate, so slugs stay one suffix long.
type Allocator struct {
	checker SlugChecker
}

// NewAllocator creates an allocator backed by the given existence checker.
func NewAllocator(checker SlugChecker) *Allocator {
	return &Allocator{checker: checker}
}

/*
Allocate derives a unique slug from the given display text.

The text is normalized via [slug.From]; when normalization produces an empty
string (e.g. the text was entirely non-Latin punctuation) the candidate is a
random suffix alone. Each taken candidate is retried with a fresh 8-hex-char
suffix up to the attempt bound; after that a 16-hex-char suffix is returned
without a further probe.

Parameters:
  - ctx: request context, passed through to the checker.
  - base: free-form display text, typically the username.

Returns:
  - string: a slug not present in storage at probe time.
  - error: only when the checker itself fails.
*/
func (a *Allocator) Allocate(ctx context.Context, base string) (string, error) {
	normalized := slug.From(base)

	candidate := normalized
	if candidate == "" {
		candidate = randomSuffix(collisionSuffixHexLen)
	}

	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		exists, err := a.checker.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("probing slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = joinSlug(normalized, randomSuffix(collisionSuffixHexLen))
	}

	// Retry budget spent. Do not probe again; hand back a candidate with
	// twice the entropy and let the unique constraint catch the remote
	// chance of a duplicate.
	return joinSlug(normalized, randomSuffix(fallbackSuffixHexLen)), nil
}

func joinSlug(base, suffix string) string {
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// randomSuffix returns n hex characters drawn from a fresh random 128-bit
// value.
func randomSuffix(n int) string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:n]
}
