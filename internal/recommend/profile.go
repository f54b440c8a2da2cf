// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package recommend

import (
	"sort"
	"strings"
	"unicode"
)

// Tokenize normalizes free text into unique lowercase terms.
// Characters outside [a-z0-9] and whitespace are stripped before
// splitting; duplicates collapse, keeping first occurrence order.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	seen := make(map[string]struct{}, len(fields))
	tokens := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// EpisodeTerms returns the unique terms describing an episode: its tags
// (lowercased) followed by title and description tokens. Order is
// deterministic so profile accumulation stays stable across calls.
func EpisodeTerms(ep Episode) []string {
	seen := make(map[string]struct{}, len(ep.Tags)+8)
	var terms []string
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}
	for _, tag := range ep.Tags {
		add(strings.ToLower(strings.TrimSpace(tag)))
	}
	for _, tok := range Tokenize(ep.Title) {
		add(tok)
	}
	for _, tok := range Tokenize(ep.Description) {
		add(tok)
	}
	return terms
}

// TermSet converts a term slice into a set for similarity computation.
func TermSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

// Profile is a user's term-frequency listening profile. Term weights
// count how many played episodes contained the term; insertion order is
// preserved to break weight ties deterministically.
type Profile struct {
	weights map[string]int
	order   []string
}

// NewProfile returns an empty profile.
func NewProfile() *Profile {
	return &Profile{weights: make(map[string]int)}
}

// Add increments the weight of a term, registering first occurrence order.
func (p *Profile) Add(term string) {
	if term == "" {
		return
	}
	if _, ok := p.weights[term]; !ok {
		p.order = append(p.order, term)
	}
	p.weights[term]++
}

// AddEpisode folds an episode's terms into the profile.
func (p *Profile) AddEpisode(ep Episode) {
	for _, t := range EpisodeTerms(ep) {
		p.Add(t)
	}
}

// Weight returns the accumulated weight of a term, zero if absent.
func (p *Profile) Weight(term string) int {
	return p.weights[term]
}

// Len returns the number of distinct terms in the profile.
func (p *Profile) Len() int {
	return len(p.weights)
}

// Terms returns all profile terms in first-seen order.
func (p *Profile) Terms() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// TopTerms returns up to max terms ordered by weight descending.
// Equal weights keep first-seen order.
func (p *Profile) TopTerms(max int) []string {
	if max <= 0 || len(p.order) == 0 {
		return nil
	}
	terms := make([]string, len(p.order))
	copy(terms, p.order)
	sort.SliceStable(terms, func(i, j int) bool {
		return p.weights[terms[i]] > p.weights[terms[j]]
	})
	if len(terms) > max {
		terms = terms[:max]
	}
	return terms
}

// TopTermSet returns the top-max terms as a set.
func (p *Profile) TopTermSet(max int) map[string]struct{} {
	return TermSet(p.TopTerms(max))
}
