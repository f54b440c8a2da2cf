// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package recommend

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits",
			text: "Deep Learning Basics",
			want: []string{"deep", "learning", "basics"},
		},
		{
			name: "strips punctuation",
			text: "AI, ML & the future!",
			want: []string{"ai", "ml", "the", "future"},
		},
		{
			name: "collapses duplicates keeping first position",
			text: "go go gadget go",
			want: []string{"go", "gadget"},
		},
		{
			name: "keeps digits",
			text: "Top 10 of 2025",
			want: []string{"top", "10", "of", "2025"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "punctuation only",
			text: "!!! ... ---",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestEpisodeTerms(t *testing.T) {
	ep := Episode{
		ID:          "e1",
		Title:       "Intro to AI",
		Description: "A gentle intro.",
		Tags:        []string{"AI", "tech"},
	}
	got := EpisodeTerms(ep)
	want := []string{"ai", "tech", "intro", "to", "a", "gentle"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EpisodeTerms() = %v, want %v", got, want)
	}
}

func TestEpisodeTermsEmpty(t *testing.T) {
	if got := EpisodeTerms(Episode{ID: "e1"}); len(got) != 0 {
		t.Errorf("EpisodeTerms(empty episode) = %v, want none", got)
	}
}

func TestProfileWeights(t *testing.T) {
	p := NewProfile()
	p.AddEpisode(Episode{Title: "AI now", Tags: []string{"ai"}})
	p.AddEpisode(Episode{Title: "AI later", Tags: []string{"ai", "tech"}})

	if got := p.Weight("ai"); got != 2 {
		t.Errorf("Weight(ai) = %d, want 2", got)
	}
	if got := p.Weight("tech"); got != 1 {
		t.Errorf("Weight(tech) = %d, want 1", got)
	}
	if got := p.Weight("absent"); got != 0 {
		t.Errorf("Weight(absent) = %d, want 0", got)
	}
}

func TestProfileTopTerms(t *testing.T) {
	p := NewProfile()
	// alpha seen first, then beta; both end with weight 2, gamma with 1.
	for _, term := range []string{"alpha", "beta", "alpha", "beta", "gamma"} {
		p.Add(term)
	}

	tests := []struct {
		name string
		max  int
		want []string
	}{
		{name: "ties keep first-seen order", max: 3, want: []string{"alpha", "beta", "gamma"}},
		{name: "truncates to max", max: 2, want: []string{"alpha", "beta"}},
		{name: "non-positive max", max: 0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.TopTerms(tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopTerms(%d) = %v, want %v", tt.max, got, tt.want)
			}
		})
	}
}

func TestProfileTopTermsOrdersByWeight(t *testing.T) {
	p := NewProfile()
	p.Add("rare")
	for i := 0; i < 3; i++ {
		p.Add("common")
	}
	got := p.TopTerms(10)
	want := []string{"common", "rare"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTerms = %v, want %v", got, want)
	}
}
