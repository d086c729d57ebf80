package helpers

import (
	"strings"
	"testing"
)

func TestHighlightSegments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		term string
		want []HighlightSegment
	}{
		{
			name: "empty text",
			text: "",
			term: "amy",
			want: nil,
		},
		{
			name: "blank term keeps text whole",
			text: "Amy Burns",
			term: "  ",
			want: []HighlightSegment{{Text: "Amy Burns"}},
		},
		{
			name: "case-insensitive match keeps original casing",
			text: "Amy Burns",
			term: "bURN",
			want: []HighlightSegment{{Text: "Amy "}, {Text: "Burn", Match: true}, {Text: "s"}},
		},
		{
			name: "repeated matches",
			text: "Lee Robinson lee",
			term: "lee",
			want: []HighlightSegment{{Text: "Lee", Match: true}, {Text: " Robinson "}, {Text: "lee", Match: true}},
		},
		{
			name: "no match",
			text: "Delba de Oliveira",
			term: "xyz",
			want: []HighlightSegment{{Text: "Delba de Oliveira"}},
		},
		{
			name: "lowercasing changes byte width",
			text: "İstanbul Kelvin",
			term: "kelvin",
			want: []HighlightSegment{{Text: "İstanbul "}, {Text: "Kelvin", Match: true}},
		},
		{
			name: "kelvin sign folds to k",
			text: "\u212Aelvin",
			term: "kel",
			want: []HighlightSegment{{Text: "\u212Ael", Match: true}, {Text: "vin"}},
		},
		{
			name: "accented letters",
			text: "ÉMILE émile",
			term: "émile",
			want: []HighlightSegment{{Text: "ÉMILE", Match: true}, {Text: " "}, {Text: "émile", Match: true}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := HighlightSegments(tt.text, tt.term)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d segments %+v, got %+v", len(tt.want), tt.want, got)
			}
			var joined strings.Builder
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("segment %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
				joined.WriteString(got[i].Text)
			}
			if joined.String() != tt.text {
				t.Fatalf("segments do not rebuild the text: %q", joined.String())
			}
		})
	}
}
