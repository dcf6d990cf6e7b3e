package summary

import (
	"fmt"
	"strings"
	"testing"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestSplitWordsSizes(t *testing.T) {
	tests := []struct {
		name  string
		words int
		size  int
		want  []int
	}{
		{name: "empty", words: 0, size: 800, want: nil},
		{name: "single short chunk", words: 60, size: 800, want: []int{60}},
		{name: "exact multiple", words: 1600, size: 800, want: []int{800, 800}},
		{name: "three thousand words", words: 3000, size: 800, want: []int{800, 800, 800, 600}},
		{name: "size one", words: 3, size: 1, want: []int{1, 1, 1}},
		{name: "non-positive size uses default", words: 900, size: 0, want: []int{800, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitWords(words(tt.words), tt.size)
			if len(chunks) != len(tt.want) {
				t.Fatalf("expected %d chunks, got %d", len(tt.want), len(chunks))
			}
			for i, chunk := range chunks {
				if got := len(strings.Fields(chunk)); got != tt.want[i] {
					t.Errorf("chunk %d: expected %d words, got %d", i, tt.want[i], got)
				}
			}
		})
	}
}

func TestSplitWordsReconstructsInput(t *testing.T) {
	text := "  the quick\tbrown fox\n\njumps over   the lazy dog and keeps running  "
	want := strings.Fields(text)

	for size := 1; size <= len(want)+1; size++ {
		chunks := SplitWords(text, size)

		var rebuilt []string
		for i, chunk := range chunks {
			fields := strings.Fields(chunk)
			if len(fields) == 0 {
				t.Fatalf("size %d: chunk %d is empty", size, i)
			}
			if len(fields) > size {
				t.Fatalf("size %d: chunk %d has %d words", size, i, len(fields))
			}
			if i < len(chunks)-1 && len(fields) != size {
				t.Fatalf("size %d: non-final chunk %d has %d words", size, i, len(fields))
			}
			rebuilt = append(rebuilt, fields...)
		}

		if strings.Join(rebuilt, " ") != strings.Join(want, " ") {
			t.Fatalf("size %d: words not reproduced", size)
		}
	}
}

func TestResolveTier(t *testing.T) {
	tests := []struct {
		input string
		tier  Tier
		max   int
		min   int
	}{
		{"short", TierShort, 80, 30},
		{"medium", TierMedium, 150, 40},
		{"detailed", TierDetailed, 250, 80},
		{" Detailed ", TierDetailed, 250, 80},
		{"", TierMedium, 150, 40},
		{"epic", TierMedium, 150, 40},
	}

	for _, tt := range tests {
		tier, budget := ResolveTier(tt.input)
		if tier != tt.tier || budget.MaxLength != tt.max || budget.MinLength != tt.min {
			t.Errorf("ResolveTier(%q) = %s %+v", tt.input, tier, budget)
		}
	}
}
