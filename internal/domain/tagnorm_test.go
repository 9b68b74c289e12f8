package domain

import "testing"

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "trim case fold dedupe",
			input:    []string{" Go ", "go", "GO", "redis"},
			expected: []string{"go", "redis"},
		},
		{
			name:     "insertion order of first occurrence",
			input:    []string{"b", "a", "B", "c", "A"},
			expected: []string{"b", "a", "c"},
		},
		{
			name:     "empty and whitespace dropped",
			input:    []string{"", "   ", "\t", "ok"},
			expected: []string{"ok"},
		},
		{
			name:     "nil input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "all empty",
			input:    []string{"", " "},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("NormalizeTags(%v) = %v, want %v", tt.input, got, tt.expected)
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("NormalizeTags(%v)[%d] = %q, want %q", tt.input, i, got[i], tt.expected[i])
				}
			}
		})
	}
}
