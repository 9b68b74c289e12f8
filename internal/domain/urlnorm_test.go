package domain

import "testing"

func TestNormalizeURL(t *testing.T) {
	strip := NormalizeOptions{StripTracking: true}

	tests := []struct {
		name     string
		input    string
		opts     NormalizeOptions
		expected string
	}{
		{
			name:     "bare host gains scheme",
			input:    "example.com",
			expected: "https://example.com",
		},
		{
			name:     "host casing and www stripped",
			input:    "https://WWW.Example.COM",
			expected: "https://example.com",
		},
		{
			name:     "http upgraded to https",
			input:    "http://example.com/post",
			expected: "https://example.com/post",
		},
		{
			name:     "root slash stripped",
			input:    "https://example.com/",
			expected: "https://example.com",
		},
		{
			name:     "deep trailing slash kept",
			input:    "https://example.com/post/",
			expected: "https://example.com/post/",
		},
		{
			name:     "tracking params stripped",
			input:    "https://a.com/x?utm_source=y&id=7&fbclid=abc",
			opts:     strip,
			expected: "https://a.com/x?id=7",
		},
		{
			name:     "tracking params kept when disabled",
			input:    "https://a.com/x?utm_source=y",
			expected: "https://a.com/x?utm_source=y",
		},
		{
			name:     "query order preserved",
			input:    "https://a.com/x?b=2&utm_medium=m&a=1",
			opts:     strip,
			expected: "https://a.com/x?b=2&a=1",
		},
		{
			name:     "spec scenario",
			input:    "http://WWW.Example.com/Post/?utm_source=x",
			opts:     strip,
			expected: "https://example.com/post/",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "malformed input lower-cased as-is",
			input:    "HTTP://%ZZ##bad",
			expected: "http://%zz##bad",
		},
		{
			name:     "custom tracking set",
			input:    "https://a.com/x?ref=r&session=s",
			opts:     NormalizeOptions{StripTracking: true, TrackingParams: []string{"session"}},
			expected: "https://a.com/x?ref=r",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.input, tt.opts)
			if got != tt.expected {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}

			// normalization must be idempotent
			again := NormalizeURL(got, tt.opts)
			if again != got {
				t.Errorf("NormalizeURL not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestEquivalentURL(t *testing.T) {
	strip := NormalizeOptions{StripTracking: true}

	tests := []struct {
		name     string
		a, b     string
		opts     NormalizeOptions
		expected bool
	}{
		{
			name:     "case and www and slash variations",
			a:        "https://Example.com/",
			b:        "example.com",
			expected: true,
		},
		{
			name:     "tracking stripped makes equal",
			a:        "https://a.com/x?utm_source=y",
			b:        "https://a.com/x",
			opts:     strip,
			expected: true,
		},
		{
			name:     "tracking kept makes unequal",
			a:        "https://a.com/x?utm_source=y",
			b:        "https://a.com/x",
			expected: false,
		},
		{
			name:     "different paths",
			a:        "https://a.com/x",
			b:        "https://a.com/y",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EquivalentURL(tt.a, tt.b, tt.opts); got != tt.expected {
				t.Errorf("EquivalentURL(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
