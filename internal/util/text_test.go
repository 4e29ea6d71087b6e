package util

import "testing"

func TestSanitizePostgresText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean text unchanged",
			input: "hello wörld",
			want:  "hello wörld",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "nul bytes removed",
			input: "a\x00b\x00c",
			want:  "abc",
		},
		{
			name:  "invalid utf8 stripped",
			input: "caf\xc3" + "e",
			want:  "cafe",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizePostgresText(tc.input); got != tc.want {
				t.Fatalf("SanitizePostgresText(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
