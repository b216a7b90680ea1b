package security

import "testing"

func TestTextSanitizer_Sanitize(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text is unchanged",
			input: "肩こりがひどかったので強めの設定にした",
			want:  "肩こりがひどかったので強めの設定にした",
		},
		{
			name:  "ampersand and comparison characters survive",
			input: "level 5 & duration < 20",
			want:  "level 5 & duration < 20",
		},
		{
			name:  "script tag is removed",
			input: `before<script>alert("x")</script>after`,
			want:  "beforeafter",
		},
		{
			name:  "all markup is stripped",
			input: "<p>memo <strong>important</strong></p>",
			want:  "memo important",
		},
		{
			name:  "img with onerror is removed",
			input: `note<img src="x" onerror="alert(1)">`,
			want:  "note",
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: "  memo  ",
			want:  "memo",
		},
		{
			name:  "empty input returns empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	input := `<div>memo & <script>x</script>note</div>`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize is not idempotent: first %q, second %q", once, twice)
	}
}
