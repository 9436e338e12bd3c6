package textfmt

import "testing"

func TestFormatText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "cjk then latin",
			input: "我买了iPhone15",
			want:  "我买了 iPhone15",
		},
		{
			name:  "latin then cjk",
			input: "Go语言很好",
			want:  "Go 语言很好",
		},
		{
			name:  "both directions",
			input: "用Go写服务",
			want:  "用 Go 写服务",
		},
		{
			name:  "digit boundary",
			input: "今天走了10000步",
			want:  "今天走了 10000 步",
		},
		{
			name:  "pure latin untouched",
			input: "hello world 123",
			want:  "hello world 123",
		},
		{
			name:  "pure cjk untouched",
			input: "今天天气不错",
			want:  "今天天气不错",
		},
		{
			name:  "existing space preserved",
			input: "我买了 iPhone15",
			want:  "我买了 iPhone15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatText(tt.input); got != tt.want {
				t.Errorf("FormatText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTextIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"我买了iPhone15", "用Go写服务", "mixed中文and英文text"}
	for _, input := range inputs {
		once := FormatText(input)
		twice := FormatText(once)
		if once != twice {
			t.Errorf("FormatText not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
