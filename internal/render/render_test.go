package render

import (
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji {
		t.Error("expected EnableEmoji=true")
	}
	if !opts.PreserveNewLines {
		t.Error("expected PreserveNewLines=true")
	}
	if !opts.TableWrap {
		t.Error("expected TableWrap=true")
	}
	if opts.InlineTableLinks {
		t.Error("expected InlineTableLinks=false")
	}
	if opts.Compact {
		t.Error("expected Compact=false")
	}
}

func TestOptionsChaining(t *testing.T) {
	opts := DefaultOptions().
		WithWidth(100).
		WithStyle("light").
		WithCompact(true)

	if opts.Width != 100 {
		t.Errorf("expected Width=100, got %d", opts.Width)
	}
	if opts.Style != "light" {
		t.Errorf("expected Style='light', got %s", opts.Style)
	}
	if !opts.Compact {
		t.Error("expected Compact=true")
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		width    int
		contains string
	}{
		{
			name:     "heading",
			input:    "# Hello World",
			width:    80,
			contains: "Hello",
		},
		{
			name:     "bold",
			input:    "This is **bold** text",
			width:    80,
			contains: "bold",
		},
		{
			name:     "code_block",
			input:    "```go\nfmt.Println(\"hello\")\n```",
			width:    80,
			contains: "Println",
		},
		{
			name:     "narrow_width",
			input:    "# Long heading that should wrap",
			width:    40,
			contains: "Long",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions().WithWidth(tc.width)
			output, err := Markdown(tc.input, opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tc.contains) {
				t.Errorf("output should contain %q, got: %s", tc.contains, output)
			}
		})
	}
}

func TestMarkdownEmoji(t *testing.T) {
	input := "Hello :smile: world"

	opts := DefaultOptions()
	output, err := Markdown(input, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, ":smile:") {
		t.Errorf("emoji should have been converted, got: %s", output)
	}

	opts.EnableEmoji = false
	output, err = Markdown(input, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, ":smile:") {
		t.Errorf("emoji should NOT have been converted, got: %s", output)
	}
}

func TestMarkdownInvalidStyle(t *testing.T) {
	opts := DefaultOptions().WithStyle("nonexistent_style_path")
	if _, err := Markdown("# Test", opts); err == nil {
		t.Error("expected error for invalid style path")
	}
}

func TestReply(t *testing.T) {
	opts := DefaultOptions().WithStyle(ThemeNoTTY)

	t.Run("blank is returned as is", func(t *testing.T) {
		if got := Reply("  ", opts); got != "  " {
			t.Errorf("Reply() = %q", got)
		}
	})

	t.Run("renders text", func(t *testing.T) {
		got := Reply("Arr, **matey**", opts)
		if !strings.Contains(got, "matey") {
			t.Errorf("Reply() = %q", got)
		}
		if strings.HasSuffix(got, "\n") {
			t.Error("trailing newlines should be trimmed")
		}
	})

	t.Run("falls back to raw text on bad style", func(t *testing.T) {
		raw := "# Title"
		if got := Reply(raw, opts.WithStyle("/no/such/style.json")); got != raw {
			t.Errorf("Reply() = %q, want raw %q", got, raw)
		}
	})

	t.Run("unterminated code block", func(t *testing.T) {
		got := Reply("```go\nfunc main() {", opts)
		if !strings.Contains(got, "func main()") {
			t.Errorf("Reply() = %q", got)
		}
	})
}

func TestCloseOpenFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"```go\nx := 1\n```", "```go\nx := 1\n```"},
		{"```go\nx := 1", "```go\nx := 1\n```"},
		{"```go\nx := 1\n", "```go\nx := 1\n```"},
	}
	for _, tt := range tests {
		if got := closeOpenFence(tt.in); got != tt.want {
			t.Errorf("closeOpenFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
