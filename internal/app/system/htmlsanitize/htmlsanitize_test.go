package htmlsanitize_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/dalemusser/disputehub/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if result := htmlsanitize.Sanitize(""); result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	result := htmlsanitize.Sanitize("Hello, World!")
	if result != "Hello, World!" {
		t.Errorf("expected plain text unchanged, got %q", result)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if result := htmlsanitize.Sanitize(input); result != input {
		t.Errorf("expected safe HTML preserved, got %q", result)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	result := htmlsanitize.Sanitize("<p>Hello</p><script>alert('xss')</script>")
	if result != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", result)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert('xss')">Click</a>`
	if result := htmlsanitize.Sanitize(input); strings.Contains(result, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", result)
	}
}

func TestSanitizeToHTML_RemovesDangerousContent(t *testing.T) {
	result := htmlsanitize.SanitizeToHTML("<p>Hello</p><script>alert('xss')</script>")
	if result != template.HTML("<p>Hello</p>") {
		t.Errorf("expected script removed, got %q", result)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Unpaid invoice", "Unpaid invoice"},
		{"<b>Unpaid</b> invoice", "Unpaid invoice"},
		{"Smith & Sons", "Smith & Sons"},
		{"  padded  ", "padded"},
		{"<script>alert(1)</script>Lease", "Lease"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsPlainText(t *testing.T) {
	if !htmlsanitize.IsPlainText("Hello, World!") {
		t.Error("expected string without tags to be plain text")
	}
	if htmlsanitize.IsPlainText("<p>Hello</p>") {
		t.Error("expected string with tags to NOT be plain text")
	}
}
