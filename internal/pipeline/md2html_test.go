package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	conv := NewGoldmarkConverter()

	tests := []struct {
		name        string
		input       string
		wantContain []string
		wantAbsent  []string
	}{
		{
			name:        "paragraph and emphasis",
			input:       "Mamdani won with **44%** of the vote.",
			wantContain: []string{"<p>", "<strong>44%</strong>"},
		},
		{
			name:        "heading gets an id",
			input:       "## Interpretation of Results",
			wantContain: []string{`<h2 id="interpretation-of-results">`},
		},
		{
			name:        "inline subscript survives",
			input:       "Where p<sub>i</sub> is the proportion.",
			wantContain: []string{"p<sub>i</sub>"},
		},
		{
			name:        "GFM table",
			input:       "| a | b |\n|---|---|\n| 1 | 2 |",
			wantContain: []string{"<table>", "<td>1</td>"},
		},
		{
			name:        "external link opens in new tab",
			input:       "[NHGIS](https://www.nhgis.org/)",
			wantContain: []string{`href="https://www.nhgis.org/"`, `target="_blank"`},
		},
		{
			name:        "script removed",
			input:       "hello <script>alert(1)</script>",
			wantContain: []string{"hello"},
			wantAbsent:  []string{"<script", "alert(1)"},
		},
		{
			name:       "event handler removed",
			input:      `<b onclick="steal()">bold</b>`,
			wantAbsent: []string{"onclick"},
		},
		{
			name:        "code block highlighted with classes",
			input:       "```go\nfunc main() {}\n```",
			wantContain: []string{`class="chroma"`},
		},
		{
			name:        "inline math left for client rendering",
			input:       `The coefficient $\beta_j$ is the change in log-odds.`,
			wantContain: []string{`$\beta_j$`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("output should contain %q\ngot: %s", want, got)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("output should not contain %q\ngot: %s", absent, got)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ToHTML_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToHTML(ctx, "# Title")
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestHighlightCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		style string
	}{
		{name: "configured style", style: HighlightStyle},
		{name: "unknown style falls back", style: "no-such-style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			css, err := HighlightCSS(tt.style)
			if err != nil {
				t.Fatalf("HighlightCSS() error = %v", err)
			}
			if !strings.Contains(css, ".chroma") {
				t.Errorf("CSS should target .chroma classes, got %q", css[:min(len(css), 120)])
			}
		})
	}
}

func TestPreprocessNarrative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "CRLF normalized", input: "a\r\nb\rc", want: "a\nb\nc\n"},
		{name: "blank lines compressed", input: "a\n\n\n\n\nb", want: "a\n\nb\n"},
		{name: "highlight marked", input: "the ==key== finding", want: "the " + markOpen + "key" + markClose + " finding\n"},
		{name: "equality left alone", input: "a == b", want: "a == b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := preprocessNarrative(tt.input); got != tt.want {
				t.Errorf("preprocessNarrative(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGoldmarkConverter_ToHTML_Highlight(t *testing.T) {
	t.Parallel()

	got, err := NewGoldmarkConverter().ToHTML(context.Background(), "a ==strong== effect")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if !strings.Contains(got, "<mark>strong</mark>") {
		t.Errorf("expected <mark> highlight, got %q", got)
	}
}
