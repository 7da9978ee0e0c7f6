package postprocessors

import (
	"strings"
	"testing"
)

func TestBuildTOC_Basic(t *testing.T) {
	md := "# Title\n## Intro\ntext\n### Details\n#### Deep\n## Outro"

	toc, annotated := BuildTOC(md)

	wantTOC := "- [Intro](#intro)\n  - [Details](#details)\n- [Outro](#outro)"
	if toc != wantTOC {
		t.Errorf("toc = %q, want %q", toc, wantTOC)
	}

	wantBody := strings.Join([]string{
		"# Title",
		`## Intro <a id="intro"></a>`,
		"text",
		`### Details <a id="details"></a>`,
		`#### Deep <a id="deep"></a>`,
		`## Outro <a id="outro"></a>`,
	}, "\n")
	if annotated != wantBody {
		t.Errorf("annotated = %q, want %q", annotated, wantBody)
	}
}

func TestBuildTOC_Collisions(t *testing.T) {
	md := "## Foo\n## Foo\n## foo\n### Foo"

	toc, _ := BuildTOC(md)

	want := "- [Foo](#foo)\n- [Foo](#foo-1)\n- [foo](#foo-2)\n  - [Foo](#foo-3)"
	if toc != want {
		t.Errorf("toc = %q, want %q", toc, want)
	}
}

func TestBuildTOC_NoHeadings(t *testing.T) {
	md := "plain\n\n# only h1\n####### seven"
	toc, annotated := BuildTOC(md)
	if toc != "" {
		t.Errorf("expected empty toc, got %q", toc)
	}
	if annotated != md {
		t.Errorf("non-heading lines must pass through unchanged, got %q", annotated)
	}
}

func TestBuildTOC_StripsDecorations(t *testing.T) {
	md := "## 第一部分：背景 *Content-[04:16]*\n" +
		"## Setup [原片 @ 01:05](https://www.bilibili.com/video/BV1?t=65)\n" +
		"### Wrap up (09:05)"

	toc, annotated := BuildTOC(md)

	if !strings.HasPrefix(toc, "- [第一部分：背景](#第一部分背景)") {
		t.Errorf("marker not stripped from first entry: %q", toc)
	}
	if !strings.Contains(toc, "- [Setup](#setup)") {
		t.Errorf("link decoration not stripped: %q", toc)
	}
	if !strings.Contains(toc, "  - [Wrap up](#wrap-up)") {
		t.Errorf("plain time not stripped: %q", toc)
	}
	if !strings.Contains(annotated, "## 第一部分：背景 *Content-[04:16]* <a id=\"第一部分背景\"></a>") {
		t.Errorf("heading text must be preserved: %q", annotated)
	}
}

func TestBuildTOC_Idempotent(t *testing.T) {
	md := "## Foo\n## Foo\n### Bar baz\nbody"

	toc1, once := BuildTOC(md)
	toc2, twice := BuildTOC(once)

	if once != twice {
		t.Errorf("second pass changed body:\n%q\n%q", once, twice)
	}
	if toc1 != toc2 {
		t.Errorf("second pass changed toc:\n%q\n%q", toc1, toc2)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Tabs\tand   spaces ", "-tabs-and-spaces-"},
		{"What's new?", "whats-new"},
		{"snake_case-ok", "snake_case-ok"},
		{"中文 标题", "中文-标题"},
		{"第一章\u3000概述", "第一章-概述"},
		{"Hello\u00a0World", "hello-world"},
		{"Go 1.24!", "go-124"},
		{"!!!", fallbackSlug},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slugify(tt.in)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Slugify(tt.in); again != got {
				t.Errorf("Slugify not stable: %q vs %q", got, again)
			}
		})
	}
}

func TestCleanHeading(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Intro *Content-[04:16]*", "Intro"},
		{"Intro Content-4:16", "Intro"},
		{"Intro [原片 @ 04:16](https://x)", "Intro"},
		{"Intro (04:16)", "Intro"},
		{"Intro (draft)", "Intro (draft)"},
	}
	for _, tt := range tests {
		if got := CleanHeading(tt.in); got != tt.want {
			t.Errorf("CleanHeading(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
