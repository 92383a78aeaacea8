package markdown

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseFrontMatterYAML(t *testing.T) {
	source := []byte("---\ntitle: AI Consulting\nprice: \"$150/hr\"\nfeatures: Strategy, Prototyping ,, Delivery\n---\n# Body\n")

	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Get("title") != "AI Consulting" {
		t.Fatalf("unexpected title %q", fm.Get("title"))
	}
	if fm.Get("price") != "$150/hr" {
		t.Fatalf("unexpected price %q", fm.Get("price"))
	}
	want := []string{"Strategy", "Prototyping", "Delivery"}
	if got := fm.List("features"); !reflect.DeepEqual(got, want) {
		t.Fatalf("features = %#v, want %#v", got, want)
	}
	if !strings.Contains(string(body), "# Body") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestParseFrontMatterFallsBackToLineScanner(t *testing.T) {
	source := []byte("---\ntitle: Robotics: Field Work\nicon: robot\n---\nBody text\n")

	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Get("title") != "Robotics: Field Work" {
		t.Fatalf("unexpected title %q", fm.Get("title"))
	}
	if strings.TrimSpace(string(body)) != "Body text" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestParseFrontMatterWithoutBlock(t *testing.T) {
	source := []byte("# Just markdown\n")
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if len(fm) != 0 || string(body) != string(source) {
		t.Fatalf("expected passthrough, got %v %q", fm, body)
	}
}

func TestParseFrontMatterKeepsScalarText(t *testing.T) {
	source := []byte("---\ntitle: No\nprice: 49.90\nicon: on\nfeatures:\n  - Audit\n  - 10.0\n---\nbody")

	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	for key, want := range map[string]string{"title": "No", "price": "49.90", "icon": "on"} {
		if got := fm.Get(key); got != want {
			t.Fatalf("%s = %q, want %q", key, got, want)
		}
	}
	if got := fm.List("features"); !reflect.DeepEqual(got, []string{"Audit", "10.0"}) {
		t.Fatalf("features = %#v", got)
	}
	if strings.TrimSpace(string(body)) != "body" {
		t.Fatalf("unexpected body %q", body)
	}
}
