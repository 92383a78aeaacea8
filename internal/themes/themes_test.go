package themes

import (
	"testing"
	"testing/fstest"
)

func TestContextStyleIsSorted(t *testing.T) {
	ctx := Context{Name: "aurora", CSSVars: map[string]string{"--theme-b": "2px", "--theme-a": "#fff"}}
	if got, want := ctx.Style(), ":root{--theme-a:#fff;--theme-b:2px;}"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if !ctx.Enabled() {
		t.Fatalf("expected named context to be enabled")
	}
}

func TestEmptyContext(t *testing.T) {
	ctx := Empty()
	if ctx.Enabled() || ctx.Style() != "" {
		t.Fatalf("expected disabled empty context, got %+v", ctx)
	}
	m := ctx.Map()
	if m["style"] != "" || m["tokens"] == nil {
		t.Fatalf("unexpected map %v", m)
	}
}

func TestLoadWithoutManifestFails(t *testing.T) {
	if _, err := Load(fstest.MapFS{}, Config{Name: "aurora"}); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}
