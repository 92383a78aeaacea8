package svg

import (
	"regexp"
	"strings"
)

type scope uint8

const (
	scopeRoot scope = iota
	scopeInner
)

// rule is one substitution in the color pipeline. Rules run in declaration
// order; a rule never sees text produced by a later rule.
type rule struct {
	name        string
	scope       scope
	replaceNone bool
	pattern     *regexp.Regexp
	replacement string
	// keep reports matches that must be left untouched; RE2 has no
	// look-ahead so exclusions are checked here against group keepGroup
	// (1 when unset).
	keep      func(value string) bool
	keepGroup int
}

func (r rule) apply(input string) string {
	if r.keep == nil {
		return r.pattern.ReplaceAllString(input, r.replacement)
	}
	return r.pattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := r.pattern.FindStringSubmatch(match)
		idx := r.keepGroup
		if idx == 0 {
			idx = 1
		}
		if len(groups) > idx && r.keep(groups[idx]) {
			return match
		}
		return r.pattern.ReplaceAllString(match, r.replacement)
	})
}

func excluding(prefixes ...string) func(string) bool {
	return func(value string) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(value, prefix) {
				return true
			}
		}
		return false
	}
}

func re(expr string) *regexp.Regexp {
	return regexp.MustCompile(expr)
}

const current = "currentcolor"

// pipeline lists the color rules. The root tag is rewritten conservatively
// (never "none"); inner content is rewritten fully, "none" only on request.
var pipeline = []rule{
	{name: "root.fill.hex.dq", scope: scopeRoot, pattern: re(`fill="#[0-9a-fA-F]+"`), replacement: `fill="` + current + `"`},
	{name: "root.fill.hex.sq", scope: scopeRoot, pattern: re(`fill='#[0-9a-fA-F]+'`), replacement: `fill='` + current + `'`},
	{name: "root.fill.rgb.dq", scope: scopeRoot, pattern: re(`fill="rgba?\([^)]+\)"`), replacement: `fill="` + current + `"`},
	{name: "root.fill.named.dq", scope: scopeRoot, pattern: re(`fill="([a-zA-Z]+)"`), replacement: `fill="` + current + `"`, keep: excluding(current, "none")},

	{name: "inner.fill.none.dq", scope: scopeInner, replaceNone: true, pattern: re(`fill="none"`), replacement: `fill="` + current + `"`},
	{name: "inner.fill.none.sq", scope: scopeInner, replaceNone: true, pattern: re(`fill='none'`), replacement: `fill='` + current + `'`},
	{name: "inner.fill.none.bare", scope: scopeInner, replaceNone: true, pattern: re(`fill=none`), replacement: `fill=` + current},
	{name: "inner.style.none.dq", scope: scopeInner, replaceNone: true, pattern: re(`style="([^"]*?)fill:\s*none;([^"]*?)"`), replacement: `style="${1}fill:` + current + `;${2}"`},
	{name: "inner.style.none.sq", scope: scopeInner, replaceNone: true, pattern: re(`style='([^']*?)fill:\s*none;([^']*?)'`), replacement: `style='${1}fill:` + current + `;${2}'`},

	{name: "inner.fill.hex.dq", scope: scopeInner, pattern: re(`fill="#[0-9a-fA-F]+"`), replacement: `fill="` + current + `"`},
	{name: "inner.fill.hex.sq", scope: scopeInner, pattern: re(`fill='#[0-9a-fA-F]+'`), replacement: `fill='` + current + `'`},
	{name: "inner.fill.hex.bare", scope: scopeInner, pattern: re(`fill=#[0-9a-fA-F]+`), replacement: `fill=` + current},
	{name: "inner.fill.rgb.dq", scope: scopeInner, pattern: re(`fill="rgba?\([^)]+\)"`), replacement: `fill="` + current + `"`},
	{name: "inner.fill.rgb.sq", scope: scopeInner, pattern: re(`fill='rgba?\([^)]+\)'`), replacement: `fill='` + current + `'`},
	{name: "inner.fill.named.dq", scope: scopeInner, pattern: re(`fill="([a-zA-Z]+)"`), replacement: `fill="` + current + `"`, keep: excluding(current, "none")},
	{name: "inner.fill.named.sq", scope: scopeInner, pattern: re(`fill='([a-zA-Z]+)'`), replacement: `fill='` + current + `'`, keep: excluding(current, "none")},
	{name: "inner.style.fill.dq", scope: scopeInner, pattern: re(`style="([^"]*?)fill:\s*([^;]+);([^"]*?)"`), replacement: `style="${1}fill:` + current + `;${3}"`, keep: excluding("none"), keepGroup: 2},
	{name: "inner.style.fill.sq", scope: scopeInner, pattern: re(`style='([^']*?)fill:\s*([^;]+);([^']*?)'`), replacement: `style='${1}fill:` + current + `;${3}'`, keep: excluding("none"), keepGroup: 2},

	{name: "inner.stroke.none.dq", scope: scopeInner, replaceNone: true, pattern: re(`stroke="none"`), replacement: `stroke="` + current + `"`},
	{name: "inner.stroke.none.sq", scope: scopeInner, replaceNone: true, pattern: re(`stroke='none'`), replacement: `stroke='` + current + `'`},
	{name: "inner.stroke.none.bare", scope: scopeInner, replaceNone: true, pattern: re(`stroke=none`), replacement: `stroke=` + current},

	{name: "inner.stroke.hex.dq", scope: scopeInner, pattern: re(`stroke="#[0-9a-fA-F]+"`), replacement: `stroke="` + current + `"`},
	{name: "inner.stroke.hex.sq", scope: scopeInner, pattern: re(`stroke='#[0-9a-fA-F]+'`), replacement: `stroke='` + current + `'`},
	{name: "inner.stroke.named.dq", scope: scopeInner, pattern: re(`stroke="([a-zA-Z]+)"`), replacement: `stroke="` + current + `"`, keep: excluding(current, "none")},
}

func runPipeline(target scope, input string, replaceNone bool) string {
	for _, r := range pipeline {
		if r.scope != target || (r.replaceNone && !replaceNone) {
			continue
		}
		input = r.apply(input)
	}
	return input
}
