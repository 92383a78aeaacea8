package markdown

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// yamlBlock decodes "---" blocks into a node tree so scalars keep their source
// text instead of being resolved to bools or floats.
var yamlBlock = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// FrontMatter is the flat key/value metadata block preceding a Markdown body.
type FrontMatter map[string]string

// Get returns the trimmed value for key.
func (fm FrontMatter) Get(key string) string {
	return strings.TrimSpace(fm[strings.ToLower(key)])
}

// List splits a comma separated value, dropping empty entries.
func (fm FrontMatter) List(key string) []string {
	raw := fm.Get(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseFrontMatter extracts metadata and the Markdown body from source. Blocks
// are decoded as YAML first and every scalar is kept verbatim (`price: 49.90`
// stays "49.90", `title: No` stays "No"); blocks that are not valid YAML (unquoted colons in
// values, for example) fall back to a line scanner that splits on the first
// colon. Sources without a leading "---" return empty metadata and the whole
// source as body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	trimmed := bytes.TrimLeft(source, "\ufeff \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("---")) {
		return FrontMatter{}, source, nil
	}

	var doc yaml.Node
	body, err := frontmatter.Parse(bytes.NewReader(trimmed), &doc, yamlBlock)
	if err == nil {
		if fm, ok := flatten(&doc); ok {
			return fm, body, nil
		}
		err = fmt.Errorf("front matter is not a mapping")
	}

	fm, body, ok := scanFrontMatter(trimmed)
	if !ok {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, body, nil
}

func flatten(doc *yaml.Node) (FrontMatter, bool) {
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return FrontMatter{}, true
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return FrontMatter{}, true
	}
	if root.Kind != yaml.MappingNode {
		return nil, false
	}
	out := make(FrontMatter, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := strings.ToLower(strings.TrimSpace(root.Content[i].Value))
		out[key] = scalarText(root.Content[i+1])
	}
	return out, true
}

func scalarText(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value
	case yaml.SequenceNode:
		parts := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			parts = append(parts, scalarText(item))
		}
		return strings.Join(parts, ", ")
	case yaml.AliasNode:
		if node.Alias != nil {
			return scalarText(node.Alias)
		}
	}
	return ""
}

// scanFrontMatter splits "---\nkey: value\n---\nbody" without YAML rules.
func scanFrontMatter(source []byte) (FrontMatter, []byte, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), len(source)+1)

	fm := FrontMatter{}
	offset := 0
	opened := false
	for scanner.Scan() {
		line := scanner.Text()
		offset += len(line) + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			if opened {
				if offset > len(source) {
					offset = len(source)
				}
				return fm, bytes.TrimLeft(source[offset:], "\r\n"), true
			}
			opened = true
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fm[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return nil, nil, false
}
