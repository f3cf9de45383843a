// SPDX-License-Identifier: MIT

// configgen regenerates the configuration artifacts derived from the
// option registry: the example YAML file and the options section of
// docs/CONFIGURATION.md. Run it after editing internal/config/registry.go.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/sidevit/trainconf/internal/config"
	"gopkg.in/yaml.v3"
)

const (
	configDocPath     = "docs/CONFIGURATION.md"
	configExamplePath = "config.example.yaml"
)

const (
	docBeginMarker = "<!-- BEGIN GENERATED CONFIG OPTIONS -->"
	docEndMarker   = "<!-- END GENERATED CONFIG OPTIONS -->"
)

func main() {
	flag.Parse()

	root, err := os.Getwd()
	if err != nil {
		fail(err)
	}

	registry, err := config.GetRegistry()
	if err != nil {
		fail(fmt.Errorf("get registry: %w", err))
	}
	entries := registryEntries(registry)

	if err := writeExample(root, entries); err != nil {
		fail(err)
	}
	if err := updateConfigDoc(root, registry.Entries); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "configgen: %v\n", err)
	os.Exit(1)
}

// registryEntries returns the file-backed options sorted by path.
// ENV-only operational options have no place in the example file.
func registryEntries(reg *config.Registry) []config.ConfigEntry {
	entries := make([]config.ConfigEntry, 0, len(reg.ByPath))
	for _, entry := range reg.ByPath {
		if entry.Path == "" {
			continue
		}
		if entry.Status == config.StatusInternal {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries
}

func writeExample(root string, entries []config.ConfigEntry) error {
	var rootNode yaml.Node
	rootNode.Kind = yaml.MappingNode
	rootNode.HeadComment = "Generated from internal/config/registry.go. Do not edit by hand."

	for _, entry := range entries {
		setYamlValue(&rootNode, strings.Split(entry.Path, "."), exampleValueNode(entry))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&rootNode); err != nil {
		return fmt.Errorf("encode example: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode example: %w", err)
	}
	path := filepath.Join(root, configExamplePath)
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write example: %w", err)
	}
	return nil
}

// exampleValueNode renders the registry default; options without a default
// (loss_weight and the plan start epochs) are written as explicit nulls so
// the example round-trips through the strict parser.
func exampleValueNode(entry config.ConfigEntry) *yaml.Node {
	if entry.Default == nil {
		return nullNode()
	}
	return yamlNodeForValue(entry.Default)
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func yamlNodeForValue(def any) *yaml.Node {
	rv := reflect.ValueOf(def)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for i := 0; i < rv.Len(); i++ {
			seq.Content = append(seq.Content, yamlNodeForValue(rv.Index(i).Interface()))
		}
		return seq
	case reflect.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", rv.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", rv.Int())}
	case reflect.Float32, reflect.Float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(rv.Float())}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprintf("%v", def)}
	}
}

func setYamlValue(node *yaml.Node, path []string, value *yaml.Node) {
	if node.Kind != yaml.MappingNode || len(path) == 0 {
		return
	}
	for i := 0; i < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]
		if keyNode.Value != path[0] {
			continue
		}
		if len(path) == 1 {
			node.Content[i+1] = value
			return
		}
		if valNode.Kind != yaml.MappingNode {
			valNode.Kind = yaml.MappingNode
			valNode.Content = nil
			valNode.Tag = ""
		}
		setYamlValue(valNode, path[1:], value)
		return
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: path[0]}
	var valNode *yaml.Node
	if len(path) == 1 {
		valNode = value
	} else {
		valNode = &yaml.Node{Kind: yaml.MappingNode}
		setYamlValue(valNode, path[1:], value)
	}
	node.Content = append(node.Content, keyNode, valNode)
}

func updateConfigDoc(root string, entries []config.ConfigEntry) error {
	path := filepath.Join(root, configDocPath)
	// #nosec G304 -- CLI tool operating on its own repo checkout
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read config doc: %w", err)
	}

	generated := buildConfigDoc(entries)
	out := replaceGeneratedSection(string(raw), generated)

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create doc dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0600); err != nil {
		return fmt.Errorf("write config doc: %w", err)
	}
	return nil
}

func buildConfigDoc(entries []config.ConfigEntry) string {
	var b strings.Builder
	b.WriteString(docBeginMarker)
	b.WriteString("\n## Options (Generated)\n\n")
	b.WriteString("This section is generated from `internal/config/registry.go`. Do not edit by hand.\n\n")
	b.WriteString("| Path | Env | Default | Hot-reload | Profile | Description |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, entry := range entries {
		path := "-"
		if entry.Path != "" {
			path = fmt.Sprintf("`%s`", entry.Path)
		}
		env := "-"
		if entry.Env != "" {
			env = fmt.Sprintf("`%s`", entry.Env)
		}
		def := "`null`"
		if entry.Default != nil {
			def = fmt.Sprintf("`%s`", formatDefault(entry.Default))
		}
		hot := "no"
		if entry.HotReloadable {
			hot = "yes"
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			path, env, def, hot, entry.Profile, entry.Doc))
	}
	b.WriteString("\n")
	b.WriteString(docEndMarker)
	return b.String()
}

func replaceGeneratedSection(content string, generated string) string {
	start := strings.Index(content, docBeginMarker)
	end := strings.Index(content, docEndMarker)
	if start == -1 || end == -1 || end < start {
		if content == "" {
			return "# Configuration\n\n" + generated + "\n"
		}
		return content + "\n\n" + generated + "\n"
	}
	end += len(docEndMarker)
	return content[:start] + generated + content[end:]
}

// formatFloat keeps a decimal point so the scalar stays a YAML float.
func formatFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func formatDefault(def any) string {
	switch v := def.(type) {
	case string:
		if v == "" {
			return "\"\""
		}
		return v
	default:
		return fmt.Sprintf("%v", def)
	}
}
