// Package prompts carries the versioned prompt assets for the two
// conversion stages. Each asset is a markdown file with YAML frontmatter
// so prompt revisions are tracked as data rather than code changes.
package prompts

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed analyzer.md
var analyzerAsset string

//go:embed builder.md
var builderAsset string

// Meta is the frontmatter every prompt asset carries.
type Meta struct {
	Name        string `yaml:"name"`
	Version     int    `yaml:"version"`
	Description string `yaml:"description"`
}

type prompt struct {
	meta Meta
	body string
}

var (
	analyzer = mustParse(analyzerAsset)
	builder  = mustParse(builderAsset)
)

// Analyzer returns the field analysis prompt.
func Analyzer() string {
	return analyzer.body
}

// AnalyzerMeta returns the analyzer asset's frontmatter.
func AnalyzerMeta() Meta {
	return analyzer.meta
}

// Builder returns the schema builder prompt with the serialized field
// specifications appended.
func Builder(fieldSpecsJSON string) string {
	return fmt.Sprintf("%s\n\nHere are the field specifications:\n\n%s", builder.body, fieldSpecsJSON)
}

// BuilderMeta returns the builder asset's frontmatter.
func BuilderMeta() Meta {
	return builder.meta
}

func mustParse(asset string) prompt {
	parts := strings.SplitN(asset, "---", 3)
	if len(parts) < 3 {
		panic("prompt asset is missing its frontmatter")
	}
	var meta Meta
	if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
		panic(fmt.Sprintf("parse prompt frontmatter: %v", err))
	}
	return prompt{meta: meta, body: strings.TrimSpace(parts[2])}
}
