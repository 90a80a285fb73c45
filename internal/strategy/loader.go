package strategy

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/arch-bert/card-counting/internal/types"
)

//go:embed charts/basic.hcl
var basicChart []byte

// DefaultName is the name reported for the embedded chart.
const DefaultName = "basic"

var loadDefault = sync.OnceValues(func() (*Chart, error) {
	return ParseHCL(basicChart, "basic.hcl")
})

// Default returns the embedded multi-deck basic strategy chart
// (dealer stands on soft 17, double after split allowed).
func Default() (*Chart, error) {
	return loadDefault()
}

type hclChart struct {
	Name   string     `hcl:"name,optional"`
	Tables []hclTable `hcl:"table,block"`
}

type hclTable struct {
	Kind   string            `hcl:"kind,label"`
	Dealer []string          `hcl:"dealer"`
	Rows   map[string]string `hcl:"rows"`
}

type yamlChart struct {
	Name   string      `yaml:"name"`
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Kind   string            `yaml:"kind"`
	Dealer []string          `yaml:"dealer"`
	Rows   map[string]string `yaml:"rows"`
}

// Load reads a chart file. The format follows the extension: .hcl, or
// .yaml/.yml. An empty path returns the embedded default.
func Load(path string) (*Chart, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(types.ErrInvalidConfig, "reading strategy chart", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return ParseHCL(data, path)
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	default:
		return nil, types.NewGameError(types.ErrInvalidConfig, "unsupported chart format %q", filepath.Ext(path))
	}
}

// ParseHCL parses and validates an HCL chart.
func ParseHCL(src []byte, filename string) (*Chart, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, types.WrapError(types.ErrInvalidConfig, "parsing chart", diags)
	}

	var raw hclChart
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, types.WrapError(types.ErrInvalidConfig, "decoding chart", diags)
	}

	tables := make([]rawTable, len(raw.Tables))
	for i, t := range raw.Tables {
		tables[i] = rawTable{Kind: t.Kind, Dealer: t.Dealer, Rows: t.Rows}
	}
	return build(chartName(raw.Name, filename), tables)
}

// ParseYAML parses and validates a YAML chart.
func ParseYAML(src []byte, filename string) (*Chart, error) {
	var raw yamlChart
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return nil, types.WrapError(types.ErrInvalidConfig, "decoding chart", err)
	}

	tables := make([]rawTable, len(raw.Tables))
	for i, t := range raw.Tables {
		tables[i] = rawTable{Kind: t.Kind, Dealer: t.Dealer, Rows: t.Rows}
	}
	return build(chartName(raw.Name, filename), tables)
}

func chartName(name, filename string) string {
	if name != "" {
		return name
	}
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Describe returns a short human readable identifier for a chart.
func Describe(c *Chart) string {
	return fmt.Sprintf("%s (%d hard, %d soft, %d pair cells)", c.Name, len(c.hard), len(c.soft), len(c.pairs))
}
