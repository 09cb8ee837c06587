// Package agg loads the run inputs: the tool catalog and the auxiliary signal tables.
package agg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aipowerranking/toolrank/core/algo"
	"github.com/aipowerranking/toolrank/schema"
	"gopkg.in/yaml.v3"
)

// Catalog is the on-disk shape of a tool catalog when it is not a bare list.
type Catalog struct {
	Tools []schema.ToolRecord `json:"tools" yaml:"tools"`
}

// SignalsFile is the on-disk shape of the auxiliary signal tables.
type SignalsFile struct {
	Velocity   map[string]float64           `json:"velocity" yaml:"velocity" cbor:"velocity"`
	NewsImpact map[string]schema.NewsImpact `json:"news_impact" yaml:"news_impact" cbor:"news_impact"`
}

// Signals converts the decoded tables into a read-only signal context.
func (f SignalsFile) Signals() *algo.Signals {
	return algo.NewSignals(f.Velocity, f.NewsImpact)
}

// isYAML reports whether a path should be decoded as YAML.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// LoadTools reads a tool catalog from a JSON or YAML file. The file holds
// either a list of tools or an object with a "tools" list.
func LoadTools(path string) ([]schema.ToolRecord, error) {
	if path == "" {
		return nil, errors.New("a tool catalog is required (use --catalog)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog: %w", err)
	}
	tools, err := ParseTools(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("cannot parse catalog %s: %w", path, err)
	}
	return tools, nil
}

// ParseTools decodes a catalog document.
func ParseTools(data []byte, asYAML bool) ([]schema.ToolRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("catalog is empty")
	}

	if asYAML {
		var node yaml.Node
		if err := yaml.Unmarshal(trimmed, &node); err != nil {
			return nil, err
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			var tools []schema.ToolRecord
			if err := node.Decode(&tools); err != nil {
				return nil, err
			}
			return tools, nil
		}
		var catalog Catalog
		if err := node.Decode(&catalog); err != nil {
			return nil, err
		}
		return catalog.Tools, nil
	}

	if trimmed[0] == '[' {
		var tools []schema.ToolRecord
		if err := json.Unmarshal(trimmed, &tools); err != nil {
			return nil, err
		}
		return tools, nil
	}
	var catalog Catalog
	if err := json.Unmarshal(trimmed, &catalog); err != nil {
		return nil, err
	}
	return catalog.Tools, nil
}

// ParseSignals decodes a signals document.
func ParseSignals(data []byte, asYAML bool) (SignalsFile, error) {
	var file SignalsFile
	var err error
	if asYAML {
		err = yaml.Unmarshal(data, &file)
	} else {
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return SignalsFile{}, err
	}
	return file, nil
}

// LoadSignals reads the signal tables from a JSON or YAML file. An empty path
// returns an unloaded context, so scorers fall back to their heuristics.
func LoadSignals(path string) (*algo.Signals, error) {
	if path == "" {
		return algo.EmptySignals(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read signals: %w", err)
	}
	file, err := ParseSignals(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("cannot parse signals %s: %w", path, err)
	}
	return file.Signals(), nil
}
