// Package loader reads well trees from YAML or JSON dataset files.
//
// A dataset is a list of nodes, each with a name and optional children:
//
//	- name: 大庆油田
//	  children:
//	    - name: 大庆油田一区块
//	      children:
//	        - name: 一井
//	- name: 塔里木油田
package loader

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/wellpick/pkg/debug"
	"github.com/vanderheijden86/wellpick/pkg/tree"
)

// DataEnvVar is the name of the environment variable for a dataset path.
const DataEnvVar = "WELLPICK_DATA"

// Format is a dataset file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrEmptyDataset      = errors.New("dataset has no nodes")
	ErrEmptyName         = errors.New("node has an empty name")
)

//go:embed data/default.yaml
var defaultDataset []byte

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ResolvePath picks the dataset path: an explicit flag wins, then the
// WELLPICK_DATA environment variable, then the config file. Empty means the
// built-in dataset.
func ResolvePath(flagPath, configPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if envPath := os.Getenv(DataEnvVar); envPath != "" {
		return envPath
	}
	return configPath
}

// Load reads the dataset at path, or the built-in dataset when path is empty.
func Load(path string) ([]*tree.HierNode, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates a dataset file.
func LoadFile(path string) ([]*tree.HierNode, error) {
	start := time.Now()
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	roots, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	debug.LogTiming("loader: "+filepath.Base(path), time.Since(start))
	return roots, nil
}

// Parse decodes and validates a dataset.
func Parse(data []byte, format Format) ([]*tree.HierNode, error) {
	data = stripBOM(data)

	var roots []*tree.HierNode
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&roots); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing YAML dataset: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &roots); err != nil {
			return nil, fmt.Errorf("parsing JSON dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := Validate(roots); err != nil {
		return nil, err
	}
	debug.Log("loader: parsed %d nodes (%s)", tree.Count(roots), format)
	return roots, nil
}

// Validate rejects empty datasets, missing nodes and blank names. Names are
// trimmed in place.
func Validate(roots []*tree.HierNode) error {
	if len(roots) == 0 {
		return ErrEmptyDataset
	}
	var check func(nodes []*tree.HierNode, path string) error
	check = func(nodes []*tree.HierNode, path string) error {
		for i, node := range nodes {
			where := fmt.Sprintf("%s[%d]", path, i)
			if node == nil {
				return fmt.Errorf("%w at %s", ErrEmptyName, where)
			}
			node.Name = strings.TrimSpace(node.Name)
			if node.Name == "" {
				return fmt.Errorf("%w at %s", ErrEmptyName, where)
			}
			if err := check(node.Children, where+"."+node.Name); err != nil {
				return err
			}
		}
		return nil
	}
	return check(roots, "")
}

// Default returns a fresh copy of the built-in dataset.
func Default() []*tree.HierNode {
	roots, err := Parse(defaultDataset, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("loader: built-in dataset is invalid: %v", err))
	}
	return roots
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
