package sceneio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/fsutil"
	"github.com/vk/meepgen/internal/scene"
)

// Format is a scene file syntax.
type Format string

const (
	FormatHCL  Format = "hcl"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Extensions lists the file extensions Load recognizes.
var Extensions = []string{".hcl", ".yaml", ".yml", ".json"}

// FormatOf returns the format implied by a file name.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return FormatHCL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported scene file %s: want one of %s", path, strings.Join(Extensions, ", "))
}

// Parse decodes src in the given format. filename is used in messages.
func Parse(src []byte, format Format, filename string) (*scene.Snapshot, error) {
	doc, err := parse(hclparse.NewParser(), src, format, filename)
	if err != nil {
		return nil, err
	}
	return doc.snap, nil
}

func parse(parser *hclparse.Parser, src []byte, format Format, filename string) (*document, error) {
	var raw map[string]any
	switch format {
	case FormatHCL:
		return parseHCL(parser, src, filename)
	case FormatYAML:
		if err := yaml.Unmarshal(src, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML file %s: %w", filename, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(src))
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON file %s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("unknown scene format %q", format)
	}
	doc, err := fromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid scene in %s: %w", filename, err)
	}
	return doc, nil
}

// Load reads a scene file, or every scene file below a directory, and
// validates entity IDs.
func Load(ctx context.Context, path string) (*scene.Snapshot, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading scene.", "path", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene %s: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, Extensions...)
		if err != nil {
			return nil, fmt.Errorf("failed to find scene files in %s: %w", path, err)
		}
		if len(files) == 0 {
			logger.Warn("No scene files found in path, returning empty scene.", "path", path)
			return scene.New(), nil
		}
	}

	parser := hclparse.NewParser()
	snap := scene.New()
	for _, file := range files {
		format, err := FormatOf(file)
		if err != nil {
			return nil, err
		}
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read scene file %s: %w", file, err)
		}
		doc, err := parse(parser, src, format, file)
		if err != nil {
			return nil, err
		}
		if doc.hasTitle {
			snap.Title = doc.snap.Title
		}
		if doc.hasParams {
			snap.Params = doc.snap.Params
		}
		snap.Merge(doc.snap)
		logger.Debug("Loaded scene file.", "file", file, "format", string(format), "entities", doc.snap.EntityCount())
	}

	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene %s: %w", path, err)
	}
	return snap, nil
}
