package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/umlflow/pkg/errors"
)

// Format is a diagram serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported diagram file %q (want .json, .yaml or .yml)", filepath.Base(path))
	}
}

// Read decodes a diagram in the given format from r.
//
// The input must be an object with a "flow" array and a "logicalConnections"
// (or "relationships") array:
//
//	{
//	  "flow": [{"id": "s", "type": "start"}, {"id": "a", "type": "activity", "text": "Review"}],
//	  "logicalConnections": [{"sourceId": "s", "targetId": "a"}]
//	}
//
// Unknown fields are ignored. Read does not close r.
func Read(r io.Reader, format Format) (Diagram, error) {
	var d Diagram
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return Diagram{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json diagram")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&d); err != nil {
			if err == io.EOF {
				return Diagram{}, errors.New(errors.ErrCodeInvalidFormat, "empty yaml diagram")
			}
			return Diagram{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml diagram")
		}
	default:
		return Diagram{}, errors.New(errors.ErrCodeUnsupported, "unsupported diagram format %q", format)
	}
	return d, nil
}

// Parse decodes a diagram held in memory.
func Parse(data []byte, format Format) (Diagram, error) {
	return Read(bytes.NewReader(data), format)
}

// ReadFile reads the diagram at path, picking the format from its extension.
func ReadFile(path string) (Diagram, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Diagram{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Diagram{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "diagram %s not found", path)
		}
		return Diagram{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(f, format)
	if err != nil {
		return Diagram{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteJSON encodes d as indented JSON.
func WriteJSON(d Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
