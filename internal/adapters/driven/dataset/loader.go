package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Load reads records from path. The format follows the file extension:
// .json, .yaml or .yml.
func Load(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses a dataset in the format named by ext.
func Decode(data []byte, ext string) ([]domain.Record, error) {
	var records []domain.Record
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("parse json dataset: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse yaml dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("dataset entry %d: %w", i, err)
		}
	}
	return records, nil
}
