package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"repomanage/internal/domain"
)

// JSONCodec handles JSON snapshot import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a snapshot from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &snapshot, nil
}

// Export exports a snapshot to JSON
func (c *JSONCodec) Export(snapshot *domain.Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
