package export

import (
	"encoding/json"
	"fmt"
)

// JSONExporter serializes export payloads as pretty-printed JSON.
type JSONExporter struct{}

// NewJSONExporter builds a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Render marshals the payload with two-space indentation.
func (e *JSONExporter) Render(payload interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return out, nil
}
