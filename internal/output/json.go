package output

import (
	"encoding/json"
	"fmt"

	"github.com/TristanInSec/CodeDigest/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
)

// jsonCodec serializes the document as indented JSON. Content strings rely
// on the standard JSON escaping of control and quote characters.
type jsonCodec struct{}

func (jsonCodec) Format() string {
	return types.FormatJSON
}

func (jsonCodec) Marshal(document *types.Document) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(document, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", fmt.Errorf("encoding JSON document: %w", jsonEncodeError)
	}
	return string(encoded) + "\n", nil
}

func (jsonCodec) Unmarshal(data []byte) (*types.Document, error) {
	var document types.Document
	if jsonDecodeError := json.Unmarshal(data, &document); jsonDecodeError != nil {
		return nil, fmt.Errorf("decoding JSON document: %w", jsonDecodeError)
	}
	return &document, nil
}
