package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/TristanInSec/CodeDigest/internal/types"
)

// yamlCodec serializes the document as YAML. It shares the tagged struct set
// with the JSON codec, so the two key-value formats are mutually convertible.
type yamlCodec struct{}

func (yamlCodec) Format() string {
	return types.FormatYAML
}

func (yamlCodec) Marshal(document *types.Document) (string, error) {
	encoded, yamlEncodeError := yaml.Marshal(document)
	if yamlEncodeError != nil {
		return "", fmt.Errorf("encoding YAML document: %w", yamlEncodeError)
	}
	return string(encoded), nil
}

func (yamlCodec) Unmarshal(data []byte) (*types.Document, error) {
	var document types.Document
	if yamlDecodeError := yaml.Unmarshal(data, &document); yamlDecodeError != nil {
		return nil, fmt.Errorf("decoding YAML document: %w", yamlDecodeError)
	}
	return &document, nil
}
