package output

import (
	"fmt"

	"github.com/TristanInSec/CodeDigest/internal/types"
)

// Codec is the format strategy of a serializer backend: it turns the shared
// document model into serialized bytes and back. Marshal output always ends
// with a newline so it can be written to disk verbatim.
type Codec interface {
	Format() string
	Marshal(document *types.Document) (string, error)
	Unmarshal(data []byte) (*types.Document, error)
}

// errorUnknownCodecFormat reports a format with no registered codec.
const errorUnknownCodecFormat = "no codec registered for format '%s'"

// CodecForFormat returns the codec implementing the named format.
func CodecForFormat(format string) (Codec, error) {
	switch format {
	case types.FormatXML:
		return xmlCodec{}, nil
	case types.FormatJSON:
		return jsonCodec{}, nil
	case types.FormatYAML:
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf(errorUnknownCodecFormat, format)
	}
}
