package output

import (
	"encoding/xml"
	"fmt"

	"github.com/TristanInSec/CodeDigest/internal/types"
)

// xmlCodec serializes the document as tagged markup. File content is
// embedded inside CDATA sections so literal bytes survive without entity
// escaping (the encoder splits any "]]>" occurrence per the XML grammar);
// every other field is emitted as an escaped element or attribute.
type xmlCodec struct{}

type xmlDocument struct {
	XMLName   xml.Name         `xml:"repository"`
	Root      string           `xml:"name,attr"`
	Structure *xmlTextBlock    `xml:"directory_structure"`
	Summary   *xmlSummary      `xml:"summary"`
	Files     xmlFileContainer `xml:"files"`
}

type xmlSummary struct {
	TotalFiles  int            `xml:"totalFiles"`
	Categories  []xmlCountPair `xml:"categories>category"`
	Extensions  []xmlCountPair `xml:"extensions>extension"`
	TotalTokens int            `xml:"totalTokens,omitempty"`
}

type xmlCountPair struct {
	Name  string `xml:"name"`
	Count int    `xml:"count"`
}

// xmlFileContainer keeps the <files> wrapper element present even when the
// run produced no files, so the document shape is stable.
type xmlFileContainer struct {
	Files []xmlFileRecord `xml:"file"`
}

type xmlFileRecord struct {
	Path     string        `xml:"path"`
	Category string        `xml:"category"`
	Size     int64         `xml:"size"`
	Content  *xmlTextBlock `xml:"content"`
	Tokens   int           `xml:"tokens,omitempty"`
}

// xmlTextBlock embeds text verbatim as CDATA.
type xmlTextBlock struct {
	Value string `xml:",cdata"`
}

func (xmlCodec) Format() string {
	return types.FormatXML
}

func (xmlCodec) Marshal(document *types.Document) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(toXMLDocument(document), indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", fmt.Errorf("encoding XML document: %w", xmlMarshalError)
	}
	return xml.Header + string(encoded) + "\n", nil
}

func (xmlCodec) Unmarshal(data []byte) (*types.Document, error) {
	var decoded xmlDocument
	if xmlUnmarshalError := xml.Unmarshal(data, &decoded); xmlUnmarshalError != nil {
		return nil, fmt.Errorf("decoding XML document: %w", xmlUnmarshalError)
	}
	return fromXMLDocument(&decoded), nil
}

func toXMLDocument(document *types.Document) *xmlDocument {
	converted := &xmlDocument{Root: document.Root}
	if document.Structure != "" {
		converted.Structure = &xmlTextBlock{Value: document.Structure}
	}
	if document.Summary != nil {
		converted.Summary = &xmlSummary{
			TotalFiles:  document.Summary.TotalFiles,
			Categories:  toXMLCountPairs(document.Summary.Categories),
			Extensions:  toXMLCountPairs(document.Summary.Extensions),
			TotalTokens: document.Summary.TotalTokens,
		}
	}
	for _, record := range document.Files {
		convertedRecord := xmlFileRecord{
			Path:     record.Path,
			Category: record.Category,
			Size:     record.Size,
			Tokens:   record.Tokens,
		}
		if record.Content != nil {
			convertedRecord.Content = &xmlTextBlock{Value: *record.Content}
		}
		converted.Files.Files = append(converted.Files.Files, convertedRecord)
	}
	return converted
}

func fromXMLDocument(decoded *xmlDocument) *types.Document {
	document := &types.Document{
		Root:  decoded.Root,
		Files: []types.FileRecord{},
	}
	if decoded.Structure != nil {
		document.Structure = decoded.Structure.Value
	}
	if decoded.Summary != nil {
		document.Summary = &types.DocumentSummary{
			TotalFiles:  decoded.Summary.TotalFiles,
			Categories:  fromXMLCountPairs(decoded.Summary.Categories),
			Extensions:  fromXMLCountPairs(decoded.Summary.Extensions),
			TotalTokens: decoded.Summary.TotalTokens,
		}
	}
	for _, decodedRecord := range decoded.Files.Files {
		record := types.FileRecord{
			Path:     decodedRecord.Path,
			Category: decodedRecord.Category,
			Size:     decodedRecord.Size,
			Tokens:   decodedRecord.Tokens,
		}
		if decodedRecord.Content != nil {
			content := decodedRecord.Content.Value
			record.Content = &content
		}
		document.Files = append(document.Files, record)
	}
	return document
}

func toXMLCountPairs(pairs []types.CountPair) []xmlCountPair {
	converted := make([]xmlCountPair, 0, len(pairs))
	for _, pair := range pairs {
		converted = append(converted, xmlCountPair{Name: pair.Name, Count: pair.Count})
	}
	return converted
}

func fromXMLCountPairs(pairs []xmlCountPair) []types.CountPair {
	converted := make([]types.CountPair, 0, len(pairs))
	for _, pair := range pairs {
		converted = append(converted, types.CountPair{Name: pair.Name, Count: pair.Count})
	}
	return converted
}
