// Package types defines every cross-package data structure used by the codedigest CLI.
package types

const (
	NodeKindDirectory = "dir"
	NodeKindFile      = "file"

	CategoryText   = "text"
	CategoryBinary = "binary"
	CategoryOther  = "other"

	FormatXML  = "xml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// TreeNode is a tagged variant representing either a directory or a file in
// the scanned tree. Kind selects the variant; traversal and serialization
// switch on it explicitly. File fields are meaningful only when Kind is
// NodeKindFile, Children only when Kind is NodeKindDirectory.
type TreeNode struct {
	// Path is relative to the scan root, slash-separated. The root node's
	// path is ".".
	Path string
	Name string
	Kind string

	Category      string
	SizeBytes     int64
	Content       string
	ContentLoaded bool
	Tokens        int

	// Children holds directory children first, then file children, each
	// group alphabetically ordered by name in byte order.
	Children []*TreeNode
}

// IsDirectory reports whether the node represents a directory.
func (node *TreeNode) IsDirectory() bool {
	return node.Kind == NodeKindDirectory
}

// Summary aggregates statistics over the final, post-filter tree.
// It is computed once and never mutated afterwards.
type Summary struct {
	TotalFiles  int
	Categories  map[string]int
	Extensions  map[string]int
	TotalTokens int
}

// CountPair is a single name/count entry inside the serialized summary.
// Count slices are sorted by name so every output format is deterministic.
type CountPair struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// DocumentSummary is the summary section of the serialized document.
type DocumentSummary struct {
	TotalFiles  int         `json:"totalFiles" yaml:"totalFiles"`
	Categories  []CountPair `json:"categories" yaml:"categories"`
	Extensions  []CountPair `json:"extensions" yaml:"extensions"`
	TotalTokens int         `json:"totalTokens,omitempty" yaml:"totalTokens,omitempty"`
}

// FileRecord is one included file inside the serialized document. Content is
// nil for non-text files and non-nil (possibly empty) for text files whose
// content was embedded.
type FileRecord struct {
	Path     string  `json:"path" yaml:"path"`
	Category string  `json:"category" yaml:"category"`
	Size     int64   `json:"size" yaml:"size"`
	Content  *string `json:"content,omitempty" yaml:"content,omitempty"`
	Tokens   int     `json:"tokens,omitempty" yaml:"tokens,omitempty"`
}

// Document is the format-independent logical schema emitted by every
// serializer backend: an optional structure rendering, an optional summary,
// and the ordered list of included files.
type Document struct {
	Root      string           `json:"root" yaml:"root"`
	Structure string           `json:"structure,omitempty" yaml:"structure,omitempty"`
	Summary   *DocumentSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Files     []FileRecord     `json:"files" yaml:"files"`
}
