// Package output assembles the logical digest document and serializes it.
//
// All serializer backends share one document-assembly path (BuildDocument)
// and differ only in escaping and embedding rules, expressed through the
// Codec interface. That split is what guarantees the three formats describe
// an equivalent logical document.
package output

import (
	"sort"

	"github.com/TristanInSec/CodeDigest/internal/types"
)

// BuildDocument flattens the tree model into the format-independent document
// schema. Files appear in traversal order (directories first, alphabetical).
// The summary and structure sections are included only when provided; a nil
// summary or empty structure means the caller suppressed that section.
func BuildDocument(rootNode *types.TreeNode, summary *types.Summary, structure string) *types.Document {
	document := &types.Document{
		Root:      rootNode.Name,
		Structure: structure,
		Files:     []types.FileRecord{},
	}
	if summary != nil {
		document.Summary = buildDocumentSummary(summary)
	}
	appendFileRecords(rootNode, document)
	return document
}

func buildDocumentSummary(summary *types.Summary) *types.DocumentSummary {
	return &types.DocumentSummary{
		TotalFiles:  summary.TotalFiles,
		Categories:  sortedCountPairs(summary.Categories),
		Extensions:  sortedCountPairs(summary.Extensions),
		TotalTokens: summary.TotalTokens,
	}
}

// sortedCountPairs converts a count map into a name-sorted slice so every
// backend emits the counts in the same deterministic order.
func sortedCountPairs(counts map[string]int) []types.CountPair {
	pairs := make([]types.CountPair, 0, len(counts))
	for name, count := range counts {
		pairs = append(pairs, types.CountPair{Name: name, Count: count})
	}
	sort.Slice(pairs, func(leftIndex, rightIndex int) bool {
		return pairs[leftIndex].Name < pairs[rightIndex].Name
	})
	return pairs
}

func appendFileRecords(node *types.TreeNode, document *types.Document) {
	if node.IsDirectory() {
		for _, childNode := range node.Children {
			appendFileRecords(childNode, document)
		}
		return
	}
	record := types.FileRecord{
		Path:     node.Path,
		Category: node.Category,
		Size:     node.SizeBytes,
		Tokens:   node.Tokens,
	}
	if node.ContentLoaded {
		content := node.Content
		record.Content = &content
	}
	document.Files = append(document.Files, record)
}
