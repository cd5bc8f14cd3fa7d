package digest

import (
	"path/filepath"
	"strings"

	"github.com/TristanInSec/CodeDigest/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix = "/"
)

// Summarize walks the final, post-filter tree once and derives per-category
// and per-extension counts plus the total file count. Directories are not
// counted as files. The result reflects post-load categories, including any
// decode-driven downgrades.
func Summarize(rootNode *types.TreeNode) *types.Summary {
	summary := &types.Summary{
		Categories: map[string]int{
			types.CategoryText:   0,
			types.CategoryBinary: 0,
			types.CategoryOther:  0,
		},
		Extensions: make(map[string]int),
	}
	accumulateSummary(rootNode, summary)
	return summary
}

func accumulateSummary(node *types.TreeNode, summary *types.Summary) {
	if node.IsDirectory() {
		for _, childNode := range node.Children {
			accumulateSummary(childNode, summary)
		}
		return
	}
	summary.TotalFiles++
	summary.Categories[node.Category]++
	summary.Extensions[strings.ToLower(filepath.Ext(node.Name))]++
	summary.TotalTokens += node.Tokens
}

// RenderStructure produces a deterministic human-readable listing of the
// tree, mirroring the node child ordering (directories first, alphabetical),
// with a branch glyph per depth. Directory names carry a trailing slash.
func RenderStructure(rootNode *types.TreeNode) string {
	var builder strings.Builder
	builder.WriteString(rootNode.Name + directorySuffix + "\n")
	renderStructureChildren(&builder, rootNode, "")
	return builder.String()
}

func renderStructureChildren(builder *strings.Builder, directoryNode *types.TreeNode, prefix string) {
	for childIndex, childNode := range directoryNode.Children {
		isLastChild := childIndex == len(directoryNode.Children)-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLastChild {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		label := childNode.Name
		if childNode.IsDirectory() {
			label += directorySuffix
		}
		builder.WriteString(prefix + connector + label + "\n")
		if childNode.IsDirectory() {
			renderStructureChildren(builder, childNode, childPrefix)
		}
	}
}
