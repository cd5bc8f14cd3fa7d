package digest

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/TristanInSec/CodeDigest/internal/tokenizer"
	"github.com/TristanInSec/CodeDigest/internal/types"
	"github.com/TristanInSec/CodeDigest/internal/utils"
)

const (
	// warningFileReadFormat is used when a text candidate cannot be read.
	warningFileReadFormat = "failed to read %s, treating as binary: %v"
	// warningTokenCountFormat is used when token estimation fails for a file.
	warningTokenCountFormat = "failed to count tokens for %s: %v"
)

// Loader fills content for text-classified files. Extension classification
// is a hint; the loader confirms it by decoding and downgrades anything that
// is oversized, unreadable, or not valid text to types.CategoryBinary.
type Loader struct {
	filter          *Filter
	logger          *zap.Logger
	maxTextFileSize int64
	tokenCounter    tokenizer.Counter
}

// NewLoader constructs a Loader for the provided configuration. The token
// counter is optional; when nil, no token counts are attached.
func NewLoader(configuration Config, logger *zap.Logger, tokenCounter tokenizer.Counter) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		filter:          NewFilter(configuration),
		logger:          logger,
		maxTextFileSize: configuration.EffectiveMaxTextFileSize(),
		tokenCounter:    tokenCounter,
	}
}

// LoadTree populates Content on every text file node under the root. Nodes
// whose category is downgraded during loading are re-checked against the
// filter, so an only-text run never emits a file that turned out binary.
func (loader *Loader) LoadTree(rootNode *types.TreeNode, absoluteRootPath string) {
	loader.loadDirectory(rootNode, absoluteRootPath)
}

func (loader *Loader) loadDirectory(directoryNode *types.TreeNode, absoluteRootPath string) {
	survivingChildren := directoryNode.Children[:0]
	for _, childNode := range directoryNode.Children {
		if childNode.IsDirectory() {
			loader.loadDirectory(childNode, absoluteRootPath)
			survivingChildren = append(survivingChildren, childNode)
			continue
		}
		loader.loadFile(childNode, absoluteRootPath)
		if loader.filter.ShouldIncludeFile(childNode.Name, childNode.Category) {
			survivingChildren = append(survivingChildren, childNode)
		}
	}
	directoryNode.Children = survivingChildren
}

func (loader *Loader) loadFile(fileNode *types.TreeNode, absoluteRootPath string) {
	if fileNode.Category != types.CategoryText {
		return
	}
	if fileNode.SizeBytes > loader.maxTextFileSize {
		fileNode.Category = types.CategoryBinary
		return
	}

	absoluteFilePath := filepath.Join(absoluteRootPath, filepath.FromSlash(fileNode.Path))
	fileBytes, fileReadError := os.ReadFile(absoluteFilePath)
	if fileReadError != nil {
		loader.logger.Warn(fmt.Sprintf(warningFileReadFormat, absoluteFilePath, fileReadError))
		fileNode.Category = types.CategoryBinary
		return
	}
	if utils.IsBinary(fileBytes) {
		// Decode failure is silent: the extension hinted text, the bytes decide.
		fileNode.Category = types.CategoryBinary
		return
	}

	fileNode.Content = string(fileBytes)
	fileNode.ContentLoaded = true

	if loader.tokenCounter != nil {
		tokenCount, tokenCountError := loader.tokenCounter.CountString(fileNode.Content)
		if tokenCountError != nil {
			loader.logger.Warn(fmt.Sprintf(warningTokenCountFormat, absoluteFilePath, tokenCountError))
			return
		}
		fileNode.Tokens = tokenCount
	}
}
