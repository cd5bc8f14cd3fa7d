// Package digest contains the core traversal, classification, and aggregation pipeline.
package digest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TristanInSec/CodeDigest/internal/types"
)

// DefaultMaxTextFileSize bounds how large a file may be before the content
// loader treats it as binary instead of embedding it. Overridable per run
// through Config.MaxTextFileSize.
const DefaultMaxTextFileSize int64 = 10 << 20

// defaultExcludedDirectories lists directory names pruned from traversal when
// the caller does not override the exclude set. The table is process-wide
// constant data.
var defaultExcludedDirectories = []string{
	".git",
	"__pycache__",
	".venv",
	"node_modules",
	".idea",
	"docs",
	"outputs",
}

const (
	// errorRootMissingFormat reports a nonexistent scan root.
	errorRootMissingFormat = "root path '%s' does not exist"
	// errorRootNotDirectoryFormat reports a scan root that is not a directory.
	errorRootNotDirectoryFormat = "root path '%s' is not a directory"
	// errorRootStatFormat reports a failure to stat the scan root.
	errorRootStatFormat = "stat failed for root path '%s': %w"
	// errorUnsupportedFormatValue reports an unrecognized output format.
	errorUnsupportedFormatValue = "unsupported output format '%s'"
	// errorUnsupportedExtensionFormat reports an output path whose extension selects no format.
	errorUnsupportedExtensionFormat = "unsupported output extension '%s'; use .xml, .json, .yaml, or .yml"
)

// Config is the fully-resolved configuration consumed by the core pipeline.
// The CLI layer is responsible for deriving it from flags and configuration
// files; the core treats it as immutable input.
type Config struct {
	// RootPath is the directory to scan.
	RootPath string
	// Format selects the serializer backend: types.FormatXML, FormatJSON, or FormatYAML.
	Format string
	// IncludeExtensions restricts the emitted files to the listed extensions.
	// Empty means every file is a candidate.
	IncludeExtensions []string
	// ExcludeDirectories lists directory names pruned from traversal.
	// Nil means the default table; an explicit empty slice disables pruning.
	ExcludeDirectories []string
	SkipOther          bool
	OnlyText           bool
	NoSummary          bool
	NoStructure        bool
	// MaxTextFileSize caps embedded text file size in bytes; zero selects
	// DefaultMaxTextFileSize.
	MaxTextFileSize int64

	// CountTokens enables per-file and aggregate token estimation.
	CountTokens bool
	// TokenizerModel names the model whose tokenizer is used when CountTokens is set.
	TokenizerModel string
}

// DefaultExcludedDirectories returns a copy of the built-in exclude table.
func DefaultExcludedDirectories() []string {
	copied := make([]string, len(defaultExcludedDirectories))
	copy(copied, defaultExcludedDirectories)
	return copied
}

// EffectiveExcludedDirectories resolves the exclude set honoring the
// nil-means-default convention.
func (configuration Config) EffectiveExcludedDirectories() []string {
	if configuration.ExcludeDirectories == nil {
		return DefaultExcludedDirectories()
	}
	return configuration.ExcludeDirectories
}

// EffectiveMaxTextFileSize resolves the oversize threshold.
func (configuration Config) EffectiveMaxTextFileSize() int64 {
	if configuration.MaxTextFileSize <= 0 {
		return DefaultMaxTextFileSize
	}
	return configuration.MaxTextFileSize
}

// Validate checks the configuration before any traversal begins. Violations
// are configuration errors and fatal to the run.
func (configuration Config) Validate() error {
	switch configuration.Format {
	case types.FormatXML, types.FormatJSON, types.FormatYAML:
	default:
		return fmt.Errorf(errorUnsupportedFormatValue, configuration.Format)
	}

	rootInformation, rootStatError := os.Stat(configuration.RootPath)
	if rootStatError != nil {
		if os.IsNotExist(rootStatError) {
			return fmt.Errorf(errorRootMissingFormat, configuration.RootPath)
		}
		return fmt.Errorf(errorRootStatFormat, configuration.RootPath, rootStatError)
	}
	if !rootInformation.IsDir() {
		return fmt.Errorf(errorRootNotDirectoryFormat, configuration.RootPath)
	}
	return nil
}

// FormatFromPath derives the output format from the output file extension.
func FormatFromPath(outputPath string) (string, error) {
	extension := strings.ToLower(filepath.Ext(outputPath))
	switch extension {
	case ".xml":
		return types.FormatXML, nil
	case ".json":
		return types.FormatJSON, nil
	case ".yaml", ".yml":
		return types.FormatYAML, nil
	default:
		return "", fmt.Errorf(errorUnsupportedExtensionFormat, extension)
	}
}
