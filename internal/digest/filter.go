package digest

import (
	"path/filepath"
	"strings"

	"github.com/TristanInSec/CodeDigest/internal/types"
	"github.com/TristanInSec/CodeDigest/internal/utils"
)

// Filter applies the include/exclude rules of a run. It is compiled once
// from the configuration and consulted for every directory and file; no
// file content is ever read to make a filtering decision.
type Filter struct {
	includeExtensions   map[string]struct{}
	excludedDirectories map[string]struct{}
	skipOther           bool
	onlyText            bool
}

// NewFilter compiles the filtering rules from the configuration.
func NewFilter(configuration Config) *Filter {
	filter := &Filter{
		excludedDirectories: make(map[string]struct{}),
		skipOther:           configuration.SkipOther,
		onlyText:            configuration.OnlyText,
	}
	for _, directoryName := range configuration.EffectiveExcludedDirectories() {
		trimmedName := strings.TrimSpace(directoryName)
		if trimmedName == "" {
			continue
		}
		filter.excludedDirectories[trimmedName] = struct{}{}
	}
	if len(configuration.IncludeExtensions) > 0 {
		filter.includeExtensions = make(map[string]struct{})
		for _, extension := range configuration.IncludeExtensions {
			normalizedExtension := utils.NormalizeExtension(extension)
			if normalizedExtension == "" {
				continue
			}
			filter.includeExtensions[normalizedExtension] = struct{}{}
		}
		if len(filter.includeExtensions) == 0 {
			filter.includeExtensions = nil
		}
	}
	return filter
}

// ShouldVisitDirectory reports whether traversal may descend into the named
// directory. A false result prunes the entire subtree: excluded directories
// such as dependency caches are never listed, regardless of size or depth.
// Matching is an exact name comparison evaluated per path segment.
func (filter *Filter) ShouldVisitDirectory(directoryName string) bool {
	_, isExcluded := filter.excludedDirectories[directoryName]
	return !isExcluded
}

// ShouldIncludeFile reports whether a file with the given name and category
// is emitted. The decision uses only the name and the already-computed
// category.
func (filter *Filter) ShouldIncludeFile(fileName string, category string) bool {
	if filter.includeExtensions != nil {
		extension := strings.ToLower(filepath.Ext(fileName))
		if _, isIncluded := filter.includeExtensions[extension]; !isIncluded {
			return false
		}
	}
	if filter.skipOther && category == types.CategoryOther {
		return false
	}
	if filter.onlyText && category != types.CategoryText {
		return false
	}
	return true
}
