package digest

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/TristanInSec/CodeDigest/internal/types"
)

const (
	// warningReadDirectoryFormat is used when a directory cannot be listed.
	warningReadDirectoryFormat = "skipping unreadable directory %s: %v"
	// warningStatEntryFormat is used when an entry vanishes between listing and stat.
	warningStatEntryFormat = "skipping entry %s: %v"
	// warningResolveFormat is used when a symlink target cannot be resolved.
	warningResolveFormat = "skipping unresolvable link %s: %v"
	// warningSymlinkCycleFormat is used when a link points back into its own ancestry.
	warningSymlinkCycleFormat = "symlink cycle detected at %s, skipping subtree"

	// errorAbsolutePathFormat reports failure to resolve the scan root.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
)

// Walker enumerates a directory tree in deterministic order, consulting the
// filter to prune directories and files, and builds the in-memory tree model.
type Walker struct {
	filter *Filter
	logger *zap.Logger
}

// NewWalker constructs a Walker for the provided configuration.
func NewWalker(configuration Config, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		filter: NewFilter(configuration),
		logger: logger,
	}
}

// Walk builds the tree model rooted at the configuration's root path. The
// returned root node carries the relative path "." and the base name of the
// scan root. Traversal errors inside the tree are logged as warnings and
// never abort the walk; only a root that cannot be resolved is fatal.
func (walker *Walker) Walk(rootPath string) (*types.TreeNode, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}

	rootNode := &types.TreeNode{
		Path: ".",
		Name: filepath.Base(absoluteRootPath),
		Kind: types.NodeKindDirectory,
	}

	ancestorPaths := make(map[string]struct{})
	resolvedRootPath, resolveError := filepath.EvalSymlinks(absoluteRootPath)
	if resolveError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, resolveError)
	}
	ancestorPaths[resolvedRootPath] = struct{}{}

	walker.buildChildren(rootNode, absoluteRootPath, ancestorPaths)
	return rootNode, nil
}

// buildChildren lists a directory and attaches the surviving children to the
// parent node: directory children first, then file children, each group in
// the lexical byte order produced by os.ReadDir.
func (walker *Walker) buildChildren(parentNode *types.TreeNode, absoluteDirectoryPath string, ancestorPaths map[string]struct{}) {
	directoryEntries, readDirectoryError := os.ReadDir(absoluteDirectoryPath)
	if readDirectoryError != nil {
		walker.logger.Warn(fmt.Sprintf(warningReadDirectoryFormat, absoluteDirectoryPath, readDirectoryError))
		return
	}

	var directoryNodes []*types.TreeNode
	var fileNodes []*types.TreeNode

	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		childAbsolutePath := filepath.Join(absoluteDirectoryPath, entryName)
		childRelativePath := path.Join(parentNode.Path, entryName)

		isDirectory := directoryEntry.IsDir()
		var entryInformation fs.FileInfo
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			// Follow the link so the target decides the entry kind.
			targetInformation, statError := os.Stat(childAbsolutePath)
			if statError != nil {
				walker.logger.Warn(fmt.Sprintf(warningStatEntryFormat, childAbsolutePath, statError))
				continue
			}
			isDirectory = targetInformation.IsDir()
			entryInformation = targetInformation
		}

		if isDirectory {
			if !walker.filter.ShouldVisitDirectory(entryName) {
				continue
			}
			resolvedPath, resolveError := filepath.EvalSymlinks(childAbsolutePath)
			if resolveError != nil {
				walker.logger.Warn(fmt.Sprintf(warningResolveFormat, childAbsolutePath, resolveError))
				continue
			}
			if _, isAncestor := ancestorPaths[resolvedPath]; isAncestor {
				walker.logger.Warn(fmt.Sprintf(warningSymlinkCycleFormat, childAbsolutePath))
				continue
			}

			directoryNode := &types.TreeNode{
				Path: childRelativePath,
				Name: entryName,
				Kind: types.NodeKindDirectory,
			}
			ancestorPaths[resolvedPath] = struct{}{}
			walker.buildChildren(directoryNode, childAbsolutePath, ancestorPaths)
			delete(ancestorPaths, resolvedPath)
			directoryNodes = append(directoryNodes, directoryNode)
			continue
		}

		category := Classify(entryName)
		if !walker.filter.ShouldIncludeFile(entryName, category) {
			continue
		}

		if entryInformation == nil {
			resolvedInformation, informationError := directoryEntry.Info()
			if informationError != nil {
				walker.logger.Warn(fmt.Sprintf(warningStatEntryFormat, childAbsolutePath, informationError))
				continue
			}
			entryInformation = resolvedInformation
		}

		fileNodes = append(fileNodes, &types.TreeNode{
			Path:      childRelativePath,
			Name:      entryName,
			Kind:      types.NodeKindFile,
			Category:  category,
			SizeBytes: entryInformation.Size(),
		})
	}

	parentNode.Children = append(directoryNodes, fileNodes...)
}
