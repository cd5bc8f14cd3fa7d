package digest

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/TristanInSec/CodeDigest/internal/output"
	"github.com/TristanInSec/CodeDigest/internal/tokenizer"
	"github.com/TristanInSec/CodeDigest/internal/types"
)

// Result carries everything a run produced: the tree-derived document, the
// aggregate summary (nil when suppressed), and the serialized output ready
// to be written in a single atomic operation.
type Result struct {
	Document *types.Document
	Summary  *types.Summary
	Rendered string
	// TokenizerModel is the resolved tokenizer name when token counting ran.
	TokenizerModel string
}

// Run executes the full pipeline: validate configuration, walk the tree,
// load text content, derive summary and structure, and serialize. Traversal
// and decode problems surface as warnings on the logger; only configuration
// and serialization errors fail the run.
func Run(configuration Config, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validationError := configuration.Validate(); validationError != nil {
		return nil, validationError
	}

	var tokenCounter tokenizer.Counter
	var tokenizerModel string
	if configuration.CountTokens {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: configuration.TokenizerModel})
		if counterError != nil {
			return nil, counterError
		}
		tokenCounter = createdCounter
		tokenizerModel = resolvedModel
	}

	walker := NewWalker(configuration, logger)
	rootNode, walkError := walker.Walk(configuration.RootPath)
	if walkError != nil {
		return nil, walkError
	}

	absoluteRootPath, absolutePathError := filepath.Abs(configuration.RootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, configuration.RootPath, absolutePathError)
	}
	loader := NewLoader(configuration, logger, tokenCounter)
	loader.LoadTree(rootNode, absoluteRootPath)

	var summary *types.Summary
	if !configuration.NoSummary {
		summary = Summarize(rootNode)
	}
	var structure string
	if !configuration.NoStructure {
		structure = RenderStructure(rootNode)
	}

	document := output.BuildDocument(rootNode, summary, structure)
	codec, codecError := output.CodecForFormat(configuration.Format)
	if codecError != nil {
		return nil, codecError
	}
	rendered, marshalError := codec.Marshal(document)
	if marshalError != nil {
		return nil, marshalError
	}

	return &Result{
		Document:       document,
		Summary:        summary,
		Rendered:       rendered,
		TokenizerModel: tokenizerModel,
	}, nil
}
