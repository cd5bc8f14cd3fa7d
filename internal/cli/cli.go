// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TristanInSec/CodeDigest/internal/config"
	"github.com/TristanInSec/CodeDigest/internal/digest"
	"github.com/TristanInSec/CodeDigest/internal/services/clipboard"
	"github.com/TristanInSec/CodeDigest/internal/types"
	"github.com/TristanInSec/CodeDigest/internal/utils"
)

const (
	pathFlagName        = "path"
	outputFlagName      = "output"
	timestampFlagName   = "timestamp"
	includeExtFlagName  = "include-ext"
	excludeDirFlagName  = "exclude-dir"
	skipOtherFlagName   = "skip-other"
	onlyTextFlagName    = "only-text"
	noSummaryFlagName   = "no-summary"
	noStructureFlagName = "no-structure"
	maxTextSizeFlagName = "max-text-size"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	clipboardFlagName   = "clipboard"
	configFlagName      = "config"
	globalFlagName      = "global"
	forceFlagName       = "force"

	pathFlagDescription        = "repository root path to scan"
	outputFlagDescription      = "output file (.xml, .json, .yaml, or .yml)"
	timestampFlagDescription   = "insert a timestamp into the output filename"
	includeExtFlagDescription  = "restrict emitted files to these extensions (repeatable)"
	excludeDirFlagDescription  = "directory names to exclude (repeatable, replaces the default set)"
	skipOtherFlagDescription   = "skip files of unrecognized category"
	onlyTextFlagDescription    = "include only text files"
	noSummaryFlagDescription   = "disable the summary section"
	noStructureFlagDescription = "disable the directory structure section"
	maxTextSizeFlagDescription = "maximum embedded text file size in bytes (0 uses the built-in limit)"
	tokensFlagDescription      = "include token counts for embedded text content"
	modelFlagDescription       = "tokenizer model used for token counting"
	clipboardFlagDescription   = "copy the rendered digest to the clipboard"
	configFlagDescription      = "explicit configuration file path"
	globalFlagDescription      = "write the global configuration file"
	forceFlagDescription       = "overwrite an existing configuration file"

	versionTemplate = "codedigest version: {{.Version}}\n"

	rootUse              = "codedigest"
	rootShortDescription = "aggregate a repository into one XML, JSON, or YAML document"
	rootLongDescription  = `codedigest recursively scans a source repository and exports its structure
and contents into a single AI-friendly document. Text files are embedded
verbatim, binaries are referenced by path and size, and the output format is
selected by the output file extension.`
	rootUsageExample = `  # Digest the current directory into XML
  codedigest --path . --output digest.xml

  # Text files only, JSON output with a timestamped filename
  codedigest --path ./repo --output digest.json --only-text --timestamp

  # Restrict to specific extensions and exclude extra directories
  codedigest --path ./repo --output digest.yaml --include-ext .tex --include-ext .bib --exclude-dir .venv`

	configUse                  = "config"
	configShortDescription     = "manage configuration files"
	configInitUse              = "init"
	configInitShortDescription = "write a default configuration file"

	// errorOutputDirectoryFormat reports an unusable output location before traversal starts.
	errorOutputDirectoryFormat = "output directory '%s' does not exist"
	// warningClipboardFormat reports a failed clipboard copy.
	warningClipboardFormat = "failed to copy digest to clipboard: %v"

	statisticsHeader      = "[+] File Statistics"
	statisticsTypeBranch  = "    ├── By Type:"
	statisticsExtBranch   = "    └── By Extension:"
	statisticsTypeFormat  = "    │    %s %-7s: %d\n"
	statisticsExtFormat   = "         %s %-7s: %d\n"
	statisticsNoExtension = "(none)"
)

// Execute runs the codedigest application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// digestOptions stores the flag values of the root command.
type digestOptions struct {
	rootPath           string
	outputPath         string
	timestampEnabled   bool
	includeExtensions  []string
	excludeDirectories []string
	skipOther          bool
	onlyText           bool
	noSummary          bool
	noStructure        bool
	maxTextFileSize    int64
	tokensEnabled      bool
	tokenizerModel     string
	clipboardEnabled   bool
	configFilePath     string
}

// createRootCommand builds the root cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var options digestOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Version:      utils.GetApplicationVersion(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runDigest(command, &options, logger)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)

	rootCommand.Flags().StringVar(&options.rootPath, pathFlagName, ".", pathFlagDescription)
	rootCommand.Flags().StringVar(&options.outputPath, outputFlagName, "", outputFlagDescription)
	rootCommand.Flags().BoolVar(&options.timestampEnabled, timestampFlagName, false, timestampFlagDescription)
	rootCommand.Flags().StringArrayVar(&options.includeExtensions, includeExtFlagName, nil, includeExtFlagDescription)
	rootCommand.Flags().StringArrayVar(&options.excludeDirectories, excludeDirFlagName, nil, excludeDirFlagDescription)
	rootCommand.Flags().BoolVar(&options.skipOther, skipOtherFlagName, false, skipOtherFlagDescription)
	rootCommand.Flags().BoolVar(&options.onlyText, onlyTextFlagName, false, onlyTextFlagDescription)
	rootCommand.Flags().BoolVar(&options.noSummary, noSummaryFlagName, false, noSummaryFlagDescription)
	rootCommand.Flags().BoolVar(&options.noStructure, noStructureFlagName, false, noStructureFlagDescription)
	rootCommand.Flags().Int64Var(&options.maxTextFileSize, maxTextSizeFlagName, 0, maxTextSizeFlagDescription)
	rootCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, "", modelFlagDescription)
	rootCommand.Flags().BoolVar(&options.clipboardEnabled, clipboardFlagName, false, clipboardFlagDescription)
	rootCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	_ = rootCommand.MarkFlagRequired(outputFlagName)

	rootCommand.AddCommand(createConfigCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createConfigCommand returns the config subcommand with its init child.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
	}

	var useGlobal bool
	var force bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if useGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initializeError != nil {
				return initializeError
			}
			fmt.Printf("Configuration written to %s\n", writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&useGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}

// runDigest resolves flags against configuration files, executes the core
// pipeline, and writes the rendered document in a single atomic write.
func runDigest(command *cobra.Command, options *digestOptions, logger *zap.Logger) error {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configFilePath})
	if loadError != nil {
		return loadError
	}
	resolved := resolveOptions(command, options, applicationConfiguration.Digest)

	outputPath := resolved.outputPath
	if resolved.timestampEnabled {
		outputPath = utils.TimestampedPath(outputPath, time.Now())
	}
	outputFormat, formatError := digest.FormatFromPath(outputPath)
	if formatError != nil {
		return formatError
	}
	outputDirectory := filepath.Dir(outputPath)
	if directoryInformation, statError := os.Stat(outputDirectory); statError != nil || !directoryInformation.IsDir() {
		return fmt.Errorf(errorOutputDirectoryFormat, outputDirectory)
	}

	coreConfiguration := digest.Config{
		RootPath:           resolved.rootPath,
		Format:             outputFormat,
		IncludeExtensions:  resolved.includeExtensions,
		ExcludeDirectories: resolved.excludeDirectories,
		SkipOther:          resolved.skipOther,
		OnlyText:           resolved.onlyText,
		NoSummary:          resolved.noSummary,
		NoStructure:        resolved.noStructure,
		MaxTextFileSize:    resolved.maxTextFileSize,
		CountTokens:        resolved.tokensEnabled,
		TokenizerModel:     resolved.tokenizerModel,
	}

	logger.Info("starting digest",
		zap.String("root", resolved.rootPath),
		zap.String("output", outputPath),
		zap.String("format", outputFormat),
		zap.Bool("only_text", resolved.onlyText),
		zap.Bool("skip_other", resolved.skipOther),
		zap.Bool("summary", !resolved.noSummary),
		zap.Bool("structure", !resolved.noStructure),
		zap.Strings("include_ext", resolved.includeExtensions),
		zap.Strings("exclude_dir", coreConfiguration.EffectiveExcludedDirectories()),
	)

	result, runError := digest.Run(coreConfiguration, logger)
	if runError != nil {
		return runError
	}

	if writeError := os.WriteFile(outputPath, []byte(result.Rendered), 0o644); writeError != nil {
		return fmt.Errorf("writing digest to %s: %w", outputPath, writeError)
	}

	if resolved.clipboardEnabled {
		if clipboardError := clipboard.NewService().Copy(result.Rendered); clipboardError != nil {
			logger.Warn(fmt.Sprintf(warningClipboardFormat, clipboardError))
		}
	}

	if result.Summary != nil {
		printStatistics(command.OutOrStdout(), result.Summary)
	}
	logger.Info("digest written",
		zap.String("path", outputPath),
		zap.String("size", utils.FormatFileSize(int64(len(result.Rendered)))),
	)
	return nil
}

// resolveOptions overlays flag values onto configuration-file defaults.
// A flag only overrides the file when the user actually set it.
func resolveOptions(command *cobra.Command, options *digestOptions, fileConfiguration config.DigestConfiguration) digestOptions {
	resolved := *options
	flags := command.Flags()

	if !flags.Changed(noSummaryFlagName) && fileConfiguration.Summary != nil {
		resolved.noSummary = !*fileConfiguration.Summary
	}
	if !flags.Changed(noStructureFlagName) && fileConfiguration.Structure != nil {
		resolved.noStructure = !*fileConfiguration.Structure
	}
	if !flags.Changed(skipOtherFlagName) && fileConfiguration.SkipOther != nil {
		resolved.skipOther = *fileConfiguration.SkipOther
	}
	if !flags.Changed(onlyTextFlagName) && fileConfiguration.OnlyText != nil {
		resolved.onlyText = *fileConfiguration.OnlyText
	}
	if !flags.Changed(timestampFlagName) && fileConfiguration.Timestamp != nil {
		resolved.timestampEnabled = *fileConfiguration.Timestamp
	}
	if !flags.Changed(clipboardFlagName) && fileConfiguration.Clipboard != nil {
		resolved.clipboardEnabled = *fileConfiguration.Clipboard
	}
	if !flags.Changed(includeExtFlagName) && len(fileConfiguration.IncludeExtensions) > 0 {
		resolved.includeExtensions = fileConfiguration.IncludeExtensions
	}
	if !flags.Changed(excludeDirFlagName) && len(fileConfiguration.ExcludeDirectories) > 0 {
		resolved.excludeDirectories = fileConfiguration.ExcludeDirectories
	}
	if !flags.Changed(maxTextSizeFlagName) && fileConfiguration.MaxTextFileSize != nil {
		resolved.maxTextFileSize = *fileConfiguration.MaxTextFileSize
	}
	if !flags.Changed(tokensFlagName) && fileConfiguration.Tokens.Enabled != nil {
		resolved.tokensEnabled = *fileConfiguration.Tokens.Enabled
	}
	if !flags.Changed(modelFlagName) && fileConfiguration.Tokens.Model != "" {
		resolved.tokenizerModel = fileConfiguration.Tokens.Model
	}
	return resolved
}

// printStatistics renders the per-category and per-extension counts in the
// nested branch form the tool has always printed after a run.
func printStatistics(writer io.Writer, summary *types.Summary) {
	fmt.Fprintln(writer, statisticsHeader)

	categoryNames := sortedKeys(summary.Categories)
	fmt.Fprintln(writer, statisticsTypeBranch)
	for index, categoryName := range categoryNames {
		branch := treeBranchGlyph(index, len(categoryNames))
		fmt.Fprintf(writer, statisticsTypeFormat, branch, categoryName, summary.Categories[categoryName])
	}

	if len(summary.Extensions) > 0 {
		extensionNames := sortedKeys(summary.Extensions)
		fmt.Fprintln(writer, statisticsExtBranch)
		for index, extensionName := range extensionNames {
			label := extensionName
			if label == "" {
				label = statisticsNoExtension
			}
			branch := treeBranchGlyph(index, len(extensionNames))
			fmt.Fprintf(writer, statisticsExtFormat, branch, label, summary.Extensions[extensionName])
		}
	}
}

func treeBranchGlyph(index, total int) string {
	if index < total-1 {
		return "├──"
	}
	return "└──"
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
