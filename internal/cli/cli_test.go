package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/TristanInSec/CodeDigest/internal/output"
	"github.com/TristanInSec/CodeDigest/internal/types"
)

// prepareFixtureRepository writes a small mixed tree for end-to-end runs.
func prepareFixtureRepository(testingInstance *testing.T) string {
	testingInstance.Helper()
	rootDirectory := testingInstance.TempDir()
	sourceDirectory := filepath.Join(rootDirectory, "src")
	if mkdirError := os.MkdirAll(sourceDirectory, 0o755); mkdirError != nil {
		testingInstance.Fatalf("creating fixture directory: %v", mkdirError)
	}
	if writeError := os.WriteFile(filepath.Join(sourceDirectory, "main.py"), []byte("print(1)"), 0o644); writeError != nil {
		testingInstance.Fatalf("writing fixture file: %v", writeError)
	}
	if writeError := os.WriteFile(filepath.Join(rootDirectory, "image.png"), make([]byte, 100), 0o644); writeError != nil {
		testingInstance.Fatalf("writing fixture file: %v", writeError)
	}
	return rootDirectory
}

// executeRootCommand runs the root command with the provided arguments and
// returns its standard output.
func executeRootCommand(testingInstance *testing.T, arguments []string) (string, error) {
	testingInstance.Helper()
	testingInstance.Setenv("HOME", testingInstance.TempDir())

	var outputBuffer bytes.Buffer
	command := createRootCommand(zap.NewNop())
	command.SetOut(&outputBuffer)
	command.SetErr(&outputBuffer)
	command.SetArgs(arguments)
	executeError := command.Execute()
	return outputBuffer.String(), executeError
}

// TestRootCommandWritesDigest verifies the full flag-to-file flow.
func TestRootCommandWritesDigest(testingInstance *testing.T) {
	rootDirectory := prepareFixtureRepository(testingInstance)
	outputPath := filepath.Join(testingInstance.TempDir(), "digest.xml")

	commandOutput, executeError := executeRootCommand(testingInstance, []string{
		"--path", rootDirectory,
		"--output", outputPath,
	})
	if executeError != nil {
		testingInstance.Fatalf("unexpected execution error: %v\n%s", executeError, commandOutput)
	}

	renderedBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testingInstance.Fatalf("digest file missing: %v", readError)
	}
	codec, codecError := output.CodecForFormat(types.FormatXML)
	if codecError != nil {
		testingInstance.Fatalf("unexpected codec error: %v", codecError)
	}
	document, unmarshalError := codec.Unmarshal(renderedBytes)
	if unmarshalError != nil {
		testingInstance.Fatalf("digest file does not parse: %v", unmarshalError)
	}
	if len(document.Files) != 2 {
		testingInstance.Fatalf("expected 2 records, got %+v", document.Files)
	}
	if document.Files[0].Path != "src/main.py" || document.Files[0].Content == nil || *document.Files[0].Content != "print(1)" {
		testingInstance.Errorf("unexpected text record: %+v", document.Files[0])
	}
	if document.Files[1].Path != "image.png" || document.Files[1].Content != nil {
		testingInstance.Errorf("unexpected binary record: %+v", document.Files[1])
	}

	if !strings.Contains(commandOutput, "[+] File Statistics") {
		testingInstance.Errorf("expected statistics output, got:\n%s", commandOutput)
	}
}

// TestRootCommandOnlyTextJSON verifies category filtering combined with the
// JSON backend.
func TestRootCommandOnlyTextJSON(testingInstance *testing.T) {
	rootDirectory := prepareFixtureRepository(testingInstance)
	outputPath := filepath.Join(testingInstance.TempDir(), "digest.json")

	commandOutput, executeError := executeRootCommand(testingInstance, []string{
		"--path", rootDirectory,
		"--output", outputPath,
		"--only-text",
		"--no-structure",
	})
	if executeError != nil {
		testingInstance.Fatalf("unexpected execution error: %v\n%s", executeError, commandOutput)
	}

	renderedBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testingInstance.Fatalf("digest file missing: %v", readError)
	}
	codec, _ := output.CodecForFormat(types.FormatJSON)
	document, unmarshalError := codec.Unmarshal(renderedBytes)
	if unmarshalError != nil {
		testingInstance.Fatalf("digest file does not parse: %v", unmarshalError)
	}
	if len(document.Files) != 1 || document.Files[0].Path != "src/main.py" {
		testingInstance.Fatalf("expected only the text file, got %+v", document.Files)
	}
	if document.Structure != "" {
		testingInstance.Errorf("expected suppressed structure")
	}
}

// TestRootCommandVersionFlag verifies that --version prints the version and
// returns without requiring the output flag or running a digest.
func TestRootCommandVersionFlag(testingInstance *testing.T) {
	commandOutput, executeError := executeRootCommand(testingInstance, []string{"--version"})
	if executeError != nil {
		testingInstance.Fatalf("unexpected execution error: %v\n%s", executeError, commandOutput)
	}
	if !strings.HasPrefix(commandOutput, "codedigest version: ") {
		testingInstance.Errorf("unexpected version output: %q", commandOutput)
	}
}

// TestRootCommandRequiresOutput verifies the output flag is mandatory.
func TestRootCommandRequiresOutput(testingInstance *testing.T) {
	rootDirectory := prepareFixtureRepository(testingInstance)
	if _, executeError := executeRootCommand(testingInstance, []string{"--path", rootDirectory}); executeError == nil {
		testingInstance.Fatalf("expected error when output flag is missing")
	}
}

// TestRootCommandRejectsUnknownExtension verifies format selection failures
// surface before any traversal.
func TestRootCommandRejectsUnknownExtension(testingInstance *testing.T) {
	rootDirectory := prepareFixtureRepository(testingInstance)
	outputPath := filepath.Join(testingInstance.TempDir(), "digest.toml")
	if _, executeError := executeRootCommand(testingInstance, []string{"--path", rootDirectory, "--output", outputPath}); executeError == nil {
		testingInstance.Fatalf("expected error for unsupported output extension")
	}
}

// TestRootCommandRejectsMissingOutputDirectory verifies the pre-traversal
// output location check.
func TestRootCommandRejectsMissingOutputDirectory(testingInstance *testing.T) {
	rootDirectory := prepareFixtureRepository(testingInstance)
	outputPath := filepath.Join(testingInstance.TempDir(), "missing", "digest.xml")
	if _, executeError := executeRootCommand(testingInstance, []string{"--path", rootDirectory, "--output", outputPath}); executeError == nil {
		testingInstance.Fatalf("expected error for missing output directory")
	}
}

// TestResolveOptionsPrecedence verifies that explicitly set flags win over
// configuration file values while unset flags inherit them.
func TestResolveOptionsPrecedence(testingInstance *testing.T) {
	rootDirectory := prepareFixtureRepository(testingInstance)
	workingDirectory := testingInstance.TempDir()
	testingInstance.Setenv("HOME", testingInstance.TempDir())
	previousWorkingDirectory, getwdError := os.Getwd()
	if getwdError != nil {
		testingInstance.Fatalf("reading working directory: %v", getwdError)
	}
	if chdirError := os.Chdir(workingDirectory); chdirError != nil {
		testingInstance.Fatalf("changing working directory: %v", chdirError)
	}
	testingInstance.Cleanup(func() {
		if chdirError := os.Chdir(previousWorkingDirectory); chdirError != nil {
			testingInstance.Errorf("restoring working directory: %v", chdirError)
		}
	})

	localConfiguration := "digest:\n  structure: false\n  only_text: true\n"
	if writeError := os.WriteFile(filepath.Join(workingDirectory, ".codedigest.yaml"), []byte(localConfiguration), 0o600); writeError != nil {
		testingInstance.Fatalf("writing configuration fixture: %v", writeError)
	}

	outputPath := filepath.Join(testingInstance.TempDir(), "digest.json")
	var outputBuffer bytes.Buffer
	command := createRootCommand(zap.NewNop())
	command.SetOut(&outputBuffer)
	command.SetErr(&outputBuffer)
	// only-text comes from the file, the explicit flag re-enables structure.
	command.SetArgs([]string{"--path", rootDirectory, "--output", outputPath, "--no-structure=false"})
	if executeError := command.Execute(); executeError != nil {
		testingInstance.Fatalf("unexpected execution error: %v\n%s", executeError, outputBuffer.String())
	}

	renderedBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testingInstance.Fatalf("digest file missing: %v", readError)
	}
	codec, _ := output.CodecForFormat(types.FormatJSON)
	document, unmarshalError := codec.Unmarshal(renderedBytes)
	if unmarshalError != nil {
		testingInstance.Fatalf("digest file does not parse: %v", unmarshalError)
	}
	if len(document.Files) != 1 || document.Files[0].Path != "src/main.py" {
		testingInstance.Fatalf("expected configuration file to enable only-text, got %+v", document.Files)
	}
	if document.Structure == "" {
		testingInstance.Errorf("expected explicit flag to keep the structure section")
	}
}
