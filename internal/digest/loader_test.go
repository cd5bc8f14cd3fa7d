package digest_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/TristanInSec/CodeDigest/internal/digest"
	"github.com/TristanInSec/CodeDigest/internal/tokenizer"
	"github.com/TristanInSec/CodeDigest/internal/types"
)

// stubTokenCounter counts whitespace separated words instead of real tokens.
type stubTokenCounter struct{}

func (stubTokenCounter) Name() string { return "stub" }

func (stubTokenCounter) CountString(input string) (int, error) {
	return len(strings.Fields(input)), nil
}

// walkAndLoad builds and loads a tree in one step for loader tests.
func walkAndLoad(testingInstance *testing.T, rootDirectory string, configuration digest.Config, tokenCounter tokenizer.Counter) *types.TreeNode {
	testingInstance.Helper()
	walkerInstance := digest.NewWalker(configuration, zap.NewNop())
	rootNode, walkError := walkerInstance.Walk(rootDirectory)
	if walkError != nil {
		testingInstance.Fatalf("unexpected walk error: %v", walkError)
	}
	loaderInstance := digest.NewLoader(configuration, zap.NewNop(), tokenCounter)
	loaderInstance.LoadTree(rootNode, rootDirectory)
	return rootNode
}

// findNode locates a node by relative path.
func findNode(node *types.TreeNode, relativePath string) *types.TreeNode {
	if node.Path == relativePath {
		return node
	}
	for _, childNode := range node.Children {
		if foundNode := findNode(childNode, relativePath); foundNode != nil {
			return foundNode
		}
	}
	return nil
}

// TestLoaderLoadsTextContent verifies that valid text files get their content
// attached and binary files stay unread.
func TestLoaderLoadsTextContent(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "main.py", []byte("print(1)"))
	writeFixtureFile(testingInstance, rootDirectory, "image.png", make([]byte, 100))

	rootNode := walkAndLoad(testingInstance, rootDirectory, digest.Config{}, nil)

	textNode := findNode(rootNode, "main.py")
	if textNode == nil || !textNode.ContentLoaded || textNode.Content != "print(1)" {
		testingInstance.Fatalf("unexpected text node: %+v", textNode)
	}
	binaryNode := findNode(rootNode, "image.png")
	if binaryNode == nil || binaryNode.ContentLoaded || binaryNode.Content != "" {
		testingInstance.Fatalf("unexpected binary node: %+v", binaryNode)
	}
}

// TestLoaderDowngradesInvalidText verifies that a text-classified file whose
// bytes do not decode is reported as binary without content.
func TestLoaderDowngradesInvalidText(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "broken.txt", []byte{0xff, 0xfe, 0x00, 0x01})

	rootNode := walkAndLoad(testingInstance, rootDirectory, digest.Config{}, nil)

	downgradedNode := findNode(rootNode, "broken.txt")
	if downgradedNode == nil {
		testingInstance.Fatalf("expected downgraded node to remain in the tree")
	}
	if downgradedNode.Category != types.CategoryBinary || downgradedNode.ContentLoaded {
		testingInstance.Fatalf("unexpected downgraded node: %+v", downgradedNode)
	}
}

// TestLoaderDowngradesControlCharacters verifies that UTF-8 content carrying
// control characters outside tab, newline, and carriage return is reported
// as binary so it never reaches an embedding backend.
func TestLoaderDowngradesControlCharacters(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "trace.log", []byte("line1\x01line2\n"))
	writeFixtureFile(testingInstance, rootDirectory, "table.txt", []byte("col1\tcol2\r\nrow2\n"))

	rootNode := walkAndLoad(testingInstance, rootDirectory, digest.Config{}, nil)

	controlNode := findNode(rootNode, "trace.log")
	if controlNode == nil {
		testingInstance.Fatalf("expected downgraded node to remain in the tree")
	}
	if controlNode.Category != types.CategoryBinary || controlNode.ContentLoaded {
		testingInstance.Fatalf("unexpected downgraded node: %+v", controlNode)
	}
	whitespaceNode := findNode(rootNode, "table.txt")
	if whitespaceNode == nil || !whitespaceNode.ContentLoaded || whitespaceNode.Category != types.CategoryText {
		testingInstance.Fatalf("expected tab and CRLF content to stay text: %+v", whitespaceNode)
	}
}

// TestLoaderDowngradeRespectsOnlyText verifies that a downgraded file is
// removed from the tree when the run is restricted to text files.
func TestLoaderDowngradeRespectsOnlyText(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "real.txt", []byte("hello"))
	writeFixtureFile(testingInstance, rootDirectory, "fake.txt", []byte{0xff, 0xfe, 0x00, 0x01})

	configuration := digest.Config{OnlyText: true}
	rootNode := walkAndLoad(testingInstance, rootDirectory, configuration, nil)

	if findNode(rootNode, "fake.txt") != nil {
		testingInstance.Errorf("expected downgraded file to be dropped")
	}
	if findNode(rootNode, "real.txt") == nil {
		testingInstance.Errorf("expected valid text file to survive")
	}
}

// TestLoaderOversizeBecomesBinary verifies that files above the size cap are
// downgraded without being read.
func TestLoaderOversizeBecomesBinary(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "big.txt", []byte("0123456789"))

	configuration := digest.Config{MaxTextFileSize: 4}
	rootNode := walkAndLoad(testingInstance, rootDirectory, configuration, nil)

	oversizeNode := findNode(rootNode, "big.txt")
	if oversizeNode == nil {
		testingInstance.Fatalf("expected oversize node to remain in the tree")
	}
	if oversizeNode.Category != types.CategoryBinary || oversizeNode.ContentLoaded {
		testingInstance.Fatalf("unexpected oversize node: %+v", oversizeNode)
	}
}

// TestLoaderAttachesTokenCounts verifies token counts on loaded text files.
func TestLoaderAttachesTokenCounts(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	writeFixtureFile(testingInstance, rootDirectory, "words.txt", []byte("one two three"))

	rootNode := walkAndLoad(testingInstance, rootDirectory, digest.Config{}, stubTokenCounter{})

	countedNode := findNode(rootNode, "words.txt")
	if countedNode == nil || countedNode.Tokens != 3 {
		testingInstance.Fatalf("unexpected counted node: %+v", countedNode)
	}
}
