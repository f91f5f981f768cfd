package output_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/sumtree/internal/output"
	"github.com/temirov/sumtree/internal/types"
)

// TestRenderLinesConnectors verifies branch and corner connector placement
// for the {a: {b, c}, d} shape at every level.
func TestRenderLinesConnectors(testingHandle *testing.T) {
	displayLines := output.RenderLines(buildSampleTree())

	expectedLines := []string{
		"├── a/",
		"│   ├── b    sb",
		"│   └── c    sc",
		"└── d    sd",
	}
	if !reflect.DeepEqual(displayLines, expectedLines) {
		testingHandle.Fatalf("expected\n%s\ngot\n%s",
			strings.Join(expectedLines, "\n"), strings.Join(displayLines, "\n"))
	}
}

// TestRenderLinesDeepNesting verifies continuation bars across multiple levels.
func TestRenderLinesDeepNesting(testingHandle *testing.T) {
	rootNode := types.NewDirectoryNode("")
	outerDirectory := types.NewDirectoryNode("outer")
	innerDirectory := types.NewDirectoryNode("inner")
	innerDirectory.AppendChild(types.NewFileNode("leaf.go", "the leaf"))
	outerDirectory.AppendChild(innerDirectory)
	outerDirectory.AppendChild(types.NewFileNode("tail.go", "the tail"))
	rootNode.AppendChild(outerDirectory)
	rootNode.AppendChild(types.NewFileNode("last.go", "the last"))

	displayLines := output.RenderLines(rootNode)
	expectedLines := []string{
		"├── outer/",
		"│   ├── inner/",
		"│   │   └── leaf.go    the leaf",
		"│   └── tail.go    the tail",
		"└── last.go    the last",
	}
	if !reflect.DeepEqual(displayLines, expectedLines) {
		testingHandle.Fatalf("expected\n%s\ngot\n%s",
			strings.Join(expectedLines, "\n"), strings.Join(displayLines, "\n"))
	}
}

// TestRenderLinesFlattensMultilineSummaries verifies embedded line breaks collapse.
func TestRenderLinesFlattensMultilineSummaries(testingHandle *testing.T) {
	rootNode := types.NewDirectoryNode("")
	rootNode.AppendChild(types.NewFileNode("multi.go", "first line\nsecond line\r\nthird line\n"))

	displayLines := output.RenderLines(rootNode)
	expectedLine := "└── multi.go    first line | second line | third line"
	if len(displayLines) != 1 || displayLines[0] != expectedLine {
		testingHandle.Fatalf("expected %q, got %v", expectedLine, displayLines)
	}
}

// TestRenderLinesEmptyTree verifies an empty root renders no body lines.
func TestRenderLinesEmptyTree(testingHandle *testing.T) {
	displayLines := output.RenderLines(types.NewDirectoryNode(""))
	if len(displayLines) != 0 {
		testingHandle.Fatalf("expected no lines, got %v", displayLines)
	}
}

// TestWriteTreeHeader verifies the header block precedes the body.
func TestWriteTreeHeader(testingHandle *testing.T) {
	renderedText := output.RenderText(buildSampleTree())

	expectedPrefix := "Code Summary Tree\n=================\n\n"
	if !strings.HasPrefix(renderedText, expectedPrefix) {
		testingHandle.Fatalf("expected header prefix, got %q", renderedText)
	}
	if !strings.HasSuffix(renderedText, "└── d    sd\n") {
		testingHandle.Fatalf("expected body to follow header, got %q", renderedText)
	}
}

// TestRenderTextIsRestartable verifies rendering the same tree twice yields
// identical output.
func TestRenderTextIsRestartable(testingHandle *testing.T) {
	sampleTree := buildSampleTree()
	if output.RenderText(sampleTree) != output.RenderText(sampleTree) {
		testingHandle.Fatal("rendering is not deterministic")
	}
}
