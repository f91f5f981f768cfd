package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/sumtree/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix    = "/"
	summarySeparator   = "    "
	newlineReplacement = " | "

	headerTitle     = "Code Summary Tree"
	headerUnderline = "================="
)

// RenderLines returns the connector-annotated display lines for the tree
// body in depth-first pre-order. The root itself is not rendered; it stands
// for the scan root and is represented by the header instead.
func RenderLines(rootNode *types.Node) []string {
	var displayLines []string
	if rootNode != nil {
		appendNodeLines(&displayLines, rootNode.Children, "")
	}
	return displayLines
}

// appendNodeLines renders one sibling group under the accumulated prefix.
func appendNodeLines(displayLines *[]string, siblings []*types.Node, prefix string) {
	for siblingIndex, node := range siblings {
		isLastSibling := siblingIndex == len(siblings)-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLastSibling {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}

		if node.IsDirectory() {
			*displayLines = append(*displayLines, prefix+connector+node.Name+directorySuffix)
			appendNodeLines(displayLines, node.Children, childPrefix)
			continue
		}

		flattenedSummary := flattenSummary(node.Summary)
		if flattenedSummary == "" {
			*displayLines = append(*displayLines, prefix+connector+node.Name)
			continue
		}
		*displayLines = append(*displayLines, prefix+connector+node.Name+summarySeparator+flattenedSummary)
	}
}

// flattenSummary collapses a summary to a single line.
func flattenSummary(summary string) string {
	flattened := strings.TrimSpace(summary)
	flattened = strings.ReplaceAll(flattened, "\r\n", "\n")
	flattened = strings.ReplaceAll(flattened, "\n", newlineReplacement)
	return flattened
}

// WriteTree writes the header block followed by the rendered tree body.
func WriteTree(writer io.Writer, rootNode *types.Node) error {
	if _, headerError := fmt.Fprintf(writer, "%s\n%s\n\n", headerTitle, headerUnderline); headerError != nil {
		return headerError
	}
	for _, displayLine := range RenderLines(rootNode) {
		if _, lineError := fmt.Fprintln(writer, displayLine); lineError != nil {
			return lineError
		}
	}
	return nil
}

// RenderText returns the full rendered document including the header.
func RenderText(rootNode *types.Node) string {
	var builder strings.Builder
	_ = WriteTree(&builder, rootNode)
	return builder.String()
}
