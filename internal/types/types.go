// Package types defines every cross-package data structure used by the sumtree CLI.
package types

const (
	NodeKindFile      = "file"
	NodeKindDirectory = "directory"
)

// Node represents one entry of the summarized tree. A directory node carries
// its children in insertion order; a file node carries the summary produced
// by the summarization backend and never has children.
type Node struct {
	Name     string
	Kind     string
	Summary  string
	Children []*Node
}

// NewDirectoryNode constructs an empty directory node.
func NewDirectoryNode(name string) *Node {
	return &Node{Name: name, Kind: NodeKindDirectory}
}

// NewFileNode constructs a file node carrying the provided summary.
func NewFileNode(name string, summary string) *Node {
	return &Node{Name: name, Kind: NodeKindFile, Summary: summary}
}

// IsDirectory reports whether the node represents a directory.
func (node *Node) IsDirectory() bool {
	return node.Kind == NodeKindDirectory
}

// AppendChild attaches a child node preserving insertion order.
func (node *Node) AppendChild(child *Node) {
	node.Children = append(node.Children, child)
}

// Child returns the child with the given name, or nil when absent.
func (node *Node) Child(name string) *Node {
	for _, candidate := range node.Children {
		if candidate.Name == name {
			return candidate
		}
	}
	return nil
}
