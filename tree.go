package treeftp

import (
	"encoding/json"
	"os"
)

// TreeNode is one node of a constructed directory tree: a name and an
// ordered list of children. Children preserve the order entries appeared in
// the raw listing; no sorting is applied. A node is owned exclusively by
// its parent.
type TreeNode struct {
	Name     string      `json:"name"`
	Children []*TreeNode `json:"children"`
}

// NewTreeNode returns a leaf node with the given name. Children is
// initialized empty, never nil, so it serializes as [].
func NewTreeNode(name string) *TreeNode {
	return &TreeNode{
		Name:     name,
		Children: []*TreeNode{},
	}
}

// AddChild appends child to the node's ordered children.
func (n *TreeNode) AddChild(child *TreeNode) {
	n.Children = append(n.Children, child)
}

// MarshalIndentJSON returns the pretty-printed JSON representation of the
// tree.
func (n *TreeNode) MarshalIndentJSON() ([]byte, error) {
	return json.MarshalIndent(n, "", "  ")
}

// WriteJSON writes the pretty-printed JSON representation of the tree to the
// named file, creating or truncating it. Failures are returned as a
// *ExportError so callers can report them without aborting traversal output.
func (n *TreeNode) WriteJSON(filename string) error {
	data, err := n.MarshalIndentJSON()
	if err != nil {
		return &ExportError{Path: filename, Err: err}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return &ExportError{Path: filename, Err: err}
	}
	return nil
}
