package treeftp

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// maxRecursionDepth is a hard ceiling on traversal depth, guarding against
// directory cycles (e.g. symlink loops) when no max-depth is set. Branches
// that reach it are logged and not descended into.
const maxRecursionDepth = 512

// childPath joins a parent path and an entry name without duplicating the
// separator at the root.
func childPath(parent, name string) string {
	if parent == "/" {
		return parent + name
	}
	return parent + "/" + name
}

// PrintTreeDFS walks the hierarchy rooted at path depth-first, pre-order,
// printing one line per entry in the style of the Unix tree command. The
// root itself is at depth 0; entries at exactly maxDepth are listed but
// their children are not fetched.
//
// The last entry of each listing gets a distinct branch glyph. Last-entry
// detection is based on raw line position, before blank-name filtering, so
// a trailing blank line can mis-mark the visually last item; preserved as a
// known limitation.
func (c *Client) PrintTreeDFS(w io.Writer, path string, maxDepth int) error {
	return c.printDFS(w, path, "", 0, maxDepth)
}

func (c *Client) printDFS(w io.Writer, path, prefix string, depth, maxDepth int) error {
	if depth > maxDepth {
		return nil
	}
	if depth > maxRecursionDepth {
		c.logger.Warn("recursion ceiling reached, not descending",
			zap.String("path", path),
			zap.Int("ceiling", maxRecursionDepth))
		return nil
	}

	lines, err := c.ListLines(path)
	if err != nil {
		return err
	}

	for i, line := range lines {
		name := c.parser.Name(line)
		if name == "" {
			continue
		}

		last := i == len(lines)-1
		branch := "|-- "
		if last {
			branch = "`-- "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, name)

		if c.parser.IsDir(line) {
			childPrefix := prefix + "|   "
			if last {
				childPrefix = prefix + "    "
			}
			if err := c.printDFS(w, childPath(path, name), childPrefix, depth+1, maxDepth); err != nil {
				return err
			}
		}
	}

	return nil
}

// PrintTreeBFS walks the hierarchy rooted at path breadth-first, printing
// one line per entry indented proportionally to its depth. Every node at
// depth k is processed before any node at depth k+1 by FIFO construction.
// The depth bound has the same inclusive semantics as PrintTreeDFS.
func (c *Client) PrintTreeBFS(w io.Writer, path string, maxDepth int) error {
	paths := []string{path}
	depths := []int{0}

	for len(paths) > 0 {
		current := paths[0]
		depth := depths[0]
		paths = paths[1:]
		depths = depths[1:]

		if depth > maxDepth {
			continue
		}
		if depth > maxRecursionDepth {
			c.logger.Warn("recursion ceiling reached, not descending",
				zap.String("path", current),
				zap.Int("ceiling", maxRecursionDepth))
			continue
		}

		lines, err := c.ListLines(current)
		if err != nil {
			return err
		}

		for _, line := range lines {
			name := c.parser.Name(line)
			if name == "" {
				continue
			}

			fmt.Fprintf(w, "%s|__ %s\n", strings.Repeat("   ", depth), name)

			if c.parser.IsDir(line) {
				paths = append(paths, childPath(current, name))
				depths = append(depths, depth+1)
			}
		}
	}

	return nil
}

// BuildTree walks the hierarchy rooted at path depth-first and constructs
// the corresponding TreeNode tree instead of printing it.
//
// A node's own name is derived from its path (the path's last
// whitespace-run token), not from the parent's listing; this asymmetry with
// the print modes is deliberate. Directory entries become recursed
// subtrees, file entries become leaf children, and entries with blank names
// are skipped, consistent with the print modes. Directories past maxDepth
// are dropped entirely.
func (c *Client) BuildTree(path string, maxDepth int) (*TreeNode, error) {
	return c.buildTree(path, 0, maxDepth)
}

func (c *Client) buildTree(path string, depth, maxDepth int) (*TreeNode, error) {
	if depth > maxDepth {
		return nil, nil
	}
	if depth > maxRecursionDepth {
		c.logger.Warn("recursion ceiling reached, not descending",
			zap.String("path", path),
			zap.Int("ceiling", maxRecursionDepth))
		return nil, nil
	}

	node := NewTreeNode(c.parser.Name(path))

	lines, err := c.ListLines(path)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		name := c.parser.Name(line)
		if name == "" {
			continue
		}

		if c.parser.IsDir(line) {
			child, err := c.buildTree(childPath(path, name), depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			if child != nil {
				node.AddChild(child)
			}
		} else {
			node.AddChild(NewTreeNode(name))
		}
	}

	return node, nil
}
