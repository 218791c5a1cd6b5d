package output

import (
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jkasimotto/file-combiner/pkg/logger"
	"github.com/jkasimotto/file-combiner/pkg/util"
)

// treeNode is a path component. Children keep first-seen order.
type treeNode struct {
	name     string
	isDir    bool
	size     int64
	children []*treeNode
	index    map[string]*treeNode
}

func newTreeNode(name string, isDir bool) *treeNode {
	return &treeNode{name: name, isDir: isDir, index: map[string]*treeNode{}}
}

func (n *treeNode) child(name string, isDir bool) *treeNode {
	if c, ok := n.index[name]; ok {
		return c
	}
	c := newTreeNode(name, isDir)
	n.index[name] = c
	n.children = append(n.children, c)
	return c
}

// buildTree turns the plan's paths into a forest rooted at their first component
func buildTree(files []PlanFile) *treeNode {
	forest := newTreeNode("", true)
	for _, file := range files {
		parts := strings.Split(filepath.ToSlash(file.Path), "/")
		if parts[0] == "" {
			parts[0] = "/"
		}

		node := forest
		for i, part := range parts {
			if part == "" {
				continue
			}
			last := i == len(parts)-1
			node = node.child(part, !last)
			if last {
				node.size = file.Size
			}
		}
	}
	return forest
}

// formatTree renders the plan as a directory tree
func (f *formatter) formatTree(plan Plan) (string, error) {
	f.log.Debug("Formatting tree output")

	var builder strings.Builder
	for _, root := range buildTree(plan.Files).children {
		f.formatTreeNode(&builder, root, "", true, true)
	}

	if f.config.WithStats {
		builder.WriteString("\n")
		f.writeStats(&builder, plan)
	}

	return builder.String(), nil
}

func (f *formatter) formatTreeNode(builder *strings.Builder, node *treeNode, prefix string, isLast, isRoot bool) {
	f.log.WithFields(logger.Fields{
		"node":   node.name,
		"prefix": prefix,
		"isLast": isLast,
		"isRoot": isRoot,
	}).Trace("Formatting tree node")

	if !isRoot {
		if isLast {
			builder.WriteString(prefix + "└── ")
		} else {
			builder.WriteString(prefix + "├── ")
		}
	}

	name := node.name
	if node.isDir && name != "/" {
		name += "/"
	}
	if f.config.WithColors && node.isDir {
		c := color.New(color.FgBlue, color.Bold)
		c.EnableColor()
		name = c.Sprint(name)
	}
	builder.WriteString(name)

	if !node.isDir && f.config.WithStats {
		builder.WriteString(" (" + util.FormatSize(node.size) + ")")
	}
	builder.WriteString("\n")

	newPrefix := prefix
	if !isRoot {
		if isLast {
			newPrefix += "    "
		} else {
			newPrefix += "│   "
		}
	}

	for i, child := range node.children {
		f.formatTreeNode(builder, child, newPrefix, i == len(node.children)-1, false)
	}
}
