package parse

import (
	"fmt"
	"io"

	"src.cmdl.sh/pkg/ast"
	"src.cmdl.sh/pkg/token"
)

// PPrint pretty-prints a tree, one node per line with box-drawing guides.
func PPrint(w io.Writer, t *ast.Tree) {
	root := t.Root()
	fmt.Fprintln(w, nodeLabel(t.Token(root)))
	pprintChildren(w, t, root, "")
}

func pprintChildren(w io.Writer, t *ast.Tree, id ast.NodeID, indent string) {
	children := t.Children(id)
	for i, child := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%s\n", indent, branch, nodeLabel(t.Token(child)))
		pprintChildren(w, t, child, indent+next)
	}
}

func nodeLabel(tok token.Token) string {
	switch tok.Kind {
	case token.EndOfInput:
		return "EOF"
	case token.StringLiteral:
		return "|" + tok.Text + "|"
	}
	return tok.Text
}
