// Package pyast wraps tree-sitter parsing of Python source files.
//
// Parsing never executes the analyzed code; the rest of the program only
// ever sees syntax trees.
package pyast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax indicates that a file could not be parsed into a usable tree.
var ErrSyntax = errors.New("syntax error")

// File is a parsed Python source file. The source bytes are retained so
// that node text can be recovered from byte offsets.
type File struct {
	Path   string
	Source []byte
	tree   *sitter.Tree
}

// Parse parses Python source into a File. It returns ErrSyntax (wrapped)
// when the tree contains parse errors, mirroring a front-end that rejects
// files it cannot fully understand.
func Parse(ctx context.Context, source []byte, path string) (*File, error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrSyntax, path)
	}

	// A fresh parser per call keeps Parse safe for concurrent use.
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	root := tree.RootNode()
	if root == nil || root.HasError() {
		tree.Close()
		return nil, fmt.Errorf("%w: %s", ErrSyntax, path)
	}

	return &File{Path: path, Source: source, tree: tree}, nil
}

// Root returns the module node of the parsed file.
func (f *File) Root() *sitter.Node {
	return f.tree.RootNode()
}

// Text returns the source text covered by the given node.
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(f.Source[n.StartByte():n.EndByte()])
}

// Line returns the 1-based source line on which the node starts.
func (f *File) Line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// Close releases the underlying tree. The File must not be used afterwards.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Docstring returns the leading docstring of a function or class body
// block, with quotes stripped, or "" if the first statement is not a
// string literal.
func (f *File) Docstring(block *sitter.Node) string {
	if block == nil || block.NamedChildCount() == 0 {
		return ""
	}
	first := block.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return StringContent(f.Text(str))
}

// StringContent strips quoting from a Python string literal, including
// triple quotes and a leading prefix letter (r, b, u, f).
func StringContent(raw string) string {
	for len(raw) > 0 {
		c := raw[0]
		if c == '"' || c == '\'' {
			break
		}
		raw = raw[1:]
	}
	return strings.Trim(raw, `"'`)
}

// IsPlainString reports whether the node is a string literal with no
// interpolated expressions (an f-string with substitutions is not plain).
func IsPlainString(n *sitter.Node) bool {
	if n == nil || n.Type() != "string" {
		return false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "interpolation" {
			return false
		}
	}
	return true
}
