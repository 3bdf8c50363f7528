// Package program provides a statement-addressable view over a single Go
// source file. Statements are exposed as slots (line plus byte range) and
// every edit returns new source bytes, leaving the parsed file untouched.
package program

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strings"
)

// Slot is one mutatable statement.
type Slot struct {
	Index int
	// Line is the 1-based line the statement starts on.
	Line  int
	Start int
	End   int
	// Owner is the receiver base type of the enclosing method, or "" for
	// plain functions and package-level initializers.
	Owner string
	// Kind is the statement node type, e.g. "AssignStmt".
	Kind string
	// Parent is the node type owning the statement list, e.g. "IfStmt".
	Parent string
	// Placeholder marks the virtual insertion point of an empty function body.
	Placeholder bool
}

// BinaryOp locates the operator of a binary expression.
type BinaryOp struct {
	// Line is the 1-based line the whole expression starts on.
	Line   int
	Offset int
	Op     token.Token
}

// File is a parsed program.
type File struct {
	src   []byte
	slots []Slot
	ops   []BinaryOp
}

// Parse builds a File from Go source.
func Parse(ctx context.Context, src []byte) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fset := token.NewFileSet()

	astFile, err := parser.ParseFile(fset, "candidate.go", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}

	f := &File{src: src}

	for _, decl := range astFile.Decls {
		owner := ""

		if fn, ok := decl.(*ast.FuncDecl); ok {
			owner = receiverBase(fn)

			if fn.Body != nil && len(fn.Body.List) == 0 {
				f.addPlaceholder(fset, fn.Body, owner)
			}
		}

		f.collect(fset, decl, owner)
	}

	sort.SliceStable(f.slots, func(i, j int) bool {
		if f.slots[i].Start != f.slots[j].Start {
			return f.slots[i].Start < f.slots[j].Start
		}

		return f.slots[i].End > f.slots[j].End
	})

	for i := range f.slots {
		f.slots[i].Index = i
	}

	sort.SliceStable(f.ops, func(i, j int) bool { return f.ops[i].Offset < f.ops[j].Offset })

	return f, nil
}

func (f *File) collect(fset *token.FileSet, decl ast.Decl, owner string) {
	var stack []ast.Node

	ast.Inspect(decl, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]

			return false
		}

		var parent ast.Node
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}

		stack = append(stack, n)

		switch node := n.(type) {
		case *ast.BlockStmt:
			f.addList(fset, node.List, kindOf(parent), owner)
		case *ast.CaseClause:
			f.addList(fset, node.Body, "CaseClause", owner)
		case *ast.CommClause:
			f.addList(fset, node.Body, "CommClause", owner)
		case *ast.BinaryExpr:
			if start, ok := offsetForPos(fset, node.OpPos); ok {
				f.ops = append(f.ops, BinaryOp{
					Line:   fset.Position(node.Pos()).Line,
					Offset: start,
					Op:     node.Op,
				})
			}
		}

		return true
	})
}

func (f *File) addList(fset *token.FileSet, list []ast.Stmt, parent, owner string) {
	for _, stmt := range list {
		switch stmt.(type) {
		case *ast.BlockStmt, *ast.CaseClause, *ast.CommClause, *ast.EmptyStmt:
			continue
		}

		start, ok1 := offsetForPos(fset, stmt.Pos())
		end, ok2 := offsetForPos(fset, stmt.End())

		if !ok1 || !ok2 || end <= start {
			continue
		}

		f.slots = append(f.slots, Slot{
			Line:   fset.Position(stmt.Pos()).Line,
			Start:  start,
			End:    end,
			Owner:  owner,
			Kind:   kindOf(stmt),
			Parent: parent,
		})
	}
}

func (f *File) addPlaceholder(fset *token.FileSet, body *ast.BlockStmt, owner string) {
	at, ok := offsetForPos(fset, body.Rbrace)
	if !ok {
		return
	}

	f.slots = append(f.slots, Slot{
		Line:        fset.Position(body.Rbrace).Line,
		Start:       at,
		End:         at,
		Owner:       owner,
		Kind:        "Placeholder",
		Parent:      "FuncDecl",
		Placeholder: true,
	})
}

// Statements returns the real (non-placeholder) statement slots.
func (f *File) Statements() []Slot {
	out := make([]Slot, 0, len(f.slots))

	for _, s := range f.slots {
		if !s.Placeholder {
			out = append(out, s)
		}
	}

	return out
}

// SlotsAt returns the slots starting on line.
func (f *File) SlotsAt(line int) []Slot {
	var out []Slot

	for _, s := range f.slots {
		if s.Line == line {
			out = append(out, s)
		}
	}

	return out
}

// StartLines reports which lines begin at least one slot.
func (f *File) StartLines() map[int]bool {
	lines := make(map[int]bool, len(f.slots))
	for _, s := range f.slots {
		lines[s.Line] = true
	}

	return lines
}

// Donors returns the statements eligible to be copied next to target.
// Without crossType only statements sharing target's owner qualify.
func (f *File) Donors(target Slot, crossType bool) []Slot {
	var out []Slot

	for _, s := range f.slots {
		if s.Placeholder || s.Index == target.Index {
			continue
		}

		if !crossType && s.Owner != target.Owner {
			continue
		}

		out = append(out, s)
	}

	return out
}

// Text returns the source text of a slot.
func (f *File) Text(s Slot) string {
	return string(f.src[s.Start:s.End])
}

// BinaryOps returns every binary expression operator in source order.
func (f *File) BinaryOps() []BinaryOp {
	return f.ops
}

func receiverBase(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}

	expr := fn.Recv.List[0].Type

	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

func kindOf(n ast.Node) string {
	if n == nil {
		return ""
	}

	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}
