package adapter

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"golang.org/x/mod/modfile"
)

// ErrNoModulePath is returned when a go.mod carries no module directive.
var ErrNoModulePath = errors.New("go.mod has no module directive")

// GoFileAdapter encapsulates Go-specific parsing so the domain layer can
// reason about statements and operators without owning go/parser details.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and source bytes.
	Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// ModulePath extracts the module path declared by go.mod content.
	ModulePath(goMod []byte) (string, error)

	// GoVersion returns the go directive of go.mod content, or "" without one.
	GoVersion(goMod []byte) string

	// TestFunctions lists the top-level TestXxx functions declared in a test file.
	TestFunctions(ctx context.Context, filename string, src []byte) ([]string, error)
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parser.ParseFile(fileSet, filename, src, parser.ParseComments)
}

// ModulePath reads the module directive from go.mod content.
func (a *LocalGoFileAdapter) ModulePath(goMod []byte) (string, error) {
	path := modfile.ModulePath(goMod)
	if path == "" {
		return "", ErrNoModulePath
	}

	return path, nil
}

// GoVersion reads the go directive from go.mod content.
func (a *LocalGoFileAdapter) GoVersion(goMod []byte) string {
	file, err := modfile.ParseLax("go.mod", goMod, nil)
	if err != nil || file.Go == nil {
		return ""
	}

	return file.Go.Version
}

// TestFunctions returns the names of func TestXxx(t *testing.T) declarations.
func (a *LocalGoFileAdapter) TestFunctions(ctx context.Context, filename string, src []byte) ([]string, error) {
	file, err := a.Parse(ctx, token.NewFileSet(), filename, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	var names []string

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || !isTestName(fn.Name.Name) {
			continue
		}

		if fn.Type.Params == nil || len(fn.Type.Params.List) != 1 {
			continue
		}

		names = append(names, fn.Name.Name)
	}

	return names, nil
}

func isTestName(name string) bool {
	if name == "TestMain" || !strings.HasPrefix(name, "Test") {
		return false
	}

	rest := name[len("Test"):]
	if rest == "" {
		return true
	}

	first := rest[0]

	return first < 'a' || first > 'z'
}
