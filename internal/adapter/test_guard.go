package adapter

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

const (
	guardFile   = "genfix_guard_test.go"
	guardPrefix = "TestGenfixGuard_"
)

// guardSuite generates a test file in the suite's package that wraps every
// TestXxx(t *testing.T) in a function recovering panics. A panicking test
// then fails through t.Errorf and the binary still writes its coverprofile.
// It returns nil when the suite cannot be parsed or declares no tests; the
// suite then runs unguarded.
func guardSuite(suite []byte) ([]byte, map[string]string) {
	file, err := parser.ParseFile(token.NewFileSet(), "suite_test.go", suite, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil
	}

	testingName := importName(file, "testing")
	if testingName == "" {
		return nil, nil
	}

	guards := map[string]string{}

	var b strings.Builder

	fmt.Fprintf(&b, "package %s\n\nimport (\n\t\"runtime/debug\"\n\t\"testing\"\n)\n", file.Name.Name)

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Type.TypeParams != nil || !isTestName(fn.Name.Name) {
			continue
		}

		if !takesTestingT(fn, testingName) || fn.Type.Results != nil {
			continue
		}

		guard := guardPrefix + fn.Name.Name
		guards[fn.Name.Name] = guard

		fmt.Fprintf(&b, `
func %s(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("panic: %%v\n%%s", r, debug.Stack())
		}
	}()

	%s(t)
}
`, guard, fn.Name.Name)
	}

	if len(guards) == 0 {
		return nil, nil
	}

	return []byte(b.String()), guards
}

// importName returns the name path is referenced by in file, or "" when it
// is not imported or only imported for side effects or into file scope.
func importName(file *ast.File, path string) string {
	for _, imp := range file.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil || importPath != path {
			continue
		}

		if imp.Name == nil {
			return path[strings.LastIndex(path, "/")+1:]
		}

		if imp.Name.Name == "_" || imp.Name.Name == "." {
			return ""
		}

		return imp.Name.Name
	}

	return ""
}

func takesTestingT(fn *ast.FuncDecl, testingName string) bool {
	params := fn.Type.Params.List
	if len(params) != 1 || len(params[0].Names) > 1 {
		return false
	}

	star, ok := params[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}

	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "T" {
		return false
	}

	pkg, ok := sel.X.(*ast.Ident)

	return ok && pkg.Name == testingName
}
