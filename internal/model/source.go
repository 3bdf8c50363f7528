// Package model defines the data structures shared by the repair engine.
package model

import "strings"

// Path represents a file system path.
type Path string

// DefaultModulePrefix prefixes the module path of programs that ship without a go.mod.
const DefaultModulePrefix = "genfix.local/"

// Identity names the program under repair. Name is the file base name
// (counter for counter.go) and Module is the module path tests import it by.
// GoVersion is the go directive of the project's go.mod, empty without one.
type Identity struct {
	Name      string
	Module    string
	GoVersion string
}

// NewIdentity builds an identity, defaulting the module path when empty.
func NewIdentity(name, module string) Identity {
	if strings.TrimSpace(module) == "" {
		module = DefaultModulePrefix + name
	}

	return Identity{Name: name, Module: module}
}

// SourceFile is the file name of the program under repair.
func (i Identity) SourceFile() string {
	return i.Name + ".go"
}

// TestFile is the file name of the companion test suite.
func (i Identity) TestFile() string {
	return i.Name + "_test.go"
}

func (i Identity) String() string {
	return i.Name
}

// TestSuite is the fixed test file every candidate is evaluated against.
type TestSuite struct {
	Name  string
	Lines []string
}

// Qualify returns the engine-wide identifier of a test function in this suite.
func (s TestSuite) Qualify(testFunc string) string {
	return s.Name + "." + testFunc
}

// Project is a program loaded from disk: the seed source plus its test suite.
type Project struct {
	Dir      Path
	Identity Identity
	Source   []string
	Suite    TestSuite
}
