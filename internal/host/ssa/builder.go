// Package ssa parses a single Go source file and lowers one of its
// functions to SSA form, the representation the symbolic interpreter
// walks.
package ssa

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"
)

// Builder parses Go source and builds the SSA representation of a named
// function in it.
type Builder struct {
	fset *token.FileSet
}

func NewBuilder() *Builder {
	return &Builder{
		fset: token.NewFileSet(),
	}
}

// ParseAndBuildSSA type-checks source as a single-file package and returns
// the SSA form of funcName.
func (b *Builder) ParseAndBuildSSA(source string, funcName string) (*ssa.Function, error) {
	f, err := parser.ParseFile(b.fset, "target.go", source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("ssa: parse error: %w", err)
	}

	files := []*ast.File{f}

	config := &types.Config{
		Importer: nil,
	}

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Scopes:     make(map[ast.Node]*types.Scope),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}

	pkg, err := config.Check("target", b.fset, files, info)
	if err != nil {
		return nil, fmt.Errorf("ssa: type check error: %w", err)
	}

	prog := ssa.NewProgram(b.fset, ssa.SanityCheckFunctions)
	ssaPkg := prog.CreatePackage(pkg, files, info, true)
	ssaPkg.Build()

	fn := ssaPkg.Func(funcName)
	if fn == nil {
		return nil, fmt.Errorf("ssa: function %q not found", funcName)
	}
	return fn, nil
}

// Describe returns a human-readable dump of fn's parameters, blocks and
// instructions.
func (b *Builder) Describe(fn *ssa.Function) string {
	if fn == nil {
		return "<nil function>"
	}

	out := fmt.Sprintf("function %s: %d block(s)\n", fn.Name(), len(fn.Blocks))
	for i, param := range fn.Params {
		out += fmt.Sprintf("  param %d: %s (%s)\n", i, param.Name(), param.Type().String())
	}
	for i, block := range fn.Blocks {
		out += fmt.Sprintf("block %d:\n", i)
		for j, instr := range block.Instrs {
			out += fmt.Sprintf("  %d: %T: %s\n", j, instr, instr.String())
		}
	}
	return out
}
