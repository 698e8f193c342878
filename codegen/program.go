// program.go lowers a whole ast.Program: the two function/global passes
// of §4.4 Program lowering, plus the Module bootstrap of the same
// section (global_var_init, llvm.global_ctors, printf/println externs,
// the main/main_ wrapper pair).
package codegen

import (
	"fmt"

	"github.com/skx/double-compiler/ast"
)

// globalCtorPriority is the fixed priority §4.4 requires for the
// global_var_init constructor entry.
const globalCtorPriority = 65535

// Generate lowers prog onto m using the builder b, returning the finished
// Module. Codegen failures are fatal and uniform (§4.4,
// §7): no partial module is returned on error.
func Generate(prog ast.Program, m Module, b Builder) (Module, error) {
	scope := newScopeTable()

	// §4.4 Module bootstrap: global_var_init is created up front so
	// that its basic block is available to receive stores as Variable
	// definitions are encountered below, in source order. §6 fixes its
	// signature as void() with internal linkage.
	initFn := m.DeclareVoidFunction("global_var_init")
	initBlock := m.AddBasicBlock(initFn)

	// Pass 1: declare every function header and every global, so that
	// mutually- and forward-referencing definitions resolve regardless
	// of textual order (the same two-pass shape the retrieved LLVM
	// front-end uses: headers and globals first, bodies second).
	for _, def := range prog.Definitions {
		switch d := def.(type) {
		case *ast.Function:
			name := d.Name
			if name == "main" {
				name = "main_"
			}
			if _, exists := m.GetFunction(name); exists {
				return nil, fmt.Errorf("codegen: function %q already declared", d.Name)
			}
			m.DeclareFunction(name, len(d.Params))

		case *ast.Variable:
			if _, ok := scope.get(d.Assign.Name); !ok {
				scope.put(d.Assign.Name, m.AddGlobal(d.Assign.Name))
			}

		default:
			return nil, fmt.Errorf("codegen: unsupported definition %T", def)
		}
	}

	m.DeclarePrintf()
	m.DeclareFunction("println", 1)

	// Pass 2: lower function bodies and accumulate global initializer
	// stores, in source order.
	var mainFn Function
	for _, def := range prog.Definitions {
		switch d := def.(type) {
		case *ast.Function:
			fn, err := lowerFunction(b, m, scope, d)
			if err != nil {
				return nil, err
			}
			if d.Name == "main" {
				mainFn = fn
			}

		case *ast.Variable:
			b.SetInsertPoint(initBlock)
			if err := lowerAssign(b, m, scope, d.Assign.Name, d.Assign.Value); err != nil {
				return nil, err
			}
		}
	}

	b.SetInsertPoint(initBlock)
	b.CreateRetVoid()
	m.AddGlobalCtor(globalCtorPriority, initFn)

	if mainFn != nil {
		m.AddMainWrapper(mainFn)
	}

	if err := m.Verify(); err != nil {
		return nil, fmt.Errorf("codegen: module verification failed: %w", err)
	}

	return m, nil
}
