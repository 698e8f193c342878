package codegen

import (
	"fmt"

	"github.com/skx/double-compiler/ast"
)

// lowerStatement lowers one statement within a function body (§4.4
// Statement lowering).
func lowerStatement(b Builder, m Module, scope *scopeTable, stmt ast.Statement) error {
	switch s := stmt.(type) {

	case *ast.Return:
		v, err := lowerExpression(b, m, scope, s.Value)
		if err != nil {
			return err
		}
		b.CreateRet(v)
		return nil

	case *ast.Discard:
		_, err := lowerExpression(b, m, scope, s.Expr)
		return err

	case *ast.Assign:
		return lowerAssign(b, m, scope, s.Name, s.Value)

	default:
		return fmt.Errorf("codegen: unsupported statement %T", stmt)
	}
}

// lowerAssign implements the local-assignment rule of §4.4: a name with
// no binding anywhere gets a fresh stack slot bound in the innermost
// scope; a name already bound (here or in an outer scope) is written
// through to its existing slot.
func lowerAssign(b Builder, m Module, scope *scopeTable, name string, value ast.Expression) error {
	slot, exists := scope.get(name)
	if !exists {
		slot = b.CreateAlloca(name)
		scope.put(name, slot)
	}

	v, err := lowerExpression(b, m, scope, value)
	if err != nil {
		return err
	}
	b.CreateStore(v, slot)
	return nil
}

// lowerFunction lowers a Function definition into a declared IR function,
// starting from a fresh entry block (§4.4 Function lowering); statements
// after a terminating Return go into further blocks, as described below. A function named
// "main" is declared as "main_"; the caller is responsible for emitting
// the i32 main() wrapper once every definition has been processed.
func lowerFunction(b Builder, m Module, scope *scopeTable, def *ast.Function) (Function, error) {
	fn, ok := m.GetFunction(resolveFunctionName(def.Name))
	if !ok {
		return nil, fmt.Errorf("codegen: function %q was not declared during the header pass", def.Name)
	}

	bb := m.AddBasicBlock(fn)
	b.SetInsertPoint(bb)

	scope.push()
	defer scope.pop()

	params := fn.Params()
	for i, name := range def.Params {
		slot := b.CreateAlloca(name)
		b.CreateStore(params[i], slot)
		scope.put(name, slot)
	}

	for i, stmt := range def.Body {
		if err := lowerStatement(b, m, scope, stmt); err != nil {
			return nil, err
		}

		// §4.4/§9: a Return may be followed by further statements.
		// They are still lowered (never pruned), but a basic block
		// can only end in one terminator, so anything after a
		// terminating Return goes into a fresh, unreachable block -
		// the same shape a real LLVM front end gives dead code
		// after a return, rather than emitting invalid IR. Only open
		// that block if there is in fact a further statement to put
		// in it.
		if b.InsertBlockHasTerminator() && i < len(def.Body)-1 {
			b.SetInsertPoint(m.AddBasicBlock(fn))
		}
	}

	if !b.InsertBlockHasTerminator() {
		b.CreateRet(b.ConstFloat(0))
	}

	return fn, nil
}
