package codegen

import (
	"fmt"

	"github.com/skx/double-compiler/ast"
)

// lowerExpression walks an expression and yields a single IR value
// (§4.4 Expression lowering).
func lowerExpression(b Builder, m Module, scope *scopeTable, expr ast.Expression) (Value, error) {
	switch e := expr.(type) {

	case *ast.LiteralDouble:
		return b.ConstFloat(e.Value), nil

	case *ast.Ident:
		slot, ok := scope.get(e.Name)
		if !ok {
			return nil, fmt.Errorf("codegen: unknown identifier %q", e.Name)
		}
		return b.CreateLoad(slot, e.Name), nil

	case *ast.Parenthesised:
		return lowerExpression(b, m, scope, e.Inner)

	case *ast.Neg:
		inner, err := lowerExpression(b, m, scope, e.Inner)
		if err != nil {
			return nil, err
		}
		return b.CreateFNeg(inner, ""), nil

	case *ast.Binary:
		return lowerBinary(b, m, scope, e)

	case *ast.Call:
		return lowerCall(b, m, scope, e)

	default:
		return nil, fmt.Errorf("codegen: unsupported expression %T", expr)
	}
}

// lowerBinary lowers a binary operator expression to its corresponding
// floating-point instruction (§4.4: fadd, fsub, fmul, fdiv, frem).
// Operand evaluation order is left-to-right (§5).
func lowerBinary(b Builder, m Module, scope *scopeTable, e *ast.Binary) (Value, error) {
	lhs, err := lowerExpression(b, m, scope, e.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := lowerExpression(b, m, scope, e.RHS)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.Add:
		return b.CreateFAdd(lhs, rhs, ""), nil
	case ast.Sub:
		return b.CreateFSub(lhs, rhs, ""), nil
	case ast.Mul:
		return b.CreateFMul(lhs, rhs, ""), nil
	case ast.Div:
		return b.CreateFDiv(lhs, rhs, ""), nil
	case ast.Mod:
		// Remainder with sign-of-dividend semantics (§4.4, §9).
		return b.CreateFRem(lhs, rhs, ""), nil
	default:
		return nil, fmt.Errorf("codegen: unsupported binary operator %s", e.Op)
	}
}

// lowerCall looks up the target function by name, checks arity, lowers
// each argument left-to-right, and emits the call (§4.4).
func lowerCall(b Builder, m Module, scope *scopeTable, e *ast.Call) (Value, error) {
	fn, ok := m.GetFunction(resolveFunctionName(e.Name))
	if !ok {
		return nil, fmt.Errorf("codegen: call to unknown function %q", e.Name)
	}

	if len(fn.Params()) != len(e.Args) {
		return nil, fmt.Errorf("codegen: function %q expects %d argument(s), got %d",
			e.Name, len(fn.Params()), len(e.Args))
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := lowerExpression(b, m, scope, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	return b.CreateCall(fn, args, ""), nil
}

// resolveFunctionName applies the "main" -> "main_" rename of §4.4 at
// every call site, mirroring the rename applied at the declaration.
func resolveFunctionName(name string) string {
	if name == "main" {
		return "main_"
	}
	return name
}
