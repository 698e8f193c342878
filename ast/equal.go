package ast

// Equal reports whether two programs are structurally equal: their
// definition sequences must match positionwise (§3, "Definition order
// matters").
func Equal(a, b Program) bool {
	if len(a.Definitions) != len(b.Definitions) {
		return false
	}
	for i := range a.Definitions {
		if !definitionEqual(a.Definitions[i], b.Definitions[i]) {
			return false
		}
	}
	return true
}

func definitionEqual(a, b Definition) bool {
	switch da := a.(type) {
	case *Function:
		db, ok := b.(*Function)
		if !ok || da.Name != db.Name || len(da.Params) != len(db.Params) || len(da.Body) != len(db.Body) {
			return false
		}
		for i := range da.Params {
			if da.Params[i] != db.Params[i] {
				return false
			}
		}
		for i := range da.Body {
			if !statementEqual(da.Body[i], db.Body[i]) {
				return false
			}
		}
		return true
	case *Variable:
		db, ok := b.(*Variable)
		if !ok {
			return false
		}
		return statementEqual(&da.Assign, &db.Assign)
	default:
		return false
	}
}

func statementEqual(a, b Statement) bool {
	switch sa := a.(type) {
	case *Return:
		sb, ok := b.(*Return)
		return ok && expressionEqual(sa.Value, sb.Value)
	case *Discard:
		sb, ok := b.(*Discard)
		return ok && expressionEqual(sa.Expr, sb.Expr)
	case *Assign:
		sb, ok := b.(*Assign)
		return ok && sa.Name == sb.Name && expressionEqual(sa.Value, sb.Value)
	default:
		return false
	}
}

func expressionEqual(a, b Expression) bool {
	switch ea := a.(type) {
	case *LiteralDouble:
		eb, ok := b.(*LiteralDouble)
		return ok && ea.Value == eb.Value
	case *Ident:
		eb, ok := b.(*Ident)
		return ok && ea.Name == eb.Name
	case *Parenthesised:
		eb, ok := b.(*Parenthesised)
		return ok && expressionEqual(ea.Inner, eb.Inner)
	case *Call:
		eb, ok := b.(*Call)
		if !ok || ea.Name != eb.Name || len(ea.Args) != len(eb.Args) {
			return false
		}
		for i := range ea.Args {
			if !expressionEqual(ea.Args[i], eb.Args[i]) {
				return false
			}
		}
		return true
	case *Neg:
		eb, ok := b.(*Neg)
		return ok && expressionEqual(ea.Inner, eb.Inner)
	case *Binary:
		eb, ok := b.(*Binary)
		return ok && ea.Op == eb.Op && expressionEqual(ea.LHS, eb.LHS) && expressionEqual(ea.RHS, eb.RHS)
	default:
		return false
	}
}
