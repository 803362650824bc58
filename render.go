package reaper

import (
	"fmt"
	"strings"
)

// quoteIdent double-quotes a SQL identifier, doubling any embedded quote.
// This keeps table/column names safe even when they collide with reserved
// words, matching how the executor's own CREATE TABLE quotes names.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// RenderSQL renders a concrete AST to SQL text.
func RenderSQL(n Concrete) string {
	switch t := n.(type) {
	case TableNode:
		return fmt.Sprintf("(%s)", quoteIdent(t.Name))
	case SelectNode[Predicate]:
		return fmt.Sprintf("(SELECT %s FROM %s WHERE %s)", renderSelectFields(t.Fields), RenderSQL(t.Child), RenderPredicate(t.Hole))
	case JoinNode[Predicate]:
		return fmt.Sprintf("(SELECT %s FROM %s JOIN %s ON %s)", renderJoinFields(t.Fields), RenderSQL(t.Left), RenderSQL(t.Right), RenderPredicate(t.Hole))
	case ConcatNode[Predicate]:
		return fmt.Sprintf("(%s, %s)", RenderSQL(t.Left), RenderSQL(t.Right))
	default:
		panic(fmt.Sprintf("reaper: unreachable node type %T", n))
	}
}

// renderSelectFields renders a Select's projection list using bare column
// names, unambiguous because a Select has exactly one input relation.
func renderSelectFields(fields *[]Field) string {
	if fields == nil {
		return "*"
	}
	names := make([]string, len(*fields))
	for i, f := range *fields {
		names[i] = quoteIdent(f.Column)
	}
	return strings.Join(names, ", ")
}

// renderJoinFields renders a Join's projection list fully qualified
// (table.column), since a Join's two sides may share column names.
func renderJoinFields(fields *[]Field) string {
	if fields == nil {
		return "*"
	}
	names := make([]string, len(*fields))
	for i, f := range *fields {
		names[i] = fmt.Sprintf("%s.%s AS %s", quoteIdent(f.Table), quoteIdent(f.Column), quoteIdent(f.Table+"."+f.Column))
	}
	return strings.Join(names, ", ")
}

// RenderExpr renders an expression to SQL text.
func RenderExpr(e Expr) string {
	switch t := e.(type) {
	case FieldExpr:
		return fmt.Sprintf("(%s.%s)", quoteIdent(t.Field.Table), quoteIdent(t.Field.Column))
	case IntExpr:
		return fmt.Sprintf("(%d)", t.Value)
	default:
		panic(fmt.Sprintf("reaper: unreachable expr type %T", e))
	}
}

// RenderPredicate renders a predicate to SQL text.
func RenderPredicate(p Predicate) string {
	switch t := p.(type) {
	case TruePredicate:
		return "1"
	case EqPredicate:
		return fmt.Sprintf("(%s = %s)", RenderExpr(t.Left), RenderExpr(t.Right))
	case LtPredicate:
		return fmt.Sprintf("(%s < %s)", RenderExpr(t.Left), RenderExpr(t.Right))
	case AndPredicate:
		return fmt.Sprintf("(%s AND %s)", RenderPredicate(t.Left), RenderPredicate(t.Right))
	default:
		panic(fmt.Sprintf("reaper: unreachable predicate type %T", p))
	}
}
