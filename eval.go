package reaper

import (
	"context"

	"github.com/lychee-technology/reaper/internal/executor"
)

// Evaluator wraps one ephemeral SQL executor handle for the lifetime of a
// single synthesize call, loading the input relations once and reusing the
// connection for every skeleton/candidate evaluated during that call.
type Evaluator struct {
	ctx           context.Context
	exec          *executor.DuckDBExecutor
	inputs        []ConcreteRelation
	tableRowCache map[string]int
}

// NewEvaluator opens a fresh executor handle and loads every input relation
// as a table.
func NewEvaluator(ctx context.Context, inputs []ConcreteRelation) (*Evaluator, error) {
	execInputs := make([]executor.Relation, len(inputs))
	for i, r := range inputs {
		execInputs[i] = executor.Relation{Name: r.Name, Columns: r.Columns, Rows: r.Values}
	}
	ex, err := executor.NewDuckDBExecutor(ctx, execInputs)
	if err != nil {
		return nil, NewExecutorFailureError("failed to initialize executor").WithCause(err)
	}
	return &Evaluator{ctx: ctx, exec: ex, inputs: inputs, tableRowCache: make(map[string]int)}, nil
}

// Close releases the underlying executor handle.
func (e *Evaluator) Close() error {
	if e == nil || e.exec == nil {
		return nil
	}
	return e.exec.Close()
}

// RowCount returns the row count of a Table leaf, cached by table name for
// the lifetime of this Evaluator. A leaf's row count is exactly its input
// relation's row count, no execution required.
func (e *Evaluator) RowCount(tableName string) int {
	if n, ok := e.tableRowCache[tableName]; ok {
		return n
	}
	n := 0
	for _, r := range e.inputs {
		if r.Name == tableName {
			n = len(r.Values)
			break
		}
	}
	e.tableRowCache[tableName] = n
	return n
}

// EvalConcrete renders and executes a fully-instantiated AST, returning its
// resulting relation. Real row content is required here, so executor
// failures surface rather than being absorbed into a dummy relation.
//
// Columns is derived structurally from FieldsOf(node) rather than from the
// executor's reported column names, and is assumed to line up positionally
// with Values, which comes back from the rendered SQL in SELECT-list order.
func (e *Evaluator) EvalConcrete(node Concrete) (ConcreteRelation, error) {
	sql := RenderSQL(node)
	res, err := e.exec.Execute(e.ctx, sql, nil)
	if err != nil {
		return ConcreteRelation{}, NewExecutorFailureError("executor rejected rendered query").WithDetail("sql", sql).WithCause(err)
	}
	return ConcreteRelation{Name: "", Columns: columnNames(FieldsOf[Predicate](node)), Values: res.Rows}, nil
}

// dummyRelation builds the zero-row relation eval_abstract falls back to on
// executor failure, with the column fingerprint derived structurally.
func dummyRelation(skeleton Skeleton) ConcreteRelation {
	return ConcreteRelation{Name: "", Columns: columnNames(FieldsOf[Empty](skeleton)), Values: nil}
}

// EvalAbstract substitutes True into every hole of skeleton and executes it,
// falling back to a dummy zero-row relation on executor failure so
// equivalence-class pruning always has a column fingerprint to work with.
// The second return value is false exactly when the fallback was used,
// which the skeleton enumerator's elimination step treats as grounds to
// drop the candidate outright.
func (e *Evaluator) EvalAbstract(skeleton Skeleton) (ConcreteRelation, bool) {
	if tbl, ok := skeleton.(TableNode); ok {
		rows := make([][]int64, 0, e.RowCount(tbl.Name))
		for _, r := range e.inputs {
			if r.Name == tbl.Name {
				rows = append(rows, r.Values...)
				break
			}
		}
		return ConcreteRelation{Name: "", Columns: append([]string{}, tbl.Columns...), Values: rows}, true
	}
	concrete := trivialSkeleton(skeleton)
	rel, err := e.EvalConcrete(concrete)
	if err != nil {
		return dummyRelation(skeleton), false
	}
	return rel, true
}
