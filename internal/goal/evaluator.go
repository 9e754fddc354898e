package goal

import (
	"fmt"
	"math"
	"sort"
)

// Operator is a comparison operator.
type Operator string

const (
	OpEq  Operator = "=="
	OpNeq Operator = "!="
	OpGt  Operator = ">"
	OpGte Operator = ">="
	OpLt  Operator = "<"
	OpLte Operator = "<="
)

// Resolver looks up a named fact.
type Resolver interface {
	Resolve(name string) (any, bool)
}

// Facts is a flat fact table keyed by dotted name.
type Facts map[string]any

func (f Facts) Resolve(name string) (any, bool) {
	v, ok := f[name]
	return v, ok
}

// Names lists the known fact names, sorted.
func (f Facts) Names() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Evaluate walks the AST against r.
func Evaluate(e Expr, r Resolver) (bool, error) {
	switch x := e.(type) {
	case *BinaryExpr:
		left, err := Evaluate(x.Left, r)
		if err != nil {
			return false, err
		}
		switch x.Op {
		case "AND":
			if !left {
				return false, nil
			}
		case "OR":
			if left {
				return true, nil
			}
		default:
			return false, fmt.Errorf("unknown binary op %q", x.Op)
		}
		return Evaluate(x.Right, r)
	case *NotExpr:
		v, err := Evaluate(x.Expr, r)
		return !v, err
	case *FactExpr:
		v, ok := r.Resolve(x.Name)
		if !ok {
			return false, fmt.Errorf("unknown fact %q", x.Name)
		}
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("fact %q is %T, not a boolean", x.Name, v)
		}
		return b, nil
	case *CompareExpr:
		left, err := operand(x.Left, r)
		if err != nil {
			return false, err
		}
		right, err := operand(x.Right, r)
		if err != nil {
			return false, err
		}
		return compare(x.Op, left, right)
	}
	return false, fmt.Errorf("unknown expr type %T", e)
}

func operand(o Operand, r Resolver) (any, error) {
	switch x := o.(type) {
	case *Literal:
		return x.Value, nil
	case *Fact:
		v, ok := r.Resolve(x.Name)
		if !ok {
			return nil, fmt.Errorf("unknown fact %q", x.Name)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown operand type %T", o)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func compare(op Operator, left, right any) (bool, error) {
	lf, lnum := toFloat64(left)
	rf, rnum := toFloat64(right)
	switch op {
	case OpEq, OpNeq:
		var eq bool
		switch {
		case lnum && rnum:
			eq = math.Abs(lf-rf) < 1e-9
		case lnum != rnum:
			return false, fmt.Errorf("cannot compare %T with %T", left, right)
		default:
			eq = fmt.Sprint(left) == fmt.Sprint(right)
		}
		return eq == (op == OpEq), nil
	case OpGt, OpGte, OpLt, OpLte:
		if !lnum || !rnum {
			return false, fmt.Errorf("operator %s requires numbers, got %T and %T", op, left, right)
		}
		switch op {
		case OpGt:
			return lf > rf, nil
		case OpGte:
			return lf >= rf, nil
		case OpLt:
			return lf < rf, nil
		}
		return lf <= rf, nil
	}
	return false, fmt.Errorf("unknown operator %q", op)
}
