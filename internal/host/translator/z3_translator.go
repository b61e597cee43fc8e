// Package translator turns a symbolic path condition into a Z3 formula and
// checks it for satisfiability — the feasibility check the host runs at
// every branch to prune paths the program's own semantics already rule
// out.
package translator

import (
	"fmt"

	"github.com/KnoooW/spf-wca/internal/host/symbolic"
	"github.com/ebukreev/go-z3/z3"
)

// Translator is the capability the host depends on; Z3Translator is its
// only implementation, kept behind an interface so the host's exploration
// loop isn't tied to a specific solver package.
type Translator interface {
	TranslateExpression(expr symbolic.SymbolicExpression) (interface{}, error)
	IsSatisfiable(expr symbolic.SymbolicExpression) (bool, error)
	Reset()
	Close()
}

// Z3Translator translates SymbolicExpression trees into Z3 formulas via the
// Visitor double dispatch and checks them with a solver.
type Z3Translator struct {
	ctx    *z3.Context
	config *z3.Config
	vars   map[string]z3.Value // variable cache, keyed by name
}

func NewZ3Translator() *Z3Translator {
	config := &z3.Config{}
	ctx := z3.NewContext(config)

	return &Z3Translator{
		ctx:    ctx,
		config: config,
		vars:   make(map[string]z3.Value),
	}
}

func (zt *Z3Translator) GetContext() interface{} {
	return zt.ctx
}

// Reset drops the variable cache. A path condition built for one
// exploration state must not leak variables into an unrelated one.
func (zt *Z3Translator) Reset() {
	zt.vars = make(map[string]z3.Value)
}

func (zt *Z3Translator) Close() {}

func (zt *Z3Translator) TranslateExpression(expr symbolic.SymbolicExpression) (interface{}, error) {
	result := expr.Accept(zt)
	if result == nil {
		return nil, fmt.Errorf("translator: translation returned nil")
	}
	return result, nil
}

// IsSatisfiable asserts expr (a boolean path condition) against a fresh
// solver and reports whether it is satisfiable. This is the feasibility
// check the host uses to prune an infeasible branch before ever offering
// it to an observer.
func (zt *Z3Translator) IsSatisfiable(expr symbolic.SymbolicExpression) (bool, error) {
	translated, err := zt.TranslateExpression(expr)
	if err != nil {
		return false, err
	}
	cond, ok := translated.(z3.Bool)
	if !ok {
		return false, fmt.Errorf("translator: path condition did not translate to a boolean formula")
	}

	solver := z3.NewSolver(zt.ctx)
	solver.Assert(cond)
	sat, err := solver.Check()
	if err != nil {
		return false, fmt.Errorf("translator: solver check failed: %w", err)
	}
	return sat, nil
}

func (zt *Z3Translator) VisitVariable(expr *symbolic.SymbolicVariable) interface{} {
	if v, exists := zt.vars[expr.Name]; exists {
		return v
	}
	z3Var := zt.createZ3Variable(expr.Name, expr.Type())
	zt.vars[expr.Name] = z3Var
	return z3Var
}

func (zt *Z3Translator) VisitIntConstant(expr *symbolic.IntConstant) interface{} {
	return zt.ctx.FromInt(int64(expr.Value), zt.ctx.IntSort())
}

func (zt *Z3Translator) VisitBoolConstant(expr *symbolic.BoolConstant) interface{} {
	return zt.ctx.FromBool(expr.Value)
}

func (zt *Z3Translator) VisitBinaryOperation(expr *symbolic.BinaryOperation) interface{} {
	left := expr.Left.Accept(zt).(z3.Value)
	right := expr.Right.Accept(zt).(z3.Value)

	switch expr.Operator {
	case symbolic.ADD:
		return left.(z3.Int).Add(right.(z3.Int))
	case symbolic.SUB:
		return left.(z3.Int).Sub(right.(z3.Int))
	case symbolic.MUL:
		return left.(z3.Int).Mul(right.(z3.Int))
	case symbolic.DIV:
		return left.(z3.Int).Div(right.(z3.Int))
	case symbolic.MOD:
		return left.(z3.Int).Mod(right.(z3.Int))
	case symbolic.EQ:
		if expr.Left.Type() == symbolic.BoolType {
			return left.(z3.Bool).Eq(right.(z3.Bool))
		}
		return left.(z3.Int).Eq(right.(z3.Int))
	case symbolic.NE:
		if expr.Left.Type() == symbolic.BoolType {
			return left.(z3.Bool).Eq(right.(z3.Bool)).Not()
		}
		return left.(z3.Int).Eq(right.(z3.Int)).Not()
	case symbolic.LT:
		return left.(z3.Int).LT(right.(z3.Int))
	case symbolic.LE:
		return left.(z3.Int).LE(right.(z3.Int))
	case symbolic.GT:
		return left.(z3.Int).GT(right.(z3.Int))
	case symbolic.GE:
		return left.(z3.Int).GE(right.(z3.Int))
	default:
		panic(fmt.Sprintf("translator: unknown binary operator %v", expr.Operator))
	}
}

func (zt *Z3Translator) VisitLogicalOperation(expr *symbolic.LogicalOperation) interface{} {
	operands := make([]z3.Bool, len(expr.Operands))
	for i, op := range expr.Operands {
		operands[i] = op.Accept(zt).(z3.Bool)
	}

	switch expr.Operator {
	case symbolic.AND:
		result := operands[0]
		for i := 1; i < len(operands); i++ {
			result = result.And(operands[i])
		}
		return result
	case symbolic.OR:
		result := operands[0]
		for i := 1; i < len(operands); i++ {
			result = result.Or(operands[i])
		}
		return result
	case symbolic.NOT:
		if len(operands) != 1 {
			panic("translator: NOT takes exactly one operand")
		}
		return operands[0].Not()
	case symbolic.IMPLIES:
		if len(operands) != 2 {
			panic("translator: IMPLIES takes exactly two operands")
		}
		return operands[0].Implies(operands[1])
	default:
		panic(fmt.Sprintf("translator: unknown logical operator %v", expr.Operator))
	}
}

func (zt *Z3Translator) VisitUnaryOperation(expr *symbolic.UnaryOperation) interface{} {
	operand := expr.Operand.Accept(zt).(z3.Value)
	switch expr.Operator {
	case symbolic.UNARY_MINUS:
		return operand.(z3.Int).Neg()
	case symbolic.UNARY_NOT:
		return operand.(z3.Bool).Not()
	default:
		panic(fmt.Sprintf("translator: unknown unary operator %v", expr.Operator))
	}
}

// VisitRef has no Z3 counterpart: heap identity isn't part of the
// arithmetic/boolean theory this translator targets. A path condition
// should never directly reference a Ref.
func (zt *Z3Translator) VisitRef(expr *symbolic.Ref) interface{} {
	panic("translator: a path condition cannot reference a heap Ref directly")
}

func (zt *Z3Translator) VisitFieldAddr(expr *symbolic.FieldAddr) interface{} {
	panic("translator: a path condition cannot reference a field address directly")
}

func (zt *Z3Translator) VisitIndexAddr(expr *symbolic.IndexAddr) interface{} {
	panic("translator: a path condition cannot reference an element address directly")
}

func (zt *Z3Translator) createZ3Variable(name string, exprType symbolic.ExpressionType) z3.Value {
	switch exprType {
	case symbolic.IntType:
		return zt.ctx.IntConst(name)
	case symbolic.BoolType:
		return zt.ctx.BoolConst(name)
	default:
		panic(fmt.Sprintf("translator: unsupported variable type %v", exprType))
	}
}

var _ symbolic.Visitor = (*Z3Translator)(nil)
