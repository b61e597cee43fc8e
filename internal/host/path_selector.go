package host

import (
	"math/rand"

	"github.com/KnoooW/spf-wca/internal/host/symbolic"
	"github.com/KnoooW/spf-wca/internal/host/translator"
)

// PathSelector orders the worklist: CalculatePriority gives the priority a
// new exploration state is pushed onto the heap with (container/heap pops
// the smallest value first).
type PathSelector interface {
	CalculatePriority(interpreter Interpreter) int
}

// DfsPathSelector favors whichever state was discovered most recently.
type DfsPathSelector struct {
	counter int
}

func (dfs *DfsPathSelector) CalculatePriority(interpreter Interpreter) int {
	dfs.counter--
	return dfs.counter
}

// BfsPathSelector favors whichever state was discovered earliest.
type BfsPathSelector struct {
	counter int
}

func (bfs *BfsPathSelector) CalculatePriority(interpreter Interpreter) int {
	bfs.counter++
	return bfs.counter
}

// RandomPathSelector assigns an arbitrary priority to every state.
type RandomPathSelector struct{}

func (random *RandomPathSelector) CalculatePriority(interpreter Interpreter) int {
	return rand.Int()
}

// DepthPathSelector favors states deeper in the call stack and the
// executed block, approximating a best-first deepening search.
type DepthPathSelector struct{}

func (dps *DepthPathSelector) CalculatePriority(interpreter Interpreter) int {
	return -(interpreter.instrIndex + len(interpreter.CallStack)*1000)
}

// ComplexityPathSelector favors states whose accumulated path condition is
// syntactically simplest, on the theory that simple conditions are cheaper
// for the solver to resolve and explore first.
type ComplexityPathSelector struct {
	translator *translator.Z3Translator
}

func NewComplexityPathSelector(translator *translator.Z3Translator) *ComplexityPathSelector {
	return &ComplexityPathSelector{
		translator: translator,
	}
}

func (cps *ComplexityPathSelector) CalculatePriority(interpreter Interpreter) int {
	return estimateComplexity(interpreter.PathCondition)
}

func estimateComplexity(expr symbolic.SymbolicExpression) int {
	switch e := expr.(type) {
	case *symbolic.SymbolicVariable:
		return 1
	case *symbolic.IntConstant, *symbolic.BoolConstant:
		return 1
	case *symbolic.BinaryOperation:
		return 1 + estimateComplexity(e.Left) + estimateComplexity(e.Right)
	case *symbolic.LogicalOperation:
		sum := 1
		for _, op := range e.Operands {
			sum += estimateComplexity(op)
		}
		return sum
	case *symbolic.UnaryOperation:
		return 1 + estimateComplexity(e.Operand)
	case *symbolic.Ref:
		return 1
	default:
		return 1
	}
}
