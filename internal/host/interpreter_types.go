package host

import (
	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/host/symbolic"

	"golang.org/x/tools/go/ssa"
)

// Interpreter is one exploration state: a partial symbolic execution of the
// function under test, sitting at a specific instruction with an
// accumulated path condition, call stack, and heap. Branching produces
// copies; the worklist in Analyser owns their scheduling.
type Interpreter struct {
	CallStack     []CallStackFrame
	Analyser      *Analyser
	PathCondition symbolic.SymbolicExpression
	Heap          HeapInterface

	currentBlock *ssa.BasicBlock
	instrIndex   int

	loopCounters  map[string]int
	maxLoopUnroll int
	visitedBlocks map[string]bool

	prevBlock       *ssa.BasicBlock
	blockVisitCount map[string]int

	// history is the sequence of branch Decisions taken to reach this
	// state, in order. It is what gets reported as hostapi.HistoryHandle
	// and recorded into the policy trie.
	history []decision.Decision

	// stepCount is the number of SSA instructions this state has
	// executed; it is the cost reported at hostapi.TerminalEvent.
	stepCount int
}

type CallStackFrame struct {
	Function    *ssa.Function
	LocalMemory map[string]symbolic.SymbolicExpression
	ReturnValue symbolic.SymbolicExpression

	// ActivationID identifies this activation for context-preserving history:
	// it is minted once, when the frame is pushed, and carried verbatim
	// through every Copy() of the interpreter that still holds this frame.
	// Comparing ActivationIDs (not frame pointers, which a fork always
	// reallocates) is what lets two Decisions recognize they were made in
	// the same call.
	ActivationID uint64
}

var nextActivationID uint64

// newActivationID mints a fresh activation id for a newly pushed call frame.
func newActivationID() uint64 {
	nextActivationID++
	return nextActivationID
}

type HeapInterface interface {
	Allocate(exprType symbolic.ExpressionType) *symbolic.Ref
	AssignField(ref *symbolic.Ref, fieldIndex int, value symbolic.SymbolicExpression)
	GetFieldValue(ref *symbolic.Ref, fieldIndex int) symbolic.SymbolicExpression
	AssignToArray(ref *symbolic.Ref, index int, value symbolic.SymbolicExpression)
	GetFromArray(ref *symbolic.Ref, index int) symbolic.SymbolicExpression
}
