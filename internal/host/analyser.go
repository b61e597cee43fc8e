// Package host is the hostapi.Host implementation: it parses a Go source
// file, lowers one function to SSA, and symbolically executes it with a
// priority-queue worklist, dispatching branch and terminal events to
// whichever hostapi.Observer the caller attached.
package host

import (
	"container/heap"
	"fmt"

	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/hostapi"
	"github.com/KnoooW/spf-wca/internal/host/memory"
	"github.com/KnoooW/spf-wca/internal/host/symbolic"
	"github.com/KnoooW/spf-wca/internal/host/translator"
	hostssa "github.com/KnoooW/spf-wca/internal/host/ssa"
	"github.com/KnoooW/spf-wca/internal/logging"

	"golang.org/x/tools/go/ssa"
)

// Analyser drives the worklist: it owns the solver, the priority queue and
// the running totals, and is shared by every Interpreter state forked from
// the initial one.
type Analyser struct {
	Package      *ssa.Package
	StatesQueue  PriorityQueue
	PathSelector PathSelector
	Results      []Interpreter
	Z3Translator translator.Translator

	// NoSolver skips the Z3 feasibility check at every branch, trading
	// pruning for speed — the config.HeuristicConfig.NoSolver knob.
	NoSolver bool

	// Observer, when set, receives a BranchEvent at every conditional
	// branch and a TerminalEvent at every finished state. nil means run
	// unobserved (used by tests and standalone exploration).
	Observer hostapi.Observer

	maxSteps     int
	stepsCounter int
	log          *logging.Logger
}

func (a *Analyser) observer() hostapi.Observer {
	if a == nil {
		return nil
	}
	return a.Observer
}

// historyHandle adapts a plain decision slice to hostapi.HistoryHandle.
type historyHandle []decision.Decision

func (h historyHandle) History() []decision.Decision {
	return []decision.Decision(h)
}

// restrictingDecider is the hostapi.Decider passed to the observer at each
// branch; it records the narrowed choice set, if any.
type restrictingDecider struct {
	restricted []int
}

func (d *restrictingDecider) Restrict(choices []int) {
	if len(choices) == 0 {
		panic("host: Restrict called with an empty choice set")
	}
	d.restricted = choices
}

// SSAHost is the hostapi.Host implementation bound to one parsed function.
// Run explores it at a given input size, mapped onto the per-loop unroll
// bound — the interpreter has no other concrete notion of problem size,
// since every value the function under test receives is symbolic.
type SSAHost struct {
	fn       *ssa.Function
	selector PathSelector
	maxSteps int
	noSolver bool
	log      *logging.Logger
}

// NewSSAHost parses source and builds the SSA form of funcName, returning
// a host ready to run at any input size.
func NewSSAHost(source, funcName string, selector PathSelector, maxSteps int, noSolver bool, log *logging.Logger) (*SSAHost, error) {
	builder := hostssa.NewBuilder()
	fn, err := builder.ParseAndBuildSSA(source, funcName)
	if err != nil {
		return nil, err
	}
	if selector == nil {
		selector = &DfsPathSelector{}
	}
	if log == nil {
		log = logging.Default()
	}
	return &SSAHost{fn: fn, selector: selector, maxSteps: maxSteps, noSolver: noSolver, log: log}, nil
}

var _ hostapi.Host = (*SSAHost)(nil)

// Run explores the bound function at inputSize, dispatching to obs and
// returning once the worklist drains or the step budget is exhausted.
func (h *SSAHost) Run(inputSize int, obs hostapi.Observer) error {
	z3 := translator.NewZ3Translator()
	defer z3.Close()

	analyser := &Analyser{
		Package:      h.fn.Pkg,
		StatesQueue:  make(PriorityQueue, 0),
		PathSelector: h.selector,
		Results:      make([]Interpreter, 0),
		Z3Translator: z3,
		NoSolver:     h.noSolver,
		Observer:     obs,
		maxSteps:     h.maxSteps,
		log:          h.log,
	}

	initial := createInitialInterpreter(h.fn, analyser)
	initial.maxLoopUnroll = unrollBoundFor(inputSize)

	heap.Init(&analyser.StatesQueue)
	heap.Push(&analyser.StatesQueue, &Item{
		value:    initial,
		priority: analyser.PathSelector.CalculatePriority(*initial),
	})

	for analyser.StatesQueue.Len() > 0 && analyser.stepsCounter < analyser.maxSteps {
		item := heap.Pop(&analyser.StatesQueue).(*Item)
		interpreter := item.value
		interpreter.Analyser = analyser
		analyser.stepsCounter++

		if interpreter.IsFinished() {
			analyser.finish(interpreter)
			continue
		}

		nextInstruction := interpreter.GetNextInstruction()
		if nextInstruction == nil {
			analyser.finish(interpreter)
			continue
		}

		for _, newState := range interpreter.InterpretDynamically(nextInstruction) {
			newState.Analyser = analyser
			heap.Push(&analyser.StatesQueue, &Item{
				value:    newState,
				priority: analyser.PathSelector.CalculatePriority(*newState),
			})
		}
	}

	return nil
}

func (a *Analyser) finish(interpreter *Interpreter) {
	a.Results = append(a.Results, *interpreter)
	if a.Observer != nil {
		a.Observer.OnTerminal(hostapi.TerminalEvent{
			Cost:    interpreter.stepCount,
			History: historyHandle(interpreter.history),
		})
	}
}

// unrollBoundFor maps an abstract problem size onto the per-loop unroll
// bound: the only concrete handle this symbolic interpreter has on "how
// big is the input" is "how many times can a loop over it actually run".
func unrollBoundFor(inputSize int) int {
	if inputSize < 1 {
		return 1
	}
	return inputSize
}

func createInitialInterpreter(fn *ssa.Function, analyser *Analyser) *Interpreter {
	initialFrame := CallStackFrame{
		Function:     fn,
		LocalMemory:  make(map[string]symbolic.SymbolicExpression),
		ActivationID: newActivationID(),
	}

	for _, param := range fn.Params {
		switch param.Type().String() {
		case "int":
			initialFrame.LocalMemory[param.Name()] = symbolic.NewSymbolicVariable(param.Name(), symbolic.IntType)
		case "bool":
			initialFrame.LocalMemory[param.Name()] = symbolic.NewSymbolicVariable(param.Name(), symbolic.BoolType)
		default:
			initialFrame.LocalMemory[param.Name()] = symbolic.NewSymbolicVariable(param.Name(), symbolic.IntType)
		}
	}

	return &Interpreter{
		CallStack:     []CallStackFrame{initialFrame},
		Analyser:      analyser,
		PathCondition: symbolic.NewBoolConstant(true),
		Heap:          memory.NewSymbolicMemory(),
		currentBlock:  fn.Blocks[0],
		instrIndex:    0,
	}
}

// Describe returns a one-line summary of fn: its name and block count.
func Describe(fn *ssa.Function) string {
	return fmt.Sprintf("function %s: %d block(s)", fn.Name(), len(fn.Blocks))
}
