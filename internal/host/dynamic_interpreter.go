package host

import (
	"fmt"
	"go/constant"
	"strconv"
	"strings"

	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/hostapi"
	"github.com/KnoooW/spf-wca/internal/host/symbolic"

	"golang.org/x/tools/go/ssa"
)

const maxTotalUnrolls = 100
const defaultMaxLoopUnroll = 10

func (interpreter *Interpreter) GetCurrentFrame() *CallStackFrame {
	if len(interpreter.CallStack) == 0 {
		return nil
	}
	return &interpreter.CallStack[len(interpreter.CallStack)-1]
}

// bind stores value under name in the current frame's local memory — the
// common tail of every instruction handler below that produces a named SSA
// value. A blank name (the common case for instructions whose result is
// never referenced) is a no-op.
func (interpreter *Interpreter) bind(name string, value symbolic.SymbolicExpression) {
	if name == "" {
		return
	}
	if frame := interpreter.GetCurrentFrame(); frame != nil {
		frame.LocalMemory[name] = value
	}
}

func (interpreter *Interpreter) IsFinished() bool {
	return interpreter.currentBlock == nil ||
		len(interpreter.CallStack) == 0 ||
		interpreter.instrIndex >= len(interpreter.currentBlock.Instrs)
}

func (interpreter *Interpreter) GetNextInstruction() ssa.Instruction {
	if interpreter.IsFinished() {
		return nil
	}
	return interpreter.currentBlock.Instrs[interpreter.instrIndex]
}

func (interpreter *Interpreter) initLoopSupport() {
	if interpreter.loopCounters == nil {
		interpreter.loopCounters = make(map[string]int)
	}
	if interpreter.visitedBlocks == nil {
		interpreter.visitedBlocks = make(map[string]bool)
	}
	if interpreter.maxLoopUnroll == 0 {
		interpreter.maxLoopUnroll = defaultMaxLoopUnroll
	}
	if interpreter.blockVisitCount == nil {
		interpreter.blockVisitCount = make(map[string]int)
	}
}

func (interpreter *Interpreter) Copy() *Interpreter {
	newInterpreter := &Interpreter{
		CallStack:       make([]CallStackFrame, len(interpreter.CallStack)),
		Analyser:        interpreter.Analyser,
		PathCondition:   interpreter.PathCondition,
		Heap:            interpreter.Heap,
		currentBlock:    interpreter.currentBlock,
		instrIndex:      interpreter.instrIndex,
		loopCounters:    make(map[string]int),
		maxLoopUnroll:   interpreter.maxLoopUnroll,
		visitedBlocks:   make(map[string]bool),
		blockVisitCount: make(map[string]int),
		prevBlock:       interpreter.prevBlock,
		history:         append([]decision.Decision{}, interpreter.history...),
		stepCount:       interpreter.stepCount,
	}

	for k, v := range interpreter.loopCounters {
		newInterpreter.loopCounters[k] = v
	}
	for k, v := range interpreter.visitedBlocks {
		newInterpreter.visitedBlocks[k] = v
	}
	for k, v := range interpreter.blockVisitCount {
		newInterpreter.blockVisitCount[k] = v
	}

	for i, frame := range interpreter.CallStack {
		newFrame := CallStackFrame{
			Function:     frame.Function,
			LocalMemory:  make(map[string]symbolic.SymbolicExpression),
			ReturnValue:  frame.ReturnValue,
			ActivationID: frame.ActivationID,
		}
		for k, v := range frame.LocalMemory {
			newFrame.LocalMemory[k] = v
		}
		newInterpreter.CallStack[i] = newFrame
	}

	return newInterpreter
}

// InterpretDynamically executes one SSA instruction against this state and
// returns the states it forks into — one, for every instruction except a
// feasible conditional branch, which forks into as many states as the host
// and solver leave open.
func (interpreter *Interpreter) InterpretDynamically(element ssa.Instruction) []*Interpreter {
	interpreter.initLoopSupport()
	interpreter.stepCount++

	switch instr := element.(type) {
	case *ssa.Return:
		return interpreter.interpretReturn(instr)
	case *ssa.If:
		return interpreter.interpretIf(instr)
	case *ssa.Jump:
		return interpreter.interpretJump(instr)
	case *ssa.UnOp:
		if instr.Op.String() == "Load" {
			return interpreter.interpretLoad(instr)
		}
		return interpreter.interpretUnOp(instr)
	case *ssa.BinOp:
		return interpreter.interpretBinOp(instr)
	case *ssa.Store:
		return interpreter.interpretStore(instr)
	case *ssa.Alloc:
		return interpreter.interpretAlloc(instr)
	case *ssa.Phi:
		return interpreter.interpretPhi(instr)
	case *ssa.ChangeType:
		interpreter.instrIndex++
		return []*Interpreter{interpreter}
	case *ssa.Convert:
		return interpreter.interpretConvert(instr)
	case *ssa.Call:
		return interpreter.interpretCall(instr)
	case *ssa.MakeInterface:
		return interpreter.interpretMakeInterface(instr)
	case *ssa.FieldAddr:
		return interpreter.interpretFieldAddr(instr)
	case *ssa.Field:
		return interpreter.interpretField(instr)
	case *ssa.IndexAddr:
		return interpreter.interpretIndexAddr(instr)
	case *ssa.Index:
		return interpreter.interpretIndex(instr)
	default:
		interpreter.instrIndex++
		return []*Interpreter{interpreter}
	}
}

func (interpreter *Interpreter) ResolveExpression(value ssa.Value) symbolic.SymbolicExpression {
	if value == nil {
		return symbolic.NewIntConstant(0)
	}

	if value.Name() != "" {
		frame := interpreter.GetCurrentFrame()
		if frame != nil {
			if expr, ok := frame.LocalMemory[value.Name()]; ok {
				return expr
			}
		}
	}

	switch v := value.(type) {
	case *ssa.Const:
		return interpreter.resolveConst(v)
	case *ssa.UnOp:
		if v.Op.String() == "Load" {
			return interpreter.resolveLoad(v)
		}
		return interpreter.resolveUnOp(v)
	case *ssa.BinOp:
		return interpreter.resolveBinOp(v)
	case *ssa.Parameter:
		return interpreter.resolveParameter(v)
	case *ssa.Alloc:
		return interpreter.resolveAlloc(v)
	case *ssa.Phi:
		return interpreter.resolvePhi(v)
	case *ssa.Call:
		return interpreter.resolveCall(v)
	case *ssa.ChangeType:
		return interpreter.ResolveExpression(v.X)
	case *ssa.Convert:
		return interpreter.ResolveExpression(v.X)
	case *ssa.MakeInterface:
		return interpreter.ResolveExpression(v.X)
	case *ssa.FieldAddr:
		return interpreter.resolveFieldAddr(v)
	case *ssa.Field:
		return interpreter.resolveField(v)
	case *ssa.IndexAddr:
		return interpreter.resolveIndexAddr(v)
	case *ssa.Index:
		return interpreter.resolveIndex(v)
	default:
		if v != nil && v.Name() != "" {
			var exprType symbolic.ExpressionType
			typeStr := v.Type().String()
			if strings.Contains(typeStr, "int") {
				exprType = symbolic.IntType
			} else if typeStr == "bool" {
				exprType = symbolic.BoolType
			} else {
				exprType = symbolic.IntType
			}
			return symbolic.NewSymbolicVariable(v.Name(), exprType)
		}
		return symbolic.NewIntConstant(0)
	}
}

func (interpreter *Interpreter) interpretReturn(instr *ssa.Return) []*Interpreter {
	frame := interpreter.GetCurrentFrame()

	if len(instr.Results) > 0 {
		frame.ReturnValue = interpreter.ResolveExpression(instr.Results[0])
	}

	interpreter.currentBlock = nil
	return []*Interpreter{interpreter}
}

// branchSite identifies a conditional branch instruction by its static
// location: the function it belongs to plus its position within that
// function's blocks. Loop unrolling revisits the same block repeatedly but
// never creates new ones, so this identifier is stable across explorations
// of the same function at any input size — exactly the branchId a policy
// learned at N0 needs in order to still apply at other values of n.
func branchSite(instr *ssa.If) decision.BranchInstruction {
	block := instr.Block()
	return decision.BranchInstruction{
		Site: fmt.Sprintf("%s@block%d", block.Parent().Name(), block.Index),
	}
}

// interpretIf forks on a conditional branch. Each of the two successor
// edges is checked against the path condition it would extend with the
// attached Z3Translator (unless the host disabled solving); an edge the
// solver proves infeasible is dropped before it ever becomes a choice.
// What survives is offered to the attached hostapi.Observer as a
// BranchEvent, whose Decider may narrow it further.
func (interpreter *Interpreter) interpretIf(instr *ssa.If) []*Interpreter {
	condExpr := interpreter.ResolveExpression(instr.Cond)
	notCond := symbolic.NewUnaryOperation(condExpr, symbolic.UNARY_NOT)

	edgeConditions := [2]symbolic.SymbolicExpression{
		symbolic.NewLogicalOperation([]symbolic.SymbolicExpression{interpreter.PathCondition, condExpr}, symbolic.AND),
		symbolic.NewLogicalOperation([]symbolic.SymbolicExpression{interpreter.PathCondition, notCond}, symbolic.AND),
	}

	available := make([]int, 0, 2)
	for edge := 0; edge < 2; edge++ {
		if edge >= len(instr.Block().Succs) {
			continue
		}
		if interpreter.feasible(edgeConditions[edge]) {
			available = append(available, edge)
		}
	}

	if len(available) == 0 {
		interpreter.currentBlock = nil
		return []*Interpreter{interpreter}
	}

	site := branchSite(instr)
	chosen := available

	// Decisions are keyed by activation, not by frame pointer: Copy()
	// reallocates every CallStackFrame on each fork, so two decisions made
	// in the same logical call would never compare SameContext if the frame
	// pointer itself were the contextId.
	activationID := interpreter.currentActivationID()

	if obs := interpreter.Analyser.observer(); obs != nil {
		decider := &restrictingDecider{}
		obs.OnBranch(hostapi.BranchEvent{
			BranchID:         site.Site,
			AvailableChoices: available,
			Context:          activationID,
			History:          historyHandle(interpreter.history),
		}, decider)
		if decider.restricted != nil {
			chosen = decider.restricted
		}
	}

	results := make([]*Interpreter, 0, len(chosen))
	for _, edge := range chosen {
		branch := interpreter.Copy()
		branch.PathCondition = edgeConditions[edge]
		branch.prevBlock = interpreter.currentBlock
		branch.currentBlock = instr.Block().Succs[edge]
		branch.instrIndex = 0
		branch.history = append(branch.history, decision.FromBranch(site, edge, activationID))
		results = append(results, branch)
	}
	return results
}

// currentActivationID returns the stable identity of the current call
// frame's activation, or nil if there is no current frame.
func (interpreter *Interpreter) currentActivationID() decision.ContextID {
	frame := interpreter.GetCurrentFrame()
	if frame == nil {
		return nil
	}
	return frame.ActivationID
}

// feasible reports whether cond can still be true, consulting the
// attached Z3 solver unless the host has disabled it — in which case every
// edge is assumed feasible and exploration relies on the loop/step bounds
// alone to terminate.
func (interpreter *Interpreter) feasible(cond symbolic.SymbolicExpression) bool {
	if interpreter.Analyser == nil || interpreter.Analyser.NoSolver || interpreter.Analyser.Z3Translator == nil {
		return true
	}
	sat, err := interpreter.Analyser.Z3Translator.IsSatisfiable(cond)
	if err != nil {
		// A solver failure must not silently prune a reachable branch.
		return true
	}
	return sat
}

func (interpreter *Interpreter) interpretJump(instr *ssa.Jump) []*Interpreter {
	if len(instr.Block().Succs) == 0 {
		interpreter.currentBlock = nil
		return []*Interpreter{interpreter}
	}

	nextBlock := instr.Block().Succs[0]
	interpreter.prevBlock = interpreter.currentBlock

	blockKey := fmt.Sprintf("%p", nextBlock)
	visitCount := interpreter.blockVisitCount[blockKey]

	if visitCount >= interpreter.maxLoopUnroll || interpreter.totalUnrolls() >= maxTotalUnrolls {
		if exitBlock := interpreter.findLoopExit(nextBlock); exitBlock != nil {
			interpreter.currentBlock = exitBlock
			interpreter.instrIndex = 0
		} else {
			interpreter.currentBlock = nil
		}
		return []*Interpreter{interpreter}
	}

	interpreter.blockVisitCount[blockKey] = visitCount + 1
	interpreter.currentBlock = nextBlock
	interpreter.instrIndex = 0
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) totalUnrolls() int {
	total := 0
	for _, count := range interpreter.blockVisitCount {
		total += count
	}
	return total
}

// findLoopExit walks forward from loopHeader looking for the first block
// that either returns or does not lead back into the loop — used once
// unrolling hits its bound, to continue the state past the loop instead of
// abandoning it.
func (interpreter *Interpreter) findLoopExit(loopHeader *ssa.BasicBlock) *ssa.BasicBlock {
	visited := make(map[*ssa.BasicBlock]bool)
	var queue []*ssa.BasicBlock

	for _, succ := range loopHeader.Succs {
		if succ != nil && succ != loopHeader {
			queue = append(queue, succ)
		}
	}

	for len(queue) > 0 {
		block := queue[0]
		queue = queue[1:]

		if visited[block] {
			continue
		}
		visited[block] = true

		for _, instr := range block.Instrs {
			if _, ok := instr.(*ssa.Return); ok {
				return block
			}
		}

		isPartOfLoop := false
		for _, succ := range block.Succs {
			if succ == loopHeader {
				isPartOfLoop = true
				break
			}
		}
		if !isPartOfLoop {
			return block
		}

		for _, succ := range block.Succs {
			if succ != nil && !visited[succ] {
				queue = append(queue, succ)
			}
		}
	}

	return nil
}

func (interpreter *Interpreter) interpretUnOp(instr *ssa.UnOp) []*Interpreter {
	operand := interpreter.ResolveExpression(instr.X)

	var unaryOp symbolic.UnaryOperator
	switch instr.Op.String() {
	case "-":
		unaryOp = symbolic.UNARY_MINUS
	case "!":
		unaryOp = symbolic.UNARY_NOT
	default:
		interpreter.instrIndex++
		return []*Interpreter{interpreter}
	}

	result := simplifyExpression(symbolic.NewUnaryOperation(operand, unaryOp))
	interpreter.bind(instr.Name(), result)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretBinOp(instr *ssa.BinOp) []*Interpreter {
	left := interpreter.ResolveExpression(instr.X)
	right := interpreter.ResolveExpression(instr.Y)

	opStr := strings.Trim(instr.Op.String(), "\"'")

	var binOp symbolic.BinaryOperator
	var result symbolic.SymbolicExpression

	switch opStr {
	case "+":
		binOp = symbolic.ADD
	case "-":
		binOp = symbolic.SUB
	case "*":
		binOp = symbolic.MUL
	case "/":
		binOp = symbolic.DIV
	case "%":
		binOp = symbolic.MOD
	case "==":
		binOp = symbolic.EQ
	case "!=":
		binOp = symbolic.NE
	case "<":
		binOp = symbolic.LT
	case "<=":
		binOp = symbolic.LE
	case ">":
		binOp = symbolic.GT
	case ">=":
		binOp = symbolic.GE
	case "&&":
		result = simplifyExpression(symbolic.NewLogicalOperation([]symbolic.SymbolicExpression{left, right}, symbolic.AND))
	case "||":
		result = simplifyExpression(symbolic.NewLogicalOperation([]symbolic.SymbolicExpression{left, right}, symbolic.OR))
	case "&", "|", "^", "<<", ">>", "&^":
		interpreter.instrIndex++
		return []*Interpreter{interpreter}
	default:
		interpreter.instrIndex++
		return []*Interpreter{interpreter}
	}

	if result == nil {
		result = simplifyExpression(symbolic.NewBinaryOperation(left, right, binOp))
	}
	interpreter.bind(instr.Name(), result)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretAlloc(instr *ssa.Alloc) []*Interpreter {
	ref := interpreter.Heap.Allocate(allocatedType(instr.Type().String()))
	interpreter.bind(instr.Name(), ref)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func allocatedType(typeStr string) symbolic.ExpressionType {
	switch {
	case strings.Contains(typeStr, "struct"):
		return symbolic.StructType
	case strings.Contains(typeStr, "[") && strings.Contains(typeStr, "]"):
		return symbolic.ArrayType
	case strings.Contains(typeStr, "int"):
		return symbolic.IntType
	default:
		return symbolic.RefType
	}
}

func (interpreter *Interpreter) interpretConvert(instr *ssa.Convert) []*Interpreter {
	operand := interpreter.ResolveExpression(instr.X)
	interpreter.bind(instr.Name(), operand)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretStore(instr *ssa.Store) []*Interpreter {
	addr := interpreter.ResolveExpression(instr.Addr)
	value := interpreter.ResolveExpression(instr.Val)

	switch a := addr.(type) {
	case *symbolic.FieldAddr:
		interpreter.Heap.AssignField(a.Ref, a.FieldIndex, value)
	case *symbolic.IndexAddr:
		interpreter.Heap.AssignToArray(a.Ref, a.Index, value)
	case *symbolic.Ref:
		interpreter.Heap.AssignField(a, 0, value)
	}

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretPhi(instr *ssa.Phi) []*Interpreter {
	frame := interpreter.GetCurrentFrame()
	if frame == nil {
		interpreter.instrIndex++
		return []*Interpreter{interpreter}
	}

	var result symbolic.SymbolicExpression
	if interpreter.prevBlock != nil {
		for i, pred := range instr.Block().Preds {
			if pred == interpreter.prevBlock && i < len(instr.Edges) {
				result = interpreter.ResolveExpression(instr.Edges[i])
				break
			}
		}
	}
	if result == nil && len(instr.Edges) > 0 {
		result = interpreter.ResolveExpression(instr.Edges[0])
	}
	if result == nil {
		result = symbolic.NewIntConstant(0)
	}
	result = simplifyExpression(result)
	interpreter.bind(instr.Name(), result)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretCall(instr *ssa.Call) []*Interpreter {
	funcName := "call_result"
	if instr.Call.Value != nil && instr.Call.Value.Name() != "" {
		funcName = instr.Call.Value.Name()
	}
	interpreter.bind(instr.Name(), symbolic.NewSymbolicVariable(funcName, symbolic.IntType))

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretMakeInterface(instr *ssa.MakeInterface) []*Interpreter {
	value := interpreter.ResolveExpression(instr.X)
	interpreter.bind(instr.Name(), value)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretFieldAddr(instr *ssa.FieldAddr) []*Interpreter {
	base := interpreter.ResolveExpression(instr.X)

	var result symbolic.SymbolicExpression
	if ref, ok := base.(*symbolic.Ref); ok {
		result = symbolic.NewFieldAddr(ref, instr.Field)
	} else {
		result = symbolic.NewSymbolicVariable(instr.Name(), symbolic.RefType)
	}
	interpreter.bind(instr.Name(), result)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretField(instr *ssa.Field) []*Interpreter {
	base := interpreter.ResolveExpression(instr.X)

	var result symbolic.SymbolicExpression
	if ref, ok := base.(*symbolic.Ref); ok {
		result = interpreter.Heap.GetFieldValue(ref, instr.Field)
	} else {
		result = symbolic.NewIntConstant(0)
	}
	interpreter.bind(instr.Name(), result)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretIndexAddr(instr *ssa.IndexAddr) []*Interpreter {
	base := interpreter.ResolveExpression(instr.X)
	index := interpreter.ResolveExpression(instr.Index)

	var result symbolic.SymbolicExpression
	if ref, ok := base.(*symbolic.Ref); ok {
		if indexConst, ok := index.(*symbolic.IntConstant); ok {
			result = symbolic.NewIndexAddr(ref, int(indexConst.Value))
		} else {
			result = symbolic.NewIndexAddr(ref, 0)
		}
	} else {
		result = symbolic.NewSymbolicVariable(instr.Name(), symbolic.RefType)
	}
	interpreter.bind(instr.Name(), result)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretIndex(instr *ssa.Index) []*Interpreter {
	base := interpreter.ResolveExpression(instr.X)
	index := interpreter.ResolveExpression(instr.Index)

	var result symbolic.SymbolicExpression
	if ref, ok := base.(*symbolic.Ref); ok {
		if indexConst, ok := index.(*symbolic.IntConstant); ok {
			result = interpreter.Heap.GetFromArray(ref, int(indexConst.Value))
		} else {
			result = symbolic.NewIntConstant(0)
		}
	} else {
		result = symbolic.NewIntConstant(0)
	}
	interpreter.bind(instr.Name(), result)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) interpretLoad(instr *ssa.UnOp) []*Interpreter {
	addr := interpreter.ResolveExpression(instr.X)
	result := simplifyExpression(interpreter.loadAddr(addr))
	interpreter.bind(instr.Name(), result)

	interpreter.instrIndex++
	return []*Interpreter{interpreter}
}

func (interpreter *Interpreter) loadAddr(addr symbolic.SymbolicExpression) symbolic.SymbolicExpression {
	switch a := addr.(type) {
	case *symbolic.Ref:
		return interpreter.Heap.GetFieldValue(a, 0)
	case *symbolic.FieldAddr:
		return interpreter.Heap.GetFieldValue(a.Ref, a.FieldIndex)
	case *symbolic.IndexAddr:
		return interpreter.Heap.GetFromArray(a.Ref, a.Index)
	default:
		return symbolic.NewIntConstant(0)
	}
}

func (interpreter *Interpreter) resolveLoad(l *ssa.UnOp) symbolic.SymbolicExpression {
	if l.Name() != "" {
		if frame := interpreter.GetCurrentFrame(); frame != nil {
			if expr, ok := frame.LocalMemory[l.Name()]; ok {
				return expr
			}
		}
	}
	return simplifyExpression(interpreter.loadAddr(interpreter.ResolveExpression(l.X)))
}

func (interpreter *Interpreter) resolveConst(c *ssa.Const) symbolic.SymbolicExpression {
	if c.IsNil() || c.Value == nil {
		return symbolic.NewIntConstant(0)
	}

	switch c.Value.Kind() {
	case constant.Int:
		if intVal, ok := constant.Int64Val(c.Value); ok {
			return symbolic.NewIntConstant(intVal)
		}
	case constant.Bool:
		return symbolic.NewBoolConstant(constant.BoolVal(c.Value))
	case constant.Float:
		if floatStr := c.Value.String(); floatStr != "" {
			if f, err := strconv.ParseFloat(floatStr, 64); err == nil {
				return symbolic.NewIntConstant(int64(f))
			}
		}
	}

	return symbolic.NewIntConstant(0)
}

func (interpreter *Interpreter) resolveUnOp(u *ssa.UnOp) symbolic.SymbolicExpression {
	if u.Name() != "" {
		if frame := interpreter.GetCurrentFrame(); frame != nil {
			if expr, ok := frame.LocalMemory[u.Name()]; ok {
				return expr
			}
		}
	}

	operand := interpreter.ResolveExpression(u.X)

	var unaryOp symbolic.UnaryOperator
	switch u.Op.String() {
	case "-":
		unaryOp = symbolic.UNARY_MINUS
	case "!":
		unaryOp = symbolic.UNARY_NOT
	default:
		return operand
	}

	return simplifyExpression(symbolic.NewUnaryOperation(operand, unaryOp))
}

func (interpreter *Interpreter) resolveBinOp(b *ssa.BinOp) symbolic.SymbolicExpression {
	if b.Name() != "" {
		if frame := interpreter.GetCurrentFrame(); frame != nil {
			if expr, ok := frame.LocalMemory[b.Name()]; ok {
				return expr
			}
		}
	}

	left := interpreter.ResolveExpression(b.X)
	right := interpreter.ResolveExpression(b.Y)
	opStr := strings.Trim(b.Op.String(), "\"'")

	var binOp symbolic.BinaryOperator
	switch opStr {
	case "+":
		binOp = symbolic.ADD
	case "-":
		binOp = symbolic.SUB
	case "*":
		binOp = symbolic.MUL
	case "/":
		binOp = symbolic.DIV
	case "%":
		binOp = symbolic.MOD
	case "==":
		binOp = symbolic.EQ
	case "!=":
		binOp = symbolic.NE
	case "<":
		binOp = symbolic.LT
	case "<=":
		binOp = symbolic.LE
	case ">":
		binOp = symbolic.GT
	case ">=":
		binOp = symbolic.GE
	case "&&":
		return simplifyExpression(symbolic.NewLogicalOperation([]symbolic.SymbolicExpression{left, right}, symbolic.AND))
	case "||":
		return simplifyExpression(symbolic.NewLogicalOperation([]symbolic.SymbolicExpression{left, right}, symbolic.OR))
	default:
		return left
	}

	return simplifyExpression(symbolic.NewBinaryOperation(left, right, binOp))
}

func (interpreter *Interpreter) resolveParameter(p *ssa.Parameter) symbolic.SymbolicExpression {
	if frame := interpreter.GetCurrentFrame(); frame != nil {
		if val, ok := frame.LocalMemory[p.Name()]; ok {
			return val
		}
	}

	var exprType symbolic.ExpressionType
	typeStr := p.Type().String()
	if strings.Contains(typeStr, "int") {
		exprType = symbolic.IntType
	} else if typeStr == "bool" {
		exprType = symbolic.BoolType
	} else {
		exprType = symbolic.IntType
	}

	return symbolic.NewSymbolicVariable(p.Name(), exprType)
}

func (interpreter *Interpreter) resolveAlloc(a *ssa.Alloc) symbolic.SymbolicExpression {
	if frame := interpreter.GetCurrentFrame(); frame != nil && a.Name() != "" {
		if val, ok := frame.LocalMemory[a.Name()]; ok {
			return val
		}
	}
	return interpreter.Heap.Allocate(allocatedType(a.Type().String()))
}

func (interpreter *Interpreter) resolvePhi(phi *ssa.Phi) symbolic.SymbolicExpression {
	frame := interpreter.GetCurrentFrame()
	if frame != nil && phi.Name() != "" {
		if val, ok := frame.LocalMemory[phi.Name()]; ok {
			return val
		}
	}

	for _, edge := range phi.Edges {
		if edge != nil && edge.Name() != "" {
			if frame != nil {
				if expr, ok := frame.LocalMemory[edge.Name()]; ok {
					return simplifyExpression(expr)
				}
			}
		}
	}

	if len(phi.Edges) > 0 {
		return simplifyExpression(interpreter.ResolveExpression(phi.Edges[0]))
	}

	return symbolic.NewIntConstant(0)
}

func (interpreter *Interpreter) resolveCall(c *ssa.Call) symbolic.SymbolicExpression {
	if frame := interpreter.GetCurrentFrame(); frame != nil && c.Name() != "" {
		if val, ok := frame.LocalMemory[c.Name()]; ok {
			return val
		}
	}

	funcName := "call_result"
	if c.Call.Value != nil && c.Call.Value.Name() != "" {
		funcName = c.Call.Value.Name()
	}
	return symbolic.NewSymbolicVariable(funcName, symbolic.IntType)
}

func (interpreter *Interpreter) resolveFieldAddr(f *ssa.FieldAddr) symbolic.SymbolicExpression {
	if f.Name() != "" {
		if frame := interpreter.GetCurrentFrame(); frame != nil {
			if expr, ok := frame.LocalMemory[f.Name()]; ok {
				return expr
			}
		}
	}

	base := interpreter.ResolveExpression(f.X)
	if ref, ok := base.(*symbolic.Ref); ok {
		return symbolic.NewFieldAddr(ref, f.Field)
	}
	return symbolic.NewSymbolicVariable(f.Name(), symbolic.RefType)
}

func (interpreter *Interpreter) resolveField(f *ssa.Field) symbolic.SymbolicExpression {
	if f.Name() != "" {
		if frame := interpreter.GetCurrentFrame(); frame != nil {
			if expr, ok := frame.LocalMemory[f.Name()]; ok {
				return expr
			}
		}
	}

	base := interpreter.ResolveExpression(f.X)
	if ref, ok := base.(*symbolic.Ref); ok {
		return simplifyExpression(interpreter.Heap.GetFieldValue(ref, f.Field))
	}
	return symbolic.NewIntConstant(0)
}

func (interpreter *Interpreter) resolveIndexAddr(i *ssa.IndexAddr) symbolic.SymbolicExpression {
	if i.Name() != "" {
		if frame := interpreter.GetCurrentFrame(); frame != nil {
			if expr, ok := frame.LocalMemory[i.Name()]; ok {
				return expr
			}
		}
	}

	base := interpreter.ResolveExpression(i.X)
	index := interpreter.ResolveExpression(i.Index)

	if ref, ok := base.(*symbolic.Ref); ok {
		if indexConst, ok := index.(*symbolic.IntConstant); ok {
			return symbolic.NewIndexAddr(ref, int(indexConst.Value))
		}
		return symbolic.NewIndexAddr(ref, 0)
	}
	return symbolic.NewSymbolicVariable(i.Name(), symbolic.RefType)
}

func (interpreter *Interpreter) resolveIndex(i *ssa.Index) symbolic.SymbolicExpression {
	if i.Name() != "" {
		if frame := interpreter.GetCurrentFrame(); frame != nil {
			if expr, ok := frame.LocalMemory[i.Name()]; ok {
				return expr
			}
		}
	}

	base := interpreter.ResolveExpression(i.X)
	index := interpreter.ResolveExpression(i.Index)

	if ref, ok := base.(*symbolic.Ref); ok {
		if indexConst, ok := index.(*symbolic.IntConstant); ok {
			return simplifyExpression(interpreter.Heap.GetFromArray(ref, int(indexConst.Value)))
		}
	}
	return symbolic.NewIntConstant(0)
}

// simplifyExpression applies a handful of constant-folding and
// identity-element rewrites. It exists to keep path conditions small
// enough for the solver to stay cheap; it is not a general simplifier.
func simplifyExpression(expr symbolic.SymbolicExpression) symbolic.SymbolicExpression {
	if expr == nil {
		return expr
	}

	switch e := expr.(type) {
	case *symbolic.BinaryOperation:
		left := simplifyExpression(e.Left)
		right := simplifyExpression(e.Right)

		if leftConst, ok := left.(*symbolic.IntConstant); ok {
			if rightConst, ok := right.(*symbolic.IntConstant); ok {
				switch e.Operator {
				case symbolic.ADD:
					return symbolic.NewIntConstant(leftConst.Value + rightConst.Value)
				case symbolic.SUB:
					return symbolic.NewIntConstant(leftConst.Value - rightConst.Value)
				case symbolic.MUL:
					return symbolic.NewIntConstant(leftConst.Value * rightConst.Value)
				case symbolic.DIV:
					if rightConst.Value != 0 {
						return symbolic.NewIntConstant(leftConst.Value / rightConst.Value)
					}
				case symbolic.MOD:
					if rightConst.Value != 0 {
						return symbolic.NewIntConstant(leftConst.Value % rightConst.Value)
					}
				}
			}
		}

		if e.Operator == symbolic.ADD {
			if leftConst, ok := left.(*symbolic.IntConstant); ok && leftConst.Value == 0 {
				return right
			}
			if rightConst, ok := right.(*symbolic.IntConstant); ok && rightConst.Value == 0 {
				return left
			}
		}

		if e.Operator == symbolic.MUL {
			if leftConst, ok := left.(*symbolic.IntConstant); ok && leftConst.Value == 0 {
				return symbolic.NewIntConstant(0)
			}
			if rightConst, ok := right.(*symbolic.IntConstant); ok && rightConst.Value == 0 {
				return symbolic.NewIntConstant(0)
			}
		}

		if e.Operator == symbolic.SUB {
			if rightConst, ok := right.(*symbolic.IntConstant); ok && rightConst.Value == 0 {
				return left
			}
		}

		if left != e.Left || right != e.Right {
			return symbolic.NewBinaryOperation(left, right, e.Operator)
		}
		return expr

	case *symbolic.UnaryOperation:
		operand := simplifyExpression(e.Operand)

		if operandConst, ok := operand.(*symbolic.IntConstant); ok {
			switch e.Operator {
			case symbolic.UNARY_MINUS:
				return symbolic.NewIntConstant(-operandConst.Value)
			case symbolic.UNARY_NOT:
				return symbolic.NewBoolConstant(operandConst.Value == 0)
			}
		}

		if e.Operator == symbolic.UNARY_NOT {
			if nestedUnary, ok := operand.(*symbolic.UnaryOperation); ok && nestedUnary.Operator == symbolic.UNARY_NOT {
				return simplifyExpression(nestedUnary.Operand)
			}
		}

		if operand != e.Operand {
			return symbolic.NewUnaryOperation(operand, e.Operator)
		}
		return expr

	case *symbolic.LogicalOperation:
		simplifiedOperands := make([]symbolic.SymbolicExpression, len(e.Operands))
		changed := false

		for i, operand := range e.Operands {
			simplified := simplifyExpression(operand)
			simplifiedOperands[i] = simplified
			if simplified != operand {
				changed = true
			}
		}

		if changed {
			return symbolic.NewLogicalOperation(simplifiedOperands, e.Operator)
		}
		return expr

	default:
		return expr
	}
}

func (interpreter *Interpreter) String() string {
	result := "Interpreter:\n"
	result += fmt.Sprintf("PathCondition: %s\n", interpreter.PathCondition.String())

	if frame := interpreter.GetCurrentFrame(); frame != nil {
		result += "Current Frame:\n"
		result += fmt.Sprintf("Function: %s\n", frame.Function.Name())

		if len(frame.LocalMemory) > 0 {
			result += "LocalMemory:\n"
			for k, v := range frame.LocalMemory {
				result += fmt.Sprintf("%s: %s\n", k, v.String())
			}
		}
		if frame.ReturnValue != nil {
			result += fmt.Sprintf("ReturnValue: %s\n", frame.ReturnValue.String())
		}
	}

	if interpreter.currentBlock != nil {
		result += fmt.Sprintf("CurrentBlock: %s\n", interpreter.currentBlock.String())
	}
	result += fmt.Sprintf("InstrIndex: %d\n", interpreter.instrIndex)
	result += fmt.Sprintf("TotalUnrolls: %d\n", interpreter.totalUnrolls())

	return result
}
