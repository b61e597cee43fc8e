// Package symbolic defines the symbolic expression tree the interpreter
// builds while walking a program under test: variables standing in for
// unknown inputs, constants, and operations over both.
package symbolic

// ExpressionType is the value type a SymbolicExpression evaluates to.
type ExpressionType int

const (
	IntType ExpressionType = iota
	BoolType
	ArrayType
	RefType
	StructType
)

// Visitor is the double-dispatch interface every SymbolicExpression.Accept
// call resolves against. Z3Translator and DebugVisitor are its two
// implementations.
type Visitor interface {
	VisitVariable(expr *SymbolicVariable) interface{}
	VisitIntConstant(expr *IntConstant) interface{}
	VisitBoolConstant(expr *BoolConstant) interface{}
	VisitBinaryOperation(expr *BinaryOperation) interface{}
	VisitLogicalOperation(expr *LogicalOperation) interface{}
	VisitUnaryOperation(expr *UnaryOperation) interface{}
	VisitRef(expr *Ref) interface{}
	VisitFieldAddr(expr *FieldAddr) interface{}
	VisitIndexAddr(expr *IndexAddr) interface{}
}

func (et ExpressionType) String() string {
	switch et {
	case IntType:
		return "int"
	case BoolType:
		return "bool"
	case ArrayType:
		return "array"
	case RefType:
		return "ref"
	case StructType:
		return "struct"
	default:
		return "unknown"
	}
}
