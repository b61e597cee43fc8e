// Package memory models the symbolic heap the interpreter allocates
// structs and arrays into: every Ref resolves to a MemoryObject holding
// either struct fields or array elements as symbolic expressions.
package memory

import (
	"fmt"

	"github.com/KnoooW/spf-wca/internal/host/symbolic"
)

type Memory interface {
	Allocate(tpe symbolic.ExpressionType) *symbolic.Ref

	AssignField(ref *symbolic.Ref, fieldIdx int, value symbolic.SymbolicExpression)

	GetFieldValue(ref *symbolic.Ref, fieldIdx int) symbolic.SymbolicExpression

	AssignToArray(ref *symbolic.Ref, index int, value symbolic.SymbolicExpression)

	GetFromArray(ref *symbolic.Ref, index int) symbolic.SymbolicExpression

	AllocateStruct(fieldCount int) *symbolic.Ref
	AllocateArray(length int) *symbolic.Ref
}

type SymbolicMemory struct {
	objects      map[int]*MemoryObject
	nextObjectID int
	aliases      map[int]int // aliasID -> originalID
}

type MemoryObject struct {
	Type   symbolic.ExpressionType
	Fields map[int]symbolic.SymbolicExpression // for StructType
	Elems  map[int]symbolic.SymbolicExpression // for ArrayType
}

func NewSymbolicMemory() *SymbolicMemory {
	return &SymbolicMemory{
		objects:      make(map[int]*MemoryObject),
		nextObjectID: 1,
		aliases:      make(map[int]int),
	}
}

func (sm *SymbolicMemory) Allocate(tpe symbolic.ExpressionType) *symbolic.Ref {
	id := sm.nextObjectID
	sm.nextObjectID++

	sm.objects[id] = &MemoryObject{
		Type:   tpe,
		Fields: make(map[int]symbolic.SymbolicExpression),
		Elems:  make(map[int]symbolic.SymbolicExpression),
	}

	return symbolic.NewRef(id, tpe)
}

func (sm *SymbolicMemory) getOriginalID(ref *symbolic.Ref) int {
	if originalID, exists := sm.aliases[ref.ID]; exists {
		return originalID
	}
	return ref.ID
}

func (sm *SymbolicMemory) AssignField(ref *symbolic.Ref, fieldIdx int, value symbolic.SymbolicExpression) {
	originalID := sm.getOriginalID(ref)
	obj, exists := sm.objects[originalID]
	if !exists {
		panic(fmt.Sprintf("memory: no object with id %d", originalID))
	}

	if obj.Type != symbolic.StructType {
		panic("memory: AssignField on a non-struct object")
	}

	obj.Fields[fieldIdx] = value
}

func (sm *SymbolicMemory) GetFieldValue(ref *symbolic.Ref, fieldIdx int) symbolic.SymbolicExpression {
	originalID := sm.getOriginalID(ref)
	obj, exists := sm.objects[originalID]
	if !exists {
		panic(fmt.Sprintf("memory: no object with id %d", originalID))
	}

	if obj.Type != symbolic.StructType {
		panic("memory: GetFieldValue on a non-struct object")
	}

	value, exists := obj.Fields[fieldIdx]
	if !exists {
		return symbolic.NewIntConstant(0)
	}

	return value
}

func (sm *SymbolicMemory) AssignToArray(ref *symbolic.Ref, index int, value symbolic.SymbolicExpression) {
	originalID := sm.getOriginalID(ref)
	obj, exists := sm.objects[originalID]
	if !exists {
		panic(fmt.Sprintf("memory: no object with id %d", originalID))
	}

	if obj.Type != symbolic.ArrayType {
		panic("memory: AssignToArray on a non-array object")
	}

	obj.Elems[index] = value
}

func (sm *SymbolicMemory) GetFromArray(ref *symbolic.Ref, index int) symbolic.SymbolicExpression {
	originalID := sm.getOriginalID(ref)
	obj, exists := sm.objects[originalID]
	if !exists {
		panic(fmt.Sprintf("memory: no object with id %d", originalID))
	}

	if obj.Type != symbolic.ArrayType {
		panic("memory: GetFromArray on a non-array object")
	}

	value, exists := obj.Elems[index]
	if !exists {
		return symbolic.NewIntConstant(0)
	}

	return value
}

// CreateAlias registers aliasID as another name for original, so later
// lookups through either ref resolve to the same MemoryObject.
func (sm *SymbolicMemory) CreateAlias(original *symbolic.Ref, aliasID int) *symbolic.Ref {
	originalID := sm.getOriginalID(original)
	sm.aliases[aliasID] = originalID
	return symbolic.NewRef(aliasID, original.ExprType)
}

func (sm *SymbolicMemory) String() string {
	result := "Symbolic Memory State:\n"

	for id, obj := range sm.objects {
		result += fmt.Sprintf("  Object %d (%s):\n", id, obj.Type.String())

		switch obj.Type {
		case symbolic.StructType:
			for fieldIdx, field := range obj.Fields {
				result += fmt.Sprintf("    Field[%d]: %s\n", fieldIdx, field.String())
			}
		case symbolic.ArrayType:
			for index, elem := range obj.Elems {
				result += fmt.Sprintf("    Elem[%d]: %s\n", index, elem.String())
			}
		default:
			result += fmt.Sprintf("    Simple type: %s\n", obj.Type.String())
		}
	}

	result += "Aliases:\n"
	for alias, original := range sm.aliases {
		result += fmt.Sprintf("  %d -> %d\n", alias, original)
	}

	return result
}

func (sm *SymbolicMemory) AllocateStruct(fieldCount int) *symbolic.Ref {
	id := sm.nextObjectID
	sm.nextObjectID++

	obj := &MemoryObject{
		Type:   symbolic.StructType,
		Fields: make(map[int]symbolic.SymbolicExpression),
		Elems:  make(map[int]symbolic.SymbolicExpression),
	}

	for i := 0; i < fieldCount; i++ {
		obj.Fields[i] = symbolic.NewIntConstant(0)
	}

	sm.objects[id] = obj
	return symbolic.NewRef(id, symbolic.StructType)
}

func (sm *SymbolicMemory) AllocateArray(length int) *symbolic.Ref {
	id := sm.nextObjectID
	sm.nextObjectID++

	obj := &MemoryObject{
		Type:   symbolic.ArrayType,
		Fields: make(map[int]symbolic.SymbolicExpression),
		Elems:  make(map[int]symbolic.SymbolicExpression),
	}

	for i := 0; i < length; i++ {
		obj.Elems[i] = symbolic.NewIntConstant(0)
	}

	sm.objects[id] = obj
	return symbolic.NewRef(id, symbolic.ArrayType)
}
