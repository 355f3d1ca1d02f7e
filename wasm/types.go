package wasm

import (
	"fmt"
	"strings"

	"github.com/wippyai/wasm-decode/multiseq"
)

// Module represents a parsed WebAssembly module. Byte-slice fields borrow
// from the input buffer unless the module was decoded through a Collector
// with an Arena; see Collector.
type Module struct {
	Types    []FuncType // Function signatures
	Imports  []Import
	Funcs    []uint32 // Type indices for declared functions
	Tables   []TableType
	Memories []MemoryType
	Globals  []Global
	Exports  []Export
	Start    *uint32

	// Raw holds the sections that are recognized and ordered but not
	// interpreted: element, code, data, data count, and tag payloads.
	Raw []RawSection

	CustomSections []CustomSection
}

// ValType represents a WebAssembly value type.
// See constants.go for ValI32, ValI64, ValF32, ValF64, ValV128, ValFuncRef,
// and ValExtern; no other byte is a valid value type.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	default:
		return "unknown"
	}
}

// Ref narrows a value type to a reference type. The second result is false
// when v is not funcref or externref.
func (v ValType) Ref() (RefType, bool) {
	if v == ValFuncRef || v == ValExtern {
		return RefType(v), true
	}
	return 0, false
}

// RefType is the {funcref, externref} subset of ValType, used where the
// format requires a reference type, such as a table's element type.
type RefType byte

func (r RefType) String() string { return ValType(r).String() }

// ValType widens the reference type back to a value type.
func (r RefType) ValType() ValType { return ValType(r) }

// FuncType is a WebAssembly function signature. Parameter and result
// lists live in the two sub-sequences of a single multiseq store, so one
// signature costs one backing allocation. The zero value is the empty
// signature () -> ().
type FuncType struct {
	store multiseq.Store[ValType]
}

// NewFuncType builds a signature from parameter and result lists.
func NewFuncType(params, results []ValType) FuncType {
	b := multiseq.NewBuilder[ValType](2, len(params)+len(results))
	for _, p := range params {
		b.Push(p)
	}
	b.EndSub()
	for _, r := range results {
		b.Push(r)
	}
	b.EndSub()
	return FuncType{store: b.Build()}
}

// Params returns the parameter list as a borrowed view. Callers must not
// modify it.
func (t FuncType) Params() []ValType {
	if t.store.Arity() != 2 {
		return nil
	}
	return t.store.Sub(0)
}

// Results returns the result list as a borrowed view. Callers must not
// modify it.
func (t FuncType) Results() []ValType {
	if t.store.Arity() != 2 {
		return nil
	}
	return t.store.Sub(1)
}

// Equal reports whether two signatures have identical parameter and
// result lists.
func (t FuncType) Equal(o FuncType) bool {
	tp, op := t.Params(), o.Params()
	tr, or := t.Results(), o.Results()
	if len(tp) != len(op) || len(tr) != len(or) {
		return false
	}
	for i := range tp {
		if tp[i] != op[i] {
			return false
		}
	}
	for i := range tr {
		if tr[i] != or[i] {
			return false
		}
	}
	return true
}

func (t FuncType) String() string {
	var sb strings.Builder
	sb.WriteString("func(")
	for i, p := range t.Params() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if results := t.Results(); len(results) > 0 {
		sb.WriteString(" -> (")
		for i, r := range results {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(r.String())
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// Import represents an imported function, table, memory, or global.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
}

// ImportDesc describes an imported item.
// Kind uses the KindFunc, KindTable, KindMemory, or KindGlobal constants.
type ImportDesc struct {
	Table   *TableType
	Memory  *MemoryType
	Global  *GlobalType
	TypeIdx uint32
	Kind    byte
}

// TableType describes a table with element type and size limits.
type TableType struct {
	Elem   RefType
	Limits Limits
}

// MemoryType describes a linear memory with size limits.
type MemoryType struct {
	Limits Limits
}

// Limits describes size constraints for tables and memories. An absent
// maximum is represented by a nil Max, never by a sentinel value, so an
// explicit maximum of 0xFFFFFFFF stays distinct from "unbounded".
type Limits struct {
	Max      *uint64
	Min      uint64
	Shared   bool
	Memory64 bool
}

func (l Limits) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "min=%d", l.Min)
	if l.Max != nil {
		fmt.Fprintf(&sb, " max=%d", *l.Max)
	}
	if l.Shared {
		sb.WriteString(" shared")
	}
	if l.Memory64 {
		sb.WriteString(" memory64")
	}
	return sb.String()
}

// GlobalType describes a global variable's type and mutability.
type GlobalType struct {
	ValType ValType
	Mutable bool
}

// Global represents a global variable with type and initialization.
type Global struct {
	Type GlobalType
	Init []byte // Raw constant expression bytes, including the end opcode
}

// Export describes an exported item.
// Kind uses the KindFunc, KindTable, KindMemory, or KindGlobal constants.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// CustomSection holds a named custom section's data.
type CustomSection struct {
	Name string
	Data []byte
}

// RawSection holds an uninterpreted section payload.
type RawSection struct {
	ID   SectionID
	Data []byte
}

// NumImportedFuncs returns the number of imported functions
func (m *Module) NumImportedFuncs() int {
	count := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == KindFunc {
			count++
		}
	}
	return count
}

// NumImportedGlobals returns the number of imported globals
func (m *Module) NumImportedGlobals() int {
	count := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == KindGlobal {
			count++
		}
	}
	return count
}

// NumImportedTables returns the number of imported tables
func (m *Module) NumImportedTables() int {
	count := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == KindTable {
			count++
		}
	}
	return count
}

// NumImportedMemories returns the number of imported memories
func (m *Module) NumImportedMemories() int {
	count := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == KindMemory {
			count++
		}
	}
	return count
}

// FuncTypeAt returns the signature of the function at funcIdx in the
// combined import-then-local index space. The second result is false when
// the index or its type index is out of range.
func (m *Module) FuncTypeAt(funcIdx uint32) (FuncType, bool) {
	numImported := uint32(m.NumImportedFuncs())
	if funcIdx < numImported {
		for _, imp := range m.Imports {
			if imp.Desc.Kind != KindFunc {
				continue
			}
			if funcIdx == 0 {
				return m.typeAt(imp.Desc.TypeIdx)
			}
			funcIdx--
		}
	}
	localIdx := funcIdx - numImported
	if int(localIdx) >= len(m.Funcs) {
		return FuncType{}, false
	}
	return m.typeAt(m.Funcs[localIdx])
}

func (m *Module) typeAt(typeIdx uint32) (FuncType, bool) {
	if int(typeIdx) >= len(m.Types) {
		return FuncType{}, false
	}
	return m.Types[typeIdx], true
}

// AddType adds a function type and returns its index, reusing an existing
// equal entry when present.
func (m *Module) AddType(ft FuncType) uint32 {
	for i, t := range m.Types {
		if t.Equal(ft) {
			return uint32(i)
		}
	}
	idx := uint32(len(m.Types))
	m.Types = append(m.Types, ft)
	return idx
}
