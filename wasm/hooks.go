package wasm

import (
	wasmdecode "github.com/wippyai/wasm-decode"
)

// Hooks receives each construct as the decoder parses it, in input order.
// Any callback may return a non-nil error to abort the decode; the error
// reaches the Decode caller, wrapped with section context when one
// applies, so errors.Is and errors.As still match it.
//
// A consumer implements Hooks to process a module in a single pass, for
// example compiling functions as their signatures arrive, without an
// intermediate module tree. Embed NopHooks to implement only the
// callbacks of interest.
type Hooks interface {
	// ModuleStart is called once the header's magic and version have been
	// verified.
	ModuleStart(version uint32) error

	// SectionStart is called before a section's payload is decoded, with
	// the payload size in bytes. SectionEnd is called after the payload
	// has been fully consumed.
	SectionStart(id SectionID, size uint32) error
	SectionEnd(id SectionID) error

	// TypeCount announces the number of type section entries before the
	// first one is decoded, so a consumer can size its tables up front.
	TypeCount(count uint32) error

	// Type delivers one function signature from the type section.
	Type(index uint32, t FuncType) error

	// Import delivers one import section entry.
	Import(index uint32, imp Import) error

	// Func delivers one function section entry: the type index a declared
	// function refers to.
	Func(index uint32, typeIdx uint32) error

	// Table, Memory, Global, and Export deliver one entry from the
	// corresponding section.
	Table(index uint32, t TableType) error
	Memory(index uint32, mt MemoryType) error
	Global(index uint32, g Global) error
	Export(index uint32, e Export) error

	// StartFunc delivers the start section's function index.
	StartFunc(funcIdx uint32) error

	// Custom delivers a custom section. Raw delivers a recognized but
	// uninterpreted section payload: element, code, data, data count, or
	// tag. Byte slices in both borrow from the input.
	Custom(sec CustomSection) error
	Raw(sec RawSection) error
}

// NopHooks implements Hooks with no-op callbacks. Embed it to override
// only the events a consumer cares about.
type NopHooks struct{}

func (NopHooks) ModuleStart(uint32) error             { return nil }
func (NopHooks) SectionStart(SectionID, uint32) error { return nil }
func (NopHooks) SectionEnd(SectionID) error           { return nil }
func (NopHooks) TypeCount(uint32) error               { return nil }
func (NopHooks) Type(uint32, FuncType) error          { return nil }
func (NopHooks) Import(uint32, Import) error          { return nil }
func (NopHooks) Func(uint32, uint32) error            { return nil }
func (NopHooks) Table(uint32, TableType) error        { return nil }
func (NopHooks) Memory(uint32, MemoryType) error      { return nil }
func (NopHooks) Global(uint32, Global) error          { return nil }
func (NopHooks) Export(uint32, Export) error          { return nil }
func (NopHooks) StartFunc(uint32) error               { return nil }
func (NopHooks) Custom(CustomSection) error           { return nil }
func (NopHooks) Raw(RawSection) error                 { return nil }

// Collector assembles a Module from decode events. It is the built-in
// consumer behind ParseModule and doubles as the reference Hooks
// implementation.
type Collector struct {
	// Arena, when non-nil, receives copies of the byte payloads that
	// would otherwise borrow from the input buffer: constant initializer
	// expressions, custom section data, and raw section payloads. The
	// assembled module then stays valid after the input is reused or
	// released.
	Arena wasmdecode.Arena

	m *Module
}

// Module returns the assembled module. It is nil until a decode has
// delivered the module header.
func (c *Collector) Module() *Module { return c.m }

func (c *Collector) bytes(b []byte) []byte {
	if c.Arena == nil {
		return b
	}
	p := c.Arena.Alloc(len(b))
	copy(p, b)
	return p
}

func (c *Collector) ModuleStart(uint32) error {
	c.m = &Module{}
	return nil
}

func (c *Collector) SectionStart(SectionID, uint32) error { return nil }
func (c *Collector) SectionEnd(SectionID) error           { return nil }

func (c *Collector) TypeCount(count uint32) error {
	c.m.Types = make([]FuncType, 0, count)
	return nil
}

func (c *Collector) Type(_ uint32, t FuncType) error {
	c.m.Types = append(c.m.Types, t)
	return nil
}

func (c *Collector) Import(_ uint32, imp Import) error {
	c.m.Imports = append(c.m.Imports, imp)
	return nil
}

func (c *Collector) Func(_ uint32, typeIdx uint32) error {
	c.m.Funcs = append(c.m.Funcs, typeIdx)
	return nil
}

func (c *Collector) Table(_ uint32, t TableType) error {
	c.m.Tables = append(c.m.Tables, t)
	return nil
}

func (c *Collector) Memory(_ uint32, mt MemoryType) error {
	c.m.Memories = append(c.m.Memories, mt)
	return nil
}

func (c *Collector) Global(_ uint32, g Global) error {
	g.Init = c.bytes(g.Init)
	c.m.Globals = append(c.m.Globals, g)
	return nil
}

func (c *Collector) Export(_ uint32, e Export) error {
	c.m.Exports = append(c.m.Exports, e)
	return nil
}

func (c *Collector) StartFunc(funcIdx uint32) error {
	idx := funcIdx
	c.m.Start = &idx
	return nil
}

func (c *Collector) Custom(sec CustomSection) error {
	sec.Data = c.bytes(sec.Data)
	c.m.CustomSections = append(c.m.CustomSections, sec)
	return nil
}

func (c *Collector) Raw(sec RawSection) error {
	sec.Data = c.bytes(sec.Data)
	c.m.Raw = append(c.m.Raw, sec)
	return nil
}
