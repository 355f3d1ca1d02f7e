package wasm

import (
	"encoding/binary"

	"github.com/wippyai/wasm-decode/leb128"
)

// Encode serializes the module to the WebAssembly binary format.
//
// Sections are emitted in canonical order and omitted when empty. Raw
// sections are re-emitted byte for byte at their canonical positions.
// Custom sections are placed at the end regardless of where they
// appeared in the original binary, so a decode-encode round trip of a
// module with interleaved custom sections is not byte-identical.
func (m *Module) Encode() []byte {
	out := make([]byte, 0, 256)
	out = binary.LittleEndian.AppendUint32(out, Magic)
	out = binary.LittleEndian.AppendUint32(out, Version)

	if len(m.Types) > 0 {
		var sec []byte
		sec = leb128.AppendUint(sec, uint64(len(m.Types)))
		for _, t := range m.Types {
			sec = appendFuncType(sec, t)
		}
		out = appendSection(out, SectionType, sec)
	}

	if len(m.Imports) > 0 {
		var sec []byte
		sec = leb128.AppendUint(sec, uint64(len(m.Imports)))
		for _, imp := range m.Imports {
			sec = appendName(sec, imp.Module)
			sec = appendName(sec, imp.Name)
			sec = append(sec, imp.Desc.Kind)
			switch imp.Desc.Kind {
			case KindFunc:
				sec = leb128.AppendUint(sec, uint64(imp.Desc.TypeIdx))
			case KindTable:
				if imp.Desc.Table != nil {
					sec = appendTableType(sec, *imp.Desc.Table)
				}
			case KindMemory:
				if imp.Desc.Memory != nil {
					sec = appendLimits(sec, imp.Desc.Memory.Limits)
				}
			case KindGlobal:
				if imp.Desc.Global != nil {
					sec = appendGlobalType(sec, *imp.Desc.Global)
				}
			}
		}
		out = appendSection(out, SectionImport, sec)
	}

	if len(m.Funcs) > 0 {
		var sec []byte
		sec = leb128.AppendUint(sec, uint64(len(m.Funcs)))
		for _, typeIdx := range m.Funcs {
			sec = leb128.AppendUint(sec, uint64(typeIdx))
		}
		out = appendSection(out, SectionFunction, sec)
	}

	if len(m.Tables) > 0 {
		var sec []byte
		sec = leb128.AppendUint(sec, uint64(len(m.Tables)))
		for _, t := range m.Tables {
			sec = appendTableType(sec, t)
		}
		out = appendSection(out, SectionTable, sec)
	}

	if len(m.Memories) > 0 {
		var sec []byte
		sec = leb128.AppendUint(sec, uint64(len(m.Memories)))
		for _, mt := range m.Memories {
			sec = appendLimits(sec, mt.Limits)
		}
		out = appendSection(out, SectionMemory, sec)
	}

	// Tag sits between memory and global in the canonical order.
	out = m.appendRaw(out, SectionTag)

	if len(m.Globals) > 0 {
		var sec []byte
		sec = leb128.AppendUint(sec, uint64(len(m.Globals)))
		for _, g := range m.Globals {
			sec = appendGlobalType(sec, g.Type)
			sec = append(sec, g.Init...)
		}
		out = appendSection(out, SectionGlobal, sec)
	}

	if len(m.Exports) > 0 {
		var sec []byte
		sec = leb128.AppendUint(sec, uint64(len(m.Exports)))
		for _, e := range m.Exports {
			sec = appendName(sec, e.Name)
			sec = append(sec, e.Kind)
			sec = leb128.AppendUint(sec, uint64(e.Idx))
		}
		out = appendSection(out, SectionExport, sec)
	}

	if m.Start != nil {
		var sec []byte
		sec = leb128.AppendUint(sec, uint64(*m.Start))
		out = appendSection(out, SectionStart, sec)
	}

	out = m.appendRaw(out, SectionElement)
	out = m.appendRaw(out, SectionDataCount)
	out = m.appendRaw(out, SectionCode)
	out = m.appendRaw(out, SectionData)

	for _, c := range m.CustomSections {
		var sec []byte
		sec = appendName(sec, c.Name)
		sec = append(sec, c.Data...)
		out = appendSection(out, SectionCustom, sec)
	}

	return out
}

func (m *Module) appendRaw(out []byte, id SectionID) []byte {
	for _, r := range m.Raw {
		if r.ID == id {
			out = appendSection(out, id, r.Data)
		}
	}
	return out
}

func appendSection(out []byte, id SectionID, payload []byte) []byte {
	out = append(out, byte(id))
	out = leb128.AppendUint(out, uint64(len(payload)))
	return append(out, payload...)
}

func appendName(out []byte, s string) []byte {
	out = leb128.AppendUint(out, uint64(len(s)))
	return append(out, s...)
}

func appendValTypes(out []byte, types []ValType) []byte {
	out = leb128.AppendUint(out, uint64(len(types)))
	for _, t := range types {
		out = append(out, byte(t))
	}
	return out
}

func appendFuncType(out []byte, t FuncType) []byte {
	out = append(out, FuncTypeByte)
	out = appendValTypes(out, t.Params())
	return appendValTypes(out, t.Results())
}

// appendLimits derives the flag byte from the limit fields. LEB128 is
// width-agnostic on the wire, so 32-bit and 64-bit limits share one
// encoding path.
func appendLimits(out []byte, l Limits) []byte {
	var flags byte
	if l.Max != nil {
		flags |= LimitsHasMax
	}
	if l.Shared {
		flags |= LimitsShared
	}
	if l.Memory64 {
		flags |= LimitsMemory64
	}
	out = append(out, flags)
	out = leb128.AppendUint(out, l.Min)
	if l.Max != nil {
		out = leb128.AppendUint(out, *l.Max)
	}
	return out
}

func appendTableType(out []byte, t TableType) []byte {
	out = append(out, byte(t.Elem))
	return appendLimits(out, t.Limits)
}

func appendGlobalType(out []byte, t GlobalType) []byte {
	out = append(out, byte(t.ValType))
	if t.Mutable {
		return append(out, GlobalMutable)
	}
	return append(out, GlobalImmutable)
}
