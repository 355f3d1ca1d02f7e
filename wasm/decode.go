package wasm

import (
	"errors"
	"fmt"

	wasmdecode "github.com/wippyai/wasm-decode"
)

// Parsing errors returned by Decode and ParseModule.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
)

// Decode parses a WebAssembly binary module, delivering every construct
// to hooks as it is read. The input must be the complete module; each
// section is decoded against a bounded view of its payload, and undecoded
// payload bytes are an error.
func Decode[H Hooks](data []byte, hooks H) error {
	d := NewDecoder(data, hooks)

	magic, err := d.c.Uint32LE()
	if err != nil {
		return &ParseError{Section: "header", Offset: d.c.Offset(), Err: err}
	}
	if magic != Magic {
		return ErrInvalidMagic
	}
	version, err := d.c.Uint32LE()
	if err != nil {
		return &ParseError{Section: "header", Offset: d.c.Offset(), Err: err}
	}
	if version != Version {
		return ErrInvalidVersion
	}

	if err := hooks.ModuleStart(version); err != nil {
		return err
	}

	// Non-custom sections must appear in canonical order, at most once.
	var lastOrder int
	for d.c.Len() > 0 {
		id, err := d.c.ReadByte()
		if err != nil {
			return &ParseError{Section: "section header", Offset: d.c.Offset(), Err: err}
		}
		sid := SectionID(id)
		if sid > SectionTag {
			return fmt.Errorf("unknown section ID: 0x%02x", id)
		}
		if sid != SectionCustom {
			order := sectionOrder(sid)
			if order <= lastOrder {
				return fmt.Errorf("%s section appears out of order", sid)
			}
			lastOrder = order
		}

		size, err := d.ReadU32()
		if err != nil {
			return &ParseError{Section: "section size", Offset: d.c.Offset(), Err: err}
		}
		payload, err := d.c.ReadBytes(int(size))
		if err != nil {
			return &ParseError{Section: sid.String() + " section", Offset: d.c.Offset(), Err: err}
		}

		if err := hooks.SectionStart(sid, size); err != nil {
			return err
		}
		sd := NewDecoder(payload, hooks)
		if err := sd.decodeSection(sid); err != nil {
			return &ParseError{Section: sid.String(), Offset: sd.c.Offset(), Err: err}
		}
		if sd.c.Len() != 0 {
			return &ParseError{
				Section: sid.String(),
				Offset:  sd.c.Offset(),
				Err:     fmt.Errorf("%d undecoded bytes at end of section payload", sd.c.Len()),
			}
		}
		if err := hooks.SectionEnd(sid); err != nil {
			return err
		}
	}
	return nil
}

// ParseModule parses a WebAssembly binary module into a Module tree. It
// is Decode driven with a Collector.
func ParseModule(data []byte) (*Module, error) {
	var c Collector
	if err := Decode(data, &c); err != nil {
		return nil, err
	}
	return c.Module(), nil
}

// ParseModuleArena is ParseModule with the module's byte payloads copied
// into a, so the result does not borrow from data.
func ParseModuleArena(data []byte, a wasmdecode.Arena) (*Module, error) {
	c := Collector{Arena: a}
	if err := Decode(data, &c); err != nil {
		return nil, err
	}
	return c.Module(), nil
}

// sectionOrder returns the canonical position of a non-custom section.
// The required order differs from the raw section IDs: tag sits between
// memory and global, and data count precedes code.
func sectionOrder(id SectionID) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionTag:
		return 6
	case SectionGlobal:
		return 7
	case SectionExport:
		return 8
	case SectionStart:
		return 9
	case SectionElement:
		return 10
	case SectionDataCount:
		return 11
	case SectionCode:
		return 12
	case SectionData:
		return 13
	default:
		return 0
	}
}

func (d *Decoder[H]) decodeSection(id SectionID) error {
	switch id {
	case SectionCustom:
		return d.decodeCustomSection()
	case SectionType:
		return d.decodeTypeSection()
	case SectionImport:
		return d.decodeImportSection()
	case SectionFunction:
		return d.decodeFunctionSection()
	case SectionTable:
		return d.decodeTableSection()
	case SectionMemory:
		return d.decodeMemorySection()
	case SectionGlobal:
		return d.decodeGlobalSection()
	case SectionExport:
		return d.decodeExportSection()
	case SectionStart:
		return d.decodeStartSection()
	case SectionElement, SectionCode, SectionData, SectionDataCount, SectionTag:
		return d.decodeRawSection(id)
	default:
		return fmt.Errorf("unknown section ID: 0x%02x", byte(id))
	}
}

func (d *Decoder[H]) decodeCustomSection() error {
	name, err := d.ReadName()
	if err != nil {
		return err
	}
	rest, err := d.readRemaining()
	if err != nil {
		return err
	}
	return d.hooks.Custom(CustomSection{Name: name, Data: rest})
}

func (d *Decoder[H]) decodeTypeSection() error {
	count, err := d.ReadU32()
	if err != nil {
		return err
	}
	if err := d.checkCount(count); err != nil {
		return err
	}
	if err := d.hooks.TypeCount(count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		ft, err := d.ReadFuncType()
		if err != nil {
			return fmt.Errorf("type %d: %w", i, err)
		}
		if err := d.hooks.Type(i, ft); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder[H]) decodeImportSection() error {
	count, err := d.ReadU32()
	if err != nil {
		return err
	}
	if err := d.checkCount(count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		module, err := d.ReadName()
		if err != nil {
			return err
		}
		name, err := d.ReadName()
		if err != nil {
			return err
		}
		kind, err := d.ReadByte()
		if err != nil {
			return err
		}

		imp := Import{Module: module, Name: name, Desc: ImportDesc{Kind: kind}}

		switch kind {
		case KindFunc:
			imp.Desc.TypeIdx, err = d.ReadU32()
			if err != nil {
				return err
			}
		case KindTable:
			table, err := d.ReadTableType()
			if err != nil {
				return err
			}
			imp.Desc.Table = &table
		case KindMemory:
			memory, err := d.ReadMemoryType()
			if err != nil {
				return err
			}
			imp.Desc.Memory = &memory
		case KindGlobal:
			global, err := d.ReadGlobalType()
			if err != nil {
				return err
			}
			imp.Desc.Global = &global
		default:
			return fmt.Errorf("unknown import kind: %d", kind)
		}

		if err := d.hooks.Import(i, imp); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder[H]) decodeFunctionSection() error {
	count, err := d.ReadU32()
	if err != nil {
		return err
	}
	if err := d.checkCount(count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		typeIdx, err := d.ReadU32()
		if err != nil {
			return err
		}
		if err := d.hooks.Func(i, typeIdx); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder[H]) decodeTableSection() error {
	count, err := d.ReadU32()
	if err != nil {
		return err
	}
	if err := d.checkCount(count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		t, err := d.ReadTableType()
		if err != nil {
			return fmt.Errorf("table %d: %w", i, err)
		}
		if err := d.hooks.Table(i, t); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder[H]) decodeMemorySection() error {
	count, err := d.ReadU32()
	if err != nil {
		return err
	}
	if err := d.checkCount(count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		mt, err := d.ReadMemoryType()
		if err != nil {
			return fmt.Errorf("memory %d: %w", i, err)
		}
		if err := d.hooks.Memory(i, mt); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder[H]) decodeGlobalSection() error {
	count, err := d.ReadU32()
	if err != nil {
		return err
	}
	if err := d.checkCount(count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		gt, err := d.ReadGlobalType()
		if err != nil {
			return fmt.Errorf("global %d: %w", i, err)
		}
		init, err := d.readConstExpr()
		if err != nil {
			return fmt.Errorf("global %d init: %w", i, err)
		}
		if err := d.hooks.Global(i, Global{Type: gt, Init: init}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder[H]) decodeExportSection() error {
	count, err := d.ReadU32()
	if err != nil {
		return err
	}
	if err := d.checkCount(count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		name, err := d.ReadName()
		if err != nil {
			return err
		}
		kind, err := d.ReadByte()
		if err != nil {
			return err
		}
		if kind > KindGlobal {
			return fmt.Errorf("invalid export kind: 0x%02x", kind)
		}
		idx, err := d.ReadU32()
		if err != nil {
			return err
		}
		if err := d.hooks.Export(i, Export{Name: name, Kind: kind, Idx: idx}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder[H]) decodeStartSection() error {
	idx, err := d.ReadU32()
	if err != nil {
		return err
	}
	return d.hooks.StartFunc(idx)
}

func (d *Decoder[H]) decodeRawSection(id SectionID) error {
	data, err := d.readRemaining()
	if err != nil {
		return err
	}
	return d.hooks.Raw(RawSection{ID: id, Data: data})
}
