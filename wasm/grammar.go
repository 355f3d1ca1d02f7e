package wasm

import (
	"fmt"

	"github.com/wippyai/wasm-decode/multiseq"
)

// ReadValType reads a value type tag. Any byte outside the seven defined
// encodings fails with *UnknownTagError.
func (d *Decoder[H]) ReadValType() (ValType, error) {
	b, err := d.c.ReadByte()
	if err != nil {
		return 0, err
	}
	switch v := ValType(b); v {
	case ValI32, ValI64, ValF32, ValF64, ValV128, ValFuncRef, ValExtern:
		return v, nil
	default:
		return 0, &UnknownTagError{Tag: b}
	}
}

// ReadRefType reads a value type tag and narrows it to a reference type.
// A valid value type that is not funcref or externref fails with
// *UnknownTagError, same as an unrecognized byte.
func (d *Decoder[H]) ReadRefType() (RefType, error) {
	v, err := d.ReadValType()
	if err != nil {
		return 0, err
	}
	r, ok := v.Ref()
	if !ok {
		return 0, &UnknownTagError{Tag: byte(v)}
	}
	return r, nil
}

// ReadFuncType reads a function signature: the 0x60 marker, then the
// parameter and result lists into the two sub-sequences of one store. A
// missing marker fails with *cursor.UnexpectedByteError.
func (d *Decoder[H]) ReadFuncType() (FuncType, error) {
	if err := d.Expect(FuncTypeByte); err != nil {
		return FuncType{}, err
	}
	b := multiseq.NewBuilder[ValType](2, 4) // most signatures are tiny
	if err := d.readResultTypes(b); err != nil {
		return FuncType{}, fmt.Errorf("params: %w", err)
	}
	if err := d.readResultTypes(b); err != nil {
		return FuncType{}, fmt.Errorf("results: %w", err)
	}
	return FuncType{store: b.Build()}, nil
}

// readResultTypes reads one length-prefixed value type list into the
// builder's current sub-sequence and closes it.
func (d *Decoder[H]) readResultTypes(b *multiseq.Builder[ValType]) error {
	count, err := d.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		v, err := d.ReadValType()
		if err != nil {
			return err
		}
		b.Push(v)
	}
	b.EndSub()
	return nil
}

// ReadLimits reads a limits descriptor: a flag byte, then the minimum and
// optional maximum. Flag bits select a 64-bit minimum (memory64) and a
// shared memory; a flag byte outside 0x00..0x07 fails with
// *UnknownTagError. A minimum above an explicit maximum is rejected.
func (d *Decoder[H]) ReadLimits() (Limits, error) {
	flags, err := d.c.ReadByte()
	if err != nil {
		return Limits{}, err
	}
	if flags&^limitsFlagMask != 0 {
		return Limits{}, &UnknownTagError{Tag: flags}
	}

	l := Limits{
		Shared:   flags&LimitsShared != 0,
		Memory64: flags&LimitsMemory64 != 0,
	}

	if l.Memory64 {
		l.Min, err = d.ReadU64()
		if err != nil {
			return Limits{}, err
		}
		if flags&LimitsHasMax != 0 {
			maxVal, err := d.ReadU64()
			if err != nil {
				return Limits{}, err
			}
			l.Max = &maxVal
		}
	} else {
		minVal, err := d.ReadU32()
		if err != nil {
			return Limits{}, err
		}
		l.Min = uint64(minVal)
		if flags&LimitsHasMax != 0 {
			maxVal, err := d.ReadU32()
			if err != nil {
				return Limits{}, err
			}
			max64 := uint64(maxVal)
			l.Max = &max64
		}
	}

	if l.Max != nil && l.Min > *l.Max {
		return Limits{}, fmt.Errorf("limits min (%d) exceeds max (%d)", l.Min, *l.Max)
	}

	return l, nil
}

// ReadMemoryType reads a memory descriptor.
func (d *Decoder[H]) ReadMemoryType() (MemoryType, error) {
	limits, err := d.ReadLimits()
	if err != nil {
		return MemoryType{}, err
	}
	return MemoryType{Limits: limits}, nil
}

// ReadTableType reads a table descriptor: a reference element type, then
// limits.
func (d *Decoder[H]) ReadTableType() (TableType, error) {
	elem, err := d.ReadRefType()
	if err != nil {
		return TableType{}, err
	}
	limits, err := d.ReadLimits()
	if err != nil {
		return TableType{}, err
	}
	return TableType{Elem: elem, Limits: limits}, nil
}

// ReadGlobalType reads a global descriptor: a value type, then a
// mutability byte restricted to 0x00 or 0x01.
func (d *Decoder[H]) ReadGlobalType() (GlobalType, error) {
	v, err := d.ReadValType()
	if err != nil {
		return GlobalType{}, err
	}
	mut, err := d.c.ReadByte()
	if err != nil {
		return GlobalType{}, err
	}
	switch mut {
	case GlobalImmutable, GlobalMutable:
		return GlobalType{ValType: v, Mutable: mut == GlobalMutable}, nil
	default:
		return GlobalType{}, &UnknownTagError{Tag: mut}
	}
}

// readConstExpr consumes a constant initializer expression through its
// terminating end opcode and returns the raw bytes as a borrowed slice.
// Only constant operators are accepted: numeric constants, global.get,
// ref.null, ref.func, extended-const arithmetic, and v128.const.
func (d *Decoder[H]) readConstExpr() ([]byte, error) {
	start := d.c.Offset()
	for {
		b, err := d.c.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == OpEnd {
			break
		}
		if err := d.skipConstImmediate(b); err != nil {
			return nil, err
		}
	}
	end := d.c.Offset()
	return d.data[start:end:end], nil
}

func (d *Decoder[H]) skipConstImmediate(opcode byte) error {
	switch opcode {
	case OpI32Const:
		_, err := d.ReadS32()
		return err
	case OpI64Const:
		_, err := d.ReadS64()
		return err
	case OpF32Const:
		_, err := d.c.ReadBytes(4)
		return err
	case OpF64Const:
		_, err := d.c.ReadBytes(8)
		return err
	case OpGlobalGet, OpRefFunc:
		_, err := d.ReadU32()
		return err
	case OpRefNull:
		// The heap type immediate is an s33.
		_, err := d.ReadInt(33)
		return err
	case OpI32Add, OpI32Sub, OpI32Mul, OpI64Add, OpI64Sub, OpI64Mul:
		return nil
	case OpPrefixSIMD:
		subOp, err := d.ReadU32()
		if err != nil {
			return err
		}
		if subOp != SimdV128Const {
			return fmt.Errorf("invalid opcode 0xfd %d in constant expression", subOp)
		}
		_, err = d.c.ReadBytes(16)
		return err
	default:
		return fmt.Errorf("invalid opcode 0x%02x in constant expression", opcode)
	}
}
