package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// SectionID identifies a module section in the binary format.
type SectionID byte

// Section IDs define the binary identifiers for each module section.
// Sections must appear in increasing canonical order (except custom
// sections, which may appear anywhere).
const (
	SectionCustom    SectionID = 0  // Custom section
	SectionType      SectionID = 1  // Type section (function signatures)
	SectionImport    SectionID = 2  // Import section
	SectionFunction  SectionID = 3  // Function section (type indices)
	SectionTable     SectionID = 4  // Table section
	SectionMemory    SectionID = 5  // Memory section
	SectionGlobal    SectionID = 6  // Global section
	SectionExport    SectionID = 7  // Export section
	SectionStart     SectionID = 8  // Start section
	SectionElement   SectionID = 9  // Element section
	SectionCode      SectionID = 10 // Code section (function bodies)
	SectionData      SectionID = 11 // Data section
	SectionDataCount SectionID = 12 // Data count section (bulk memory)
	SectionTag       SectionID = 13 // Tag section (exception handling)
)

func (id SectionID) String() string {
	switch id {
	case SectionCustom:
		return "custom"
	case SectionType:
		return "type"
	case SectionImport:
		return "import"
	case SectionFunction:
		return "function"
	case SectionTable:
		return "table"
	case SectionMemory:
		return "memory"
	case SectionGlobal:
		return "global"
	case SectionExport:
		return "export"
	case SectionStart:
		return "start"
	case SectionElement:
		return "element"
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	case SectionDataCount:
		return "datacount"
	case SectionTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Import/Export descriptor kinds identify the type of imported or exported item.
const (
	KindFunc   byte = 0 // Function import/export
	KindTable  byte = 1 // Table import/export
	KindMemory byte = 2 // Memory import/export
	KindGlobal byte = 3 // Global import/export
)

// Value type encodings as defined in the WebAssembly binary format. These
// exact byte values are a wire-compatibility contract.
const (
	ValI32     ValType = 0x7F // 32-bit integer
	ValI64     ValType = 0x7E // 64-bit integer
	ValF32     ValType = 0x7D // 32-bit float
	ValF64     ValType = 0x7C // 64-bit float
	ValV128    ValType = 0x7B // 128-bit vector (SIMD)
	ValFuncRef ValType = 0x70 // Function reference
	ValExtern  ValType = 0x6F // External reference
)

// Reference types are the subset of value types usable as table elements.
const (
	RefFunc   RefType = RefType(ValFuncRef)
	RefExtern RefType = RefType(ValExtern)
)

// Limits flags. HasMax, Shared, and Memory64 combine as bits; any flag
// byte above 0x07 is rejected.
const (
	LimitsNoMax    byte = 0x00
	LimitsHasMax   byte = 0x01
	LimitsShared   byte = 0x02
	LimitsMemory64 byte = 0x04
	limitsFlagMask byte = LimitsHasMax | LimitsShared | LimitsMemory64
)

// Memory page limits per WASM spec
const (
	MemoryMaxPages32 uint64 = 65536           // 2^16 pages (4GB) for 32-bit memory
	MemoryMaxPages64 uint64 = 281474976710656 // 2^48 pages for 64-bit memory
)

// FuncTypeByte marks a function type in the type section.
const FuncTypeByte byte = 0x60

// Global mutability encodings.
const (
	GlobalImmutable byte = 0x00
	GlobalMutable   byte = 0x01
)

// Opcodes recognized inside constant initializer expressions. Full
// instruction decoding is out of scope; these are the operators a global,
// element offset, or table initializer may legally contain.
const (
	OpGlobalGet byte = 0x23
	OpI32Const  byte = 0x41
	OpI64Const  byte = 0x42
	OpF32Const  byte = 0x43
	OpF64Const  byte = 0x44
	OpRefNull   byte = 0xD0
	OpRefFunc   byte = 0xD2
	OpEnd       byte = 0x0B
)

// Extended-const proposal operators: arithmetic with no immediates.
const (
	OpI32Add byte = 0x6A
	OpI32Sub byte = 0x6B
	OpI32Mul byte = 0x6C
	OpI64Add byte = 0x7C
	OpI64Sub byte = 0x7D
	OpI64Mul byte = 0x7E
)

// SIMD prefix and the one vector opcode valid in constant expressions.
const (
	OpPrefixSIMD  byte   = 0xFD
	SimdV128Const uint32 = 0x0C // followed by 16 bytes of immediate data
)
