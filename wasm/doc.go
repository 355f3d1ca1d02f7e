// Package wasm provides streaming WebAssembly binary format parsing and
// encoding.
//
// This package decodes the module envelope and the declarative sections
// of a WebAssembly binary: types, imports, functions, tables, memories,
// globals, exports, and start. Function bodies, element segments, and
// data segments are surfaced as raw payloads without interpretation.
//
// # Streaming Decode
//
// Decode drives a Hooks implementation through the module in a single
// pass, delivering each construct as it is read:
//
//	type counter struct {
//	    wasm.NopHooks
//	    funcs int
//	}
//
//	func (c *counter) Func(index uint32, typeIdx uint32) error {
//	    c.funcs++
//	    return nil
//	}
//
//	var c counter
//	if err := wasm.Decode(data, &c); err != nil {
//	    log.Fatal(err)
//	}
//
// The hooks type is a static type parameter, so callbacks dispatch
// without interface indirection. Embed NopHooks to implement only the
// callbacks a consumer needs. Any callback may return an error to stop
// the decode.
//
// # Parsing to a Tree
//
// ParseModule collects the whole module into a Module value:
//
//	data, _ := os.ReadFile("module.wasm")
//	module, err := wasm.ParseModule(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The result borrows byte payloads (global initializers, custom and raw
// section contents) from the input. ParseModuleArena copies them into a
// caller-supplied arena instead, so the input buffer can be released.
//
// Parse with validation enabled:
//
//	module, err := wasm.ParseModuleValidate(data)
//
// # Encoding
//
// Encode a module back to binary:
//
//	encoded := module.Encode()
//
// Round-trip parsing and encoding preserves module semantics:
//
//	original, _ := wasm.ParseModule(data)
//	roundtrip, _ := wasm.ParseModule(original.Encode())
//	// original and roundtrip are semantically equivalent
//
// # Module Structure
//
// A parsed module contains the decoded sections:
//
//	module.Types      []FuncType       // Function signatures
//	module.Imports    []Import         // Imported definitions
//	module.Funcs      []uint32         // Type indices for functions
//	module.Tables     []TableType      // Table definitions
//	module.Memories   []MemoryType     // Memory definitions
//	module.Globals    []Global         // Global definitions
//	module.Exports    []Export         // Exported definitions
//	module.Raw        []RawSection     // Uninterpreted sections
//	module.CustomSections []CustomSection
//
// # Validation
//
// Validate module structure:
//
//	if err := module.Validate(); err != nil {
//	    log.Printf("invalid module: %v", err)
//	}
//
// Validation checks:
//   - Type indices are in bounds
//   - Export indices are in bounds and export names unique
//   - The start function has a void signature
//   - Memory limits fit the addressable page range
//
// # Errors
//
// Parse failures wrap a section name and payload offset in a ParseError.
// Structural causes are inspectable with errors.Is and errors.As:
// cursor.ErrUnexpectedEOF for truncated input, cursor.UnexpectedByteError
// for a wrong fixed byte, UnknownTagError for a byte outside a closed
// tag set, and leb128.ErrOverflow for an integer exceeding its declared
// width.
package wasm
