// Package wasmdecode provides streaming decoding of the WebAssembly
// binary format.
//
// This library parses the envelope and declarative sections of a
// WebAssembly module in a single forward pass, delivering constructs to
// a statically dispatched consumer or collecting them into a module
// tree. Decoded views borrow from the input buffer; nothing is copied
// unless the caller asks for it.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	wasmdecode/          Root package with the Arena allocation interface
//	├── cursor/          Bounded forward-only reader over a byte slice
//	├── leb128/          Width-parameterized LEB128 integer codec
//	├── multiseq/        Multiple sub-sequences in one backing slice
//	├── arena/           Chunked bump allocator with frame rollback
//	├── wasm/            Module decoding, encoding, and validation
//	├── trace/           Hooks consumer that logs every decode event
//	├── cmd/wasmdump/    CLI for inspecting module binaries
//	└── examples/        Runnable usage examples
//
// # Quick Start
//
// Parse a module and walk its sections:
//
//	data, err := os.ReadFile("module.wasm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mod, err := wasm.ParseModule(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for i, t := range mod.Types {
//	    fmt.Printf("type %d: %s\n", i, t)
//	}
//
// Or consume constructs as they are decoded, without building a tree:
//
//	type exports struct {
//	    wasm.NopHooks
//	    names []string
//	}
//
//	func (e *exports) Export(index uint32, exp wasm.Export) error {
//	    e.names = append(e.names, exp.Name)
//	    return nil
//	}
//
//	var e exports
//	err := wasm.Decode(data, &e)
//
// # Memory Model
//
// ParseModule borrows byte payloads from the input. For callers that
// release the input buffer after parsing, ParseModuleArena copies the
// payloads through the Arena interface defined here; package arena
// provides the standard implementation.
package wasmdecode
