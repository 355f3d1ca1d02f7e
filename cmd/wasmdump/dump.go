package main

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-decode/trace"
	"github.com/wippyai/wasm-decode/wasm"
)

// moduleInfo assembles the module tree and records per-section sizes in
// the same decode pass.
type moduleInfo struct {
	wasm.Collector
	sections []sectionStat
}

type sectionStat struct {
	ID   wasm.SectionID
	Size uint32
}

func (i *moduleInfo) SectionStart(id wasm.SectionID, size uint32) error {
	i.sections = append(i.sections, sectionStat{ID: id, Size: size})
	return i.Collector.SectionStart(id, size)
}

// decodeModule parses data with tracing attached. The trace logger is a
// no-op unless --verbose installed a real one.
func decodeModule(data []byte) (*moduleInfo, error) {
	info := &moduleInfo{}
	if err := wasm.Decode(data, trace.Wrap(info, trace.Logger())); err != nil {
		return nil, err
	}
	return info, nil
}

func dumpCommand() *cobra.Command {
	var format string
	var check bool

	command := &cobra.Command{
		Use:   "dump [path to module]",
		Short: "Dump a WebAssembly module's structure",
		Long:  "Dump a WebAssembly module's sections, signatures, and exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one argument")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			info, err := decodeModule(data)
			if err != nil {
				return err
			}
			if check {
				if err := info.Module().Validate(); err != nil {
					return fmt.Errorf("validate: %w", err)
				}
			}

			switch format {
			case "text":
				return dumpText(os.Stdout, args[0], info)
			case "json":
				return dumpJSON(os.Stdout, info)
			case "csv":
				return dumpCSV(os.Stdout, info.Module())
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	command.PersistentFlags().StringVarP(&format, "format", "f", "text", "output format: text, json, or csv")
	command.PersistentFlags().BoolVarP(&check, "check", "c", false, "validate index spaces before dumping")

	return command
}

func dumpText(out io.Writer, path string, info *moduleInfo) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	m := info.Module()

	fmt.Fprintf(w, "Module: %s\n", path)
	fmt.Fprintf(w, "Sections:\n")
	for _, s := range info.sections {
		fmt.Fprintf(w, "  %-9s %d bytes\n", s.ID, s.Size)
	}

	if len(m.Types) > 0 {
		fmt.Fprintf(w, "\nTypes:\n")
		for i, t := range m.Types {
			fmt.Fprintf(w, "  %d: %s\n", i, t)
		}
	}

	if len(m.Imports) > 0 {
		fmt.Fprintf(w, "\nImports:\n")
		for i, imp := range m.Imports {
			fmt.Fprintf(w, "  %d: %s.%s %s\n", i, imp.Module, imp.Name, describeImport(imp))
		}
	}

	if len(m.Funcs) > 0 {
		fmt.Fprintf(w, "\nFunctions:\n")
		imported := m.NumImportedFuncs()
		for i := range m.Funcs {
			idx := uint32(imported + i)
			sig, _ := m.FuncTypeAt(idx)
			fmt.Fprintf(w, "  %d: %s\n", idx, sig)
		}
	}

	if len(m.Tables) > 0 {
		fmt.Fprintf(w, "\nTables:\n")
		for i, t := range m.Tables {
			fmt.Fprintf(w, "  %d: %s %s\n", i, t.Elem, t.Limits)
		}
	}

	if len(m.Memories) > 0 {
		fmt.Fprintf(w, "\nMemories:\n")
		for i, mt := range m.Memories {
			fmt.Fprintf(w, "  %d: %s\n", i, mt.Limits)
		}
	}

	if len(m.Globals) > 0 {
		fmt.Fprintf(w, "\nGlobals:\n")
		for i, g := range m.Globals {
			fmt.Fprintf(w, "  %d: %s init=%d bytes\n", i, describeGlobalType(g.Type), len(g.Init))
		}
	}

	if len(m.Exports) > 0 {
		fmt.Fprintf(w, "\nExports:\n")
		for _, e := range m.Exports {
			fmt.Fprintf(w, "  %s -> %s %d\n", e.Name, kindString(e.Kind), e.Idx)
		}
	}

	if m.Start != nil {
		fmt.Fprintf(w, "\nStart: func %d\n", *m.Start)
	}

	if len(m.CustomSections) > 0 {
		fmt.Fprintf(w, "\nCustom sections:\n")
		for _, sec := range m.CustomSections {
			fmt.Fprintf(w, "  %q: %d bytes\n", sec.Name, len(sec.Data))
		}
	}

	return nil
}

func dumpJSON(w io.Writer, info *moduleInfo) error {
	type sectionJSON struct {
		Name string `json:"name"`
		Size uint32 `json:"size"`
	}
	type importJSON struct {
		Module string `json:"module"`
		Name   string `json:"name"`
		Kind   string `json:"kind"`
		Desc   string `json:"desc"`
	}
	type funcJSON struct {
		Funcidx   uint32 `json:"funcidx"`
		Signature string `json:"signature"`
	}
	type exportJSON struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
		Idx  uint32 `json:"idx"`
	}
	type customJSON struct {
		Name string `json:"name"`
		Size int    `json:"size"`
	}
	type moduleJSON struct {
		Start    *uint32       `json:"start,omitempty"`
		Sections []sectionJSON `json:"sections"`
		Types    []string      `json:"types,omitempty"`
		Imports  []importJSON  `json:"imports,omitempty"`
		Funcs    []funcJSON    `json:"funcs,omitempty"`
		Tables   []string      `json:"tables,omitempty"`
		Memories []string      `json:"memories,omitempty"`
		Globals  []string      `json:"globals,omitempty"`
		Exports  []exportJSON  `json:"exports,omitempty"`
		Custom   []customJSON  `json:"custom,omitempty"`
	}

	m := info.Module()
	doc := moduleJSON{Start: m.Start}

	for _, s := range info.sections {
		doc.Sections = append(doc.Sections, sectionJSON{Name: s.ID.String(), Size: s.Size})
	}
	for _, t := range m.Types {
		doc.Types = append(doc.Types, t.String())
	}
	for _, imp := range m.Imports {
		doc.Imports = append(doc.Imports, importJSON{
			Module: imp.Module,
			Name:   imp.Name,
			Kind:   kindString(imp.Desc.Kind),
			Desc:   describeImport(imp),
		})
	}
	imported := m.NumImportedFuncs()
	for i := range m.Funcs {
		idx := uint32(imported + i)
		sig, _ := m.FuncTypeAt(idx)
		doc.Funcs = append(doc.Funcs, funcJSON{Funcidx: idx, Signature: sig.String()})
	}
	for _, t := range m.Tables {
		doc.Tables = append(doc.Tables, fmt.Sprintf("%s %s", t.Elem, t.Limits))
	}
	for _, mt := range m.Memories {
		doc.Memories = append(doc.Memories, mt.Limits.String())
	}
	for _, g := range m.Globals {
		doc.Globals = append(doc.Globals, describeGlobalType(g.Type))
	}
	for _, e := range m.Exports {
		doc.Exports = append(doc.Exports, exportJSON{Name: e.Name, Kind: kindString(e.Kind), Idx: e.Idx})
	}
	for _, sec := range m.CustomSections {
		doc.Custom = append(doc.Custom, customJSON{Name: sec.Name, Size: len(sec.Data)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// rows:
// - function
//     - funcidx, import/local, name, in/out arity, signature

func dumpCSV(w io.Writer, m *wasm.Module) error {
	type row struct {
		Funcidx   int    `csv:"funcidx"`
		Source    string `csv:"source"`
		Name      string `csv:"name"`
		In        int    `csv:"in"`
		Out       int    `csv:"out"`
		Signature string `csv:"signature"`
	}

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	encoder := csvutil.NewEncoder(csvWriter)

	exportNames := map[uint32]string{}
	for _, e := range m.Exports {
		if e.Kind == wasm.KindFunc {
			exportNames[e.Idx] = e.Name
		}
	}

	idx := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind != wasm.KindFunc {
			continue
		}
		sig, _ := m.FuncTypeAt(uint32(idx))
		r := row{
			Funcidx:   idx,
			Source:    "import",
			Name:      imp.Module + "." + imp.Name,
			In:        len(sig.Params()),
			Out:       len(sig.Results()),
			Signature: sig.String(),
		}
		if err := encoder.Encode(&r); err != nil {
			return err
		}
		idx++
	}

	for range m.Funcs {
		sig, _ := m.FuncTypeAt(uint32(idx))
		r := row{
			Funcidx:   idx,
			Source:    "local",
			Name:      exportNames[uint32(idx)],
			In:        len(sig.Params()),
			Out:       len(sig.Results()),
			Signature: sig.String(),
		}
		if err := encoder.Encode(&r); err != nil {
			return err
		}
		idx++
	}

	return nil
}

func kindString(kind byte) string {
	switch kind {
	case wasm.KindFunc:
		return "func"
	case wasm.KindTable:
		return "table"
	case wasm.KindMemory:
		return "memory"
	case wasm.KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

func describeImport(imp wasm.Import) string {
	switch imp.Desc.Kind {
	case wasm.KindFunc:
		return fmt.Sprintf("func type=%d", imp.Desc.TypeIdx)
	case wasm.KindTable:
		return fmt.Sprintf("table %s %s", imp.Desc.Table.Elem, imp.Desc.Table.Limits)
	case wasm.KindMemory:
		return "memory " + imp.Desc.Memory.Limits.String()
	case wasm.KindGlobal:
		return "global " + describeGlobalType(*imp.Desc.Global)
	default:
		return "unknown"
	}
}

func describeGlobalType(gt wasm.GlobalType) string {
	if gt.Mutable {
		return "mut " + gt.ValType.String()
	}
	return gt.ValType.String()
}
