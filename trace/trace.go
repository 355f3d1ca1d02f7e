// Package trace observes decodes by logging every event a consumer
// receives. It wraps any wasm.Hooks value with a forwarding decorator,
// so a decode can be inspected without changing its outcome.
package trace

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-decode/wasm"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the trace package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the trace package's logger.
// This must be called before any decode is traced.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Hooks forwards every decode event to an inner consumer, logging each
// one at debug level first. The inner consumer's return values pass
// through unchanged.
//
//	var c wasm.Collector
//	err := wasm.Decode(data, trace.Wrap(&c, log))
type Hooks[H wasm.Hooks] struct {
	Inner H
	Log   *zap.Logger
}

// Wrap builds a tracing decorator around inner. A nil log falls back to
// the package logger.
func Wrap[H wasm.Hooks](inner H, log *zap.Logger) Hooks[H] {
	if log == nil {
		log = Logger()
	}
	return Hooks[H]{Inner: inner, Log: log}
}

func (h Hooks[H]) ModuleStart(version uint32) error {
	h.Log.Debug("module start", zap.Uint32("version", version))
	return h.Inner.ModuleStart(version)
}

func (h Hooks[H]) SectionStart(id wasm.SectionID, size uint32) error {
	h.Log.Debug("section start", zap.Stringer("section", id), zap.Uint32("size", size))
	return h.Inner.SectionStart(id, size)
}

func (h Hooks[H]) SectionEnd(id wasm.SectionID) error {
	h.Log.Debug("section end", zap.Stringer("section", id))
	return h.Inner.SectionEnd(id)
}

func (h Hooks[H]) TypeCount(count uint32) error {
	h.Log.Debug("type count", zap.Uint32("count", count))
	return h.Inner.TypeCount(count)
}

func (h Hooks[H]) Type(index uint32, t wasm.FuncType) error {
	h.Log.Debug("type", zap.Uint32("index", index), zap.Stringer("type", t))
	return h.Inner.Type(index, t)
}

func (h Hooks[H]) Import(index uint32, imp wasm.Import) error {
	h.Log.Debug("import",
		zap.Uint32("index", index),
		zap.String("module", imp.Module),
		zap.String("name", imp.Name),
		zap.Uint8("kind", imp.Desc.Kind))
	return h.Inner.Import(index, imp)
}

func (h Hooks[H]) Func(index uint32, typeIdx uint32) error {
	h.Log.Debug("func", zap.Uint32("index", index), zap.Uint32("type_index", typeIdx))
	return h.Inner.Func(index, typeIdx)
}

func (h Hooks[H]) Table(index uint32, t wasm.TableType) error {
	h.Log.Debug("table",
		zap.Uint32("index", index),
		zap.Stringer("elem", t.Elem),
		zap.Stringer("limits", t.Limits))
	return h.Inner.Table(index, t)
}

func (h Hooks[H]) Memory(index uint32, mt wasm.MemoryType) error {
	h.Log.Debug("memory", zap.Uint32("index", index), zap.Stringer("limits", mt.Limits))
	return h.Inner.Memory(index, mt)
}

func (h Hooks[H]) Global(index uint32, g wasm.Global) error {
	h.Log.Debug("global",
		zap.Uint32("index", index),
		zap.Stringer("type", g.Type.ValType),
		zap.Bool("mutable", g.Type.Mutable),
		zap.Int("init_bytes", len(g.Init)))
	return h.Inner.Global(index, g)
}

func (h Hooks[H]) Export(index uint32, e wasm.Export) error {
	h.Log.Debug("export",
		zap.Uint32("index", index),
		zap.String("name", e.Name),
		zap.Uint8("kind", e.Kind),
		zap.Uint32("target", e.Idx))
	return h.Inner.Export(index, e)
}

func (h Hooks[H]) StartFunc(funcIdx uint32) error {
	h.Log.Debug("start func", zap.Uint32("func_index", funcIdx))
	return h.Inner.StartFunc(funcIdx)
}

func (h Hooks[H]) Custom(sec wasm.CustomSection) error {
	h.Log.Debug("custom section", zap.String("name", sec.Name), zap.Int("bytes", len(sec.Data)))
	return h.Inner.Custom(sec)
}

func (h Hooks[H]) Raw(sec wasm.RawSection) error {
	h.Log.Debug("raw section", zap.Stringer("section", sec.ID), zap.Int("bytes", len(sec.Data)))
	return h.Inner.Raw(sec)
}
