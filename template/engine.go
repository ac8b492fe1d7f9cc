package template

import (
	"fmt"
	"sync"

	"github.com/superlaser97/label-craft/geom"
)

// Engine owns the live scene graph for one editing session. Every change
// goes through apply, which runs the mutation on a private clone, snapshots
// the result into the undo history and only then swaps it in; a failed
// mutation leaves both the document and the history untouched. The mutex
// serializes history operations so no two mutations interleave.
type Engine struct {
	mu       sync.Mutex
	doc      *Document
	hist     *history
	pending  *stagedEdit
	onChange func(*Document)
}

// stagedEdit is an in-progress interactive edit (e.g. text mid-typing). It
// previews on the live document but only becomes a history entry when
// committed or flushed by an export.
type stagedEdit struct {
	index  int
	object Object
}

// EngineOption configures a new Engine.
type EngineOption func(*Engine)

// WithHistoryLimit bounds the number of retained snapshots.
func WithHistoryLimit(n int) EngineOption {
	return func(e *Engine) { e.hist = newHistory(n) }
}

// WithOnChange registers a change listener. It receives a deep copy of the
// committed document after every successful mutation, undo and redo, so the
// view layer can never mutate engine state through it.
func WithOnChange(fn func(*Document)) EngineOption {
	return func(e *Engine) { e.onChange = fn }
}

// NewEngine starts a session on the given document. The initial state is
// seeded into the history so a full undo chain always lands back on it.
func NewEngine(doc *Document, opts ...EngineOption) (*Engine, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrSerialization)
	}
	if err := doc.Dimensions.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{doc: doc.Clone(), hist: newHistory(defaultHistoryLimit)}
	for _, opt := range opts {
		opt(e)
	}
	snap, err := e.doc.Encode()
	if err != nil {
		return nil, err
	}
	e.hist.push(string(snap))
	return e, nil
}

// NewSession is shorthand for a fresh empty document.
func NewSession(name string, dims geom.Dimensions, opts ...EngineOption) (*Engine, error) {
	doc, err := NewDocument(name, dims)
	if err != nil {
		return nil, err
	}
	return NewEngine(doc, opts...)
}

// Apply runs one mutation as a transaction: the callback sees a clone of the
// current document, and the result is committed with exactly one history
// entry regardless of how many objects it touches. Returning an error from
// the callback aborts the whole mutation.
func (e *Engine) Apply(fn func(*Document) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(fn)
}

func (e *Engine) applyLocked(fn func(*Document) error) error {
	next := e.doc.Clone()
	// Fold the staged edit in first so the snapshot reflects the latest
	// committed value of an object mid-edit.
	if p := e.pending; p != nil && p.index >= 0 && p.index < len(next.Objects) {
		next.Objects[p.index] = p.object.Clone()
	}
	if err := fn(next); err != nil {
		return err
	}
	if err := next.Dimensions.Validate(); err != nil {
		return err
	}
	snap, err := next.Encode()
	if err != nil {
		return err
	}
	e.pending = nil
	e.hist.push(string(snap))
	e.doc = next
	e.notifyLocked()
	return nil
}

// AddObject appends an object on top of the z-order.
func (e *Engine) AddObject(o Object) error {
	if o == nil {
		return fmt.Errorf("%w: nil object", ErrSerialization)
	}
	return e.Apply(func(d *Document) error {
		d.Objects = append(d.Objects, o.Clone())
		return nil
	})
}

// RemoveObject deletes the object at the given z-index.
func (e *Engine) RemoveObject(index int) error {
	return e.Apply(func(d *Document) error {
		if index < 0 || index >= len(d.Objects) {
			return fmt.Errorf("object index %d out of range", index)
		}
		d.Objects = append(d.Objects[:index], d.Objects[index+1:]...)
		return nil
	})
}

// UpdateObject replaces the object at the given z-index. Replacing an object
// with an identical one is absorbed by snapshot deduplication and costs no
// undo step.
func (e *Engine) UpdateObject(index int, o Object) error {
	if o == nil {
		return fmt.Errorf("%w: nil object", ErrSerialization)
	}
	return e.Apply(func(d *Document) error {
		if index < 0 || index >= len(d.Objects) {
			return fmt.Errorf("object index %d out of range", index)
		}
		d.Objects[index] = o.Clone()
		return nil
	})
}

// Clear removes every object in a single history entry, so one undo restores
// the entire prior scene.
func (e *Engine) Clear() error {
	return e.Apply(func(d *Document) error {
		d.Objects = ObjectList{}
		return nil
	})
}

// Rename sets the template name.
func (e *Engine) Rename(name string) error {
	return e.Apply(func(d *Document) error {
		d.TemplateName = name
		return nil
	})
}

// Load replaces the whole document from interchange JSON. The load is
// atomic: a corrupt payload leaves the live document and history unchanged.
func (e *Engine) Load(data []byte) error {
	doc, err := DecodeDocument(data)
	if err != nil {
		return err
	}
	return e.Apply(func(d *Document) error {
		*d = *doc.Clone()
		return nil
	})
}

// StageUpdate previews an in-progress edit of one object without recording
// history. The staged object replaces the committed one in ExportDocument
// and is promoted to a real mutation by the next Apply/Commit/export.
func (e *Engine) StageUpdate(index int, o Object) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o == nil {
		return fmt.Errorf("%w: nil object", ErrSerialization)
	}
	if index < 0 || index >= len(e.doc.Objects) {
		return fmt.Errorf("object index %d out of range", index)
	}
	e.pending = &stagedEdit{index: index, object: o.Clone()}
	return nil
}

// Commit promotes the staged edit, if any, into a committed mutation.
func (e *Engine) Commit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return nil
	}
	return e.applyLocked(func(*Document) error { return nil })
}

// Undo steps the history cursor back and rebuilds the scene from the
// snapshot there, restoring every object including its binding metadata.
// A staged preview is discarded. At the bottom of the stack it is a no-op
// and reports false.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
	snap, ok := e.hist.undo()
	if !ok {
		return false
	}
	e.restoreLocked(snap)
	return true
}

// Redo steps the cursor forward; a no-op at the top of the stack.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
	snap, ok := e.hist.redo()
	if !ok {
		return false
	}
	e.restoreLocked(snap)
	return true
}

func (e *Engine) restoreLocked(snap string) {
	doc, err := DecodeDocument([]byte(snap))
	if err != nil {
		// Snapshots are produced by Encode and must decode; a failure here
		// means the stack itself is corrupt, so keep the live document.
		return
	}
	e.doc = doc
	e.notifyLocked()
}

// CanUndo reports whether an undo step is available.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.canUndo()
}

// CanRedo reports whether a redo step is available.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.canRedo()
}

// ExportDocument flushes any staged edit and returns an immutable deep copy
// of the current document. Exports and saves always work on this snapshot,
// never on the live scene graph. A staged edit that fails to commit fails
// the export rather than being dropped from it.
func (e *Engine) ExportDocument() (*Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		if err := e.applyLocked(func(*Document) error { return nil }); err != nil {
			return nil, err
		}
	}
	return e.doc.Clone(), nil
}

func (e *Engine) notifyLocked() {
	if e.onChange != nil {
		e.onChange(e.doc.Clone())
	}
}
