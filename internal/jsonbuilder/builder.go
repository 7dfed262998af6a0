// Package jsonbuilder assembles JSON-compatible values (maps, slices and
// scalars) through a chain of calls, rejecting calls that are illegal in the
// current position of the document.
package jsonbuilder

import "errors"

var (
	ErrKeyOutsideDict  = errors.New("jsonbuilder: key outside of a dict")
	ErrKeyAfterKey     = errors.New("jsonbuilder: key while another key awaits its value")
	ErrValueWithoutKey = errors.New("jsonbuilder: dict value without a key")
	ErrUnbalancedEnd   = errors.New("jsonbuilder: end does not match the open container")
	ErrMultipleRoots   = errors.New("jsonbuilder: document already has a root value")
	ErrAlreadyBuilt    = errors.New("jsonbuilder: builder already built")
	ErrIncomplete      = errors.New("jsonbuilder: document is incomplete")
)

type context uint8

const (
	ctxArray context = iota
	ctxDict
	ctxAwaitingValue
)

type frame struct {
	ctx   context
	array []any
	dict  map[string]any
	key   string
}

// Builder is a finite-state machine over an explicit stack of open contexts.
// The first illegal call is recorded; every later call is a no-op and Build
// reports that error.
type Builder struct {
	stack   []frame
	root    any
	hasRoot bool
	built   bool
	err     error
}

func New() *Builder {
	return &Builder{}
}

// Err returns the first error recorded so far.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) Key(key string) *Builder {
	if !b.ready() {
		return b
	}

	top := b.top()
	switch {
	case top == nil:
		b.fail(ErrKeyOutsideDict)
	case top.ctx == ctxAwaitingValue:
		b.fail(ErrKeyAfterKey)
	case top.ctx != ctxDict:
		b.fail(ErrKeyOutsideDict)
	default:
		b.stack = append(b.stack, frame{ctx: ctxAwaitingValue, key: key})
	}
	return b
}

// Value adds a complete value. Slices and maps passed here are stored as is.
func (b *Builder) Value(v any) *Builder {
	if b.ready() {
		b.place(v)
	}
	return b
}

func (b *Builder) StartArray() *Builder {
	if b.ready() && b.canOpen() {
		b.stack = append(b.stack, frame{ctx: ctxArray, array: []any{}})
	}
	return b
}

func (b *Builder) EndArray() *Builder {
	if !b.ready() {
		return b
	}

	top := b.top()
	if top == nil || top.ctx != ctxArray {
		b.fail(ErrUnbalancedEnd)
		return b
	}
	done := top.array
	b.stack = b.stack[:len(b.stack)-1]
	b.place(done)
	return b
}

func (b *Builder) StartDict() *Builder {
	if b.ready() && b.canOpen() {
		b.stack = append(b.stack, frame{ctx: ctxDict, dict: map[string]any{}})
	}
	return b
}

func (b *Builder) EndDict() *Builder {
	if !b.ready() {
		return b
	}

	top := b.top()
	if top == nil || top.ctx != ctxDict {
		b.fail(ErrUnbalancedEnd)
		return b
	}
	done := top.dict
	b.stack = b.stack[:len(b.stack)-1]
	b.place(done)
	return b
}

// Build returns the finished document. It succeeds at most once.
func (b *Builder) Build() (any, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.built {
		b.err = ErrAlreadyBuilt
		return nil, b.err
	}
	if len(b.stack) != 0 || !b.hasRoot {
		b.err = ErrIncomplete
		return nil, b.err
	}
	b.built = true
	return b.root, nil
}

func (b *Builder) ready() bool {
	if b.err != nil {
		return false
	}
	if b.built {
		b.err = ErrAlreadyBuilt
		return false
	}
	return true
}

func (b *Builder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return &b.stack[len(b.stack)-1]
}

// canOpen reports whether a new container may start at the current position.
func (b *Builder) canOpen() bool {
	top := b.top()
	switch {
	case top == nil && b.hasRoot:
		b.fail(ErrMultipleRoots)
		return false
	case top != nil && top.ctx == ctxDict:
		b.fail(ErrValueWithoutKey)
		return false
	}
	return true
}

// place stores a finished value into the innermost open context.
func (b *Builder) place(v any) {
	top := b.top()
	if top == nil {
		if b.hasRoot {
			b.fail(ErrMultipleRoots)
			return
		}
		b.root, b.hasRoot = v, true
		return
	}

	switch top.ctx {
	case ctxArray:
		top.array = append(top.array, v)
	case ctxDict:
		b.fail(ErrValueWithoutKey)
	case ctxAwaitingValue:
		key := top.key
		b.stack = b.stack[:len(b.stack)-1]
		b.top().dict[key] = v
	}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
