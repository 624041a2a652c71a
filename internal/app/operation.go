package app

import (
	"sync/atomic"
	"time"
)

// Operation tracks the CLI command being run. An operation becomes dirty
// once it has changed the catalog; only dirty operations save the snapshot
// on Close.
type Operation struct {
	ID        string
	Name      string
	StartedAt time.Time

	dirty  atomic.Bool
	failed atomic.Bool
}

// NewOperation creates an operation named name, identified by its start time.
func NewOperation(name string, startedAt time.Time) *Operation {
	return &Operation{
		ID:        startedAt.UTC().Format("20060102T150405Z"),
		Name:      name,
		StartedAt: startedAt,
	}
}

// MarkDirty records that the catalog changed.
func (op *Operation) MarkDirty() { op.dirty.Store(true) }

// Dirty reports whether the catalog changed during the operation.
func (op *Operation) Dirty() bool { return op.dirty.Load() }

// Fail marks the operation as failed. A nil err is ignored.
func (op *Operation) Fail(err error) {
	if err != nil {
		op.failed.Store(true)
	}
}

// Status returns "error" if any step failed and "success" otherwise.
func (op *Operation) Status() string {
	if op.failed.Load() {
		return "error"
	}
	return "success"
}
