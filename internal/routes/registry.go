package routes

import (
	"errors"
	"sync/atomic"
)

var ErrAlreadyRegistered = errors.New("route table already registered")

var current atomic.Pointer[Table]

// Register installs t as the process-wide route table. It may be called once.
func Register(t *Table) error {
	if t == nil {
		return errors.New("route table is nil")
	}
	if !current.CompareAndSwap(nil, t) {
		return ErrAlreadyRegistered
	}
	return nil
}

// Current returns the registered route table, or nil before Register.
func Current() *Table {
	return current.Load()
}
