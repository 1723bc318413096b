package process

import (
	"errors"
	"fmt"
	"syscall"
)

// Process-level errors. Each carries enough context (handle/name plus the
// raw OS error code) that a failure can be diagnosed without re-running the
// locate. Nothing in this layer retries; every failure is surfaced to the
// caller immediately.

// ProcessEnumerationError reports a failed process snapshot syscall. This is
// the only non-recoverable failure while walking the process table.
type ProcessEnumerationError struct {
	Code uint32
}

func (e *ProcessEnumerationError) Error() string {
	return fmt.Sprintf("couldn't enumerate processes: %d", e.Code)
}

// ModuleEnumerationError reports a failed module-list query for an open
// process handle.
type ModuleEnumerationError struct {
	Handle Handle
	Code   uint32
}

func (e *ModuleEnumerationError) Error() string {
	return fmt.Sprintf("couldn't enumerate modules for handle %x: %d", uintptr(e.Handle), e.Code)
}

// ModuleNameError reports a failed module name resolution.
type ModuleNameError struct {
	Handle Handle
	Code   uint32
}

func (e *ModuleNameError) Error() string {
	return fmt.Sprintf("failed to get module name for handle %x: %d", uintptr(e.Handle), e.Code)
}

// ModuleInfoError reports a failed module-information query for a module
// whose name was already resolved.
type ModuleInfoError struct {
	Name string
	Code uint32
}

func (e *ModuleInfoError) Error() string {
	return fmt.Sprintf("failed to get module information for %q: %d", e.Name, e.Code)
}

// NotFoundError means the whole process table was walked without finding the
// target executable name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("process %q not found", e.Name)
}

// SnapshotOverflowError means an enumeration kept saturating its buffer all
// the way up to the documented hard bound. The snapshot is ambiguous at that
// point and is reported rather than silently truncated.
type SnapshotOverflowError struct {
	What  string // "processes" or "modules"
	Limit int
}

func (e *SnapshotOverflowError) Error() string {
	return fmt.Sprintf("%s snapshot exceeded %d entries", e.What, e.Limit)
}

// Memory-level errors.

// ReadError reports a failed cross-process read. Read is the number of bytes
// the OS transferred before failing, useful for diagnosing page-boundary
// truncation.
type ReadError struct {
	Address ProcessMemoryAddress
	Code    uint32
	Read    uint
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("couldn't read memory at %x: %d (read: %d)", uint64(e.Address), e.Code, e.Read)
}

// IncorrectSizeError reports a read that transferred fewer bytes than the
// exact size required.
type IncorrectSizeError struct {
	Expected uint
	Actual   uint
}

func (e *IncorrectSizeError) Error() string {
	return fmt.Sprintf("incorrect read size (expected: %d, actual: %d)", e.Expected, e.Actual)
}

var (
	// ErrSignatureNotFound is the agreed failure for a pattern scanner that
	// exhausts its search space. The scanner itself lives outside this
	// package; see Signature.
	ErrSignatureNotFound = errors.New("unable to find signature")

	// ErrProcessClosed is returned when reading through a Process whose
	// handle has already been released.
	ErrProcessClosed = errors.New("process handle closed")

	// ErrNoSuchModule is returned when a module index is outside the cached
	// module list.
	ErrNoSuchModule = errors.New("module index out of range")
)

// osCode extracts the raw OS error code from a System error. Errors that are
// not errno-shaped report code 0.
func osCode(err error) uint32 {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return uint32(errno)
	}
	return 0
}
