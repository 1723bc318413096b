package pod

import (
	"unsafe"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"github.com/tyhi/xivtools/process"
)

// Remote binds a default-constructed record of type T to a (module, offset)
// pair inside a located process and refreshes its contents in place on
// demand. The record is only ever populated by a full, exact-size read; a
// short or failed read leaves the previous contents undisturbed.
//
// A Remote exclusively owns its Process: dropping the overlay through Close
// releases the process handle.
type Remote[T any] struct {
	t      T
	module int
	offset process.ProcessMemoryAddress
	proc   *process.Process
	buf    []byte
	log    *logger.Logger
}

// Bind constructs an overlay at the given offset from the main executable
// image's base. No read is performed; the record starts at its zero value.
func Bind[T any](proc *process.Process, offset process.ProcessMemoryAddress) *Remote[T] {
	return BindAt[T](proc, 0, offset)
}

// BindAt constructs an overlay at the given offset from the base of the
// module at the given index.
func BindAt[T any](proc *process.Process, module int, offset process.ProcessMemoryAddress) *Remote[T] {
	r := &Remote[T]{
		module: module,
		offset: offset,
		proc:   proc,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "remote")),
	}
	if mod, err := proc.Module(module); err == nil {
		r.log.Debugln("Binding remote struct @", (mod.Base + offset).String())
	}
	return r
}

// Value returns the live record. Its contents are whatever the last
// successful Refresh produced, or the zero value before the first one.
func (r *Remote[T]) Value() *T {
	return &r.t
}

// Refresh reads exactly SizeOf[T] bytes at module base + offset into a
// scratch buffer, and commits them into the record only when the
// transferred count matches exactly. Short reads return IncorrectSizeError
// with the record left bit-for-bit unchanged; failed reads return ReadError
// the same way.
func (r *Remote[T]) Refresh() error {
	if hasPointers[T]() {
		return ErrNotPlainData
	}

	mod, err := r.proc.Module(r.module)
	if err != nil {
		return err
	}

	size := uint(unsafe.Sizeof(r.t))
	if r.buf == nil {
		r.buf = make([]byte, size)
	}

	addr := mod.Base + r.offset
	n, err := r.proc.Read(addr, r.buf)
	if err != nil {
		return err
	}
	if n != size {
		return &process.IncorrectSizeError{Expected: size, Actual: n}
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(&r.t)), size)
	copy(dst, r.buf)
	return nil
}

// Close releases the owned process handle.
func (r *Remote[T]) Close() error {
	return r.proc.Close()
}
