package process

// ProcessID represents a unique identifier for a running process
type ProcessID uint32

// Handle is an OS-granted capability token for a running process. It permits
// reading the process's memory and querying its module list until it is
// released with System.CloseProcess. The zero Handle is never valid.
type Handle uintptr

// ModuleHandle identifies one loaded module within an open process. It is
// only meaningful to the System that produced it.
type ModuleHandle uintptr

// Module describes one loaded executable image inside a process. Base is a
// virtual address in the target's address space, not a file offset.
//
// A module list is computed once at locate time and never refreshed; if the
// target unloads or reloads modules the cached list goes stale and the
// process must be located again.
type Module struct {
	Name string
	Base ProcessMemoryAddress
	Size ProcessMemorySize
}
