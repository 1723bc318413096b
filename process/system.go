package process

// System is the OS boundary this package runs against: process snapshot
// enumeration, process-open-by-id, module queries and cross-process memory
// reads. process_windows and process_linux provide the real backends;
// process_blob provides an in-memory one for offline images and tests.
//
// Every call is a direct blocking syscall equivalent. There are no timeouts
// anywhere in this layer; an unresponsive target blocks the calling
// goroutine. That is a documented limitation of the design, not a bug.
type System interface {
	// ProcessIDs fills pids with a snapshot of the identifiers currently
	// visible to the caller and returns how many were stored. A count equal
	// to len(pids) means the snapshot may not have fit and the caller must
	// retry with a larger buffer; only a count strictly below len(pids) is
	// known to be complete.
	ProcessIDs(pids []ProcessID) (int, error)

	// OpenProcess opens pid with read-memory and query-information rights.
	// The returned Handle must be released with CloseProcess.
	OpenProcess(pid ProcessID) (Handle, error)

	// CloseProcess releases a handle obtained from OpenProcess.
	CloseProcess(h Handle) error

	// BaseName resolves the executable name of the process behind h.
	BaseName(h Handle) (string, error)

	// ModuleHandles fills modules with the process's loaded module handles
	// in OS enumeration order and returns how many were stored. Saturation
	// semantics match ProcessIDs.
	ModuleHandles(h Handle, modules []ModuleHandle) (int, error)

	// ModuleName resolves the display name of one module.
	ModuleName(h Handle, m ModuleHandle) (string, error)

	// ModuleInfo resolves a module's base address and image size.
	ModuleInfo(h Handle, m ModuleHandle) (ProcessMemoryAddress, ProcessMemorySize, error)

	// ReadMemory reads len(buf) bytes of the target's address space starting
	// at addr. It returns the number of bytes actually transferred, which
	// may be short when the range spans an unmapped page: some systems
	// report a partial count as success, so a nil error never implies a full
	// transfer. The count is valid even when err is non-nil.
	ReadMemory(h Handle, addr ProcessMemoryAddress, buf []byte) (uint, error)
}
