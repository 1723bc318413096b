package process

import (
	"fmt"
	"sync"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

const (
	// snapshotStart is the initial capacity used for process and module
	// snapshots, matching the fixed bound the tool historically used.
	snapshotStart = 1024

	// snapshotLimit is the hard bound on snapshot growth. An enumeration
	// still saturating at this size fails with SnapshotOverflowError
	// instead of returning an ambiguous, possibly truncated table.
	snapshotLimit = 131072
)

// Process is an open, located process: its executable name, the owning
// handle and the module list cached at locate time. Module index 0 is the
// process's main executable image; callers depend on this for offset
// calculations.
//
// The handle is an exclusively owned resource with exactly one logical
// owner. Close releases it; after that every read fails with
// ErrProcessClosed.
type Process struct {
	name    string
	handle  Handle
	modules []Module
	sys     System

	mu  sync.Mutex
	log *logger.Logger
}

// Locate walks the process table looking for an executable with exactly the
// given name and returns it opened for reading, with its modules enumerated.
//
// Candidates that cannot be opened (for example due to privilege) are
// skipped; this is the only failure the walk swallows. The name comparison
// is case-sensitive exact equality. An exhausted table yields NotFoundError;
// a failed snapshot syscall yields ProcessEnumerationError.
func Locate(sys System, target string) (*Process, error) {
	pids := make([]ProcessID, snapshotStart)
	for {
		n, err := sys.ProcessIDs(pids)
		if err != nil {
			return nil, &ProcessEnumerationError{Code: osCode(err)}
		}
		if n < len(pids) {
			pids = pids[:n]
			break
		}
		if len(pids) >= snapshotLimit {
			return nil, &SnapshotOverflowError{What: "processes", Limit: snapshotLimit}
		}
		pids = make([]ProcessID, len(pids)*2)
	}

	for _, pid := range pids {
		h, err := sys.OpenProcess(pid)
		if err != nil {
			continue
		}

		name, err := sys.BaseName(h)
		if err != nil || name != target {
			sys.CloseProcess(h)
			continue
		}

		modules, err := enumerateModules(sys, h)
		if err != nil {
			sys.CloseProcess(h)
			return nil, err
		}

		p := &Process{
			name:    name,
			handle:  h,
			modules: modules,
			sys:     sys,
			log:     logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid))),
		}
		p.log.Infoln("Located", name, "with", len(modules), "modules, main image base", modules[0].Base.String())
		return p, nil
	}

	return nil, &NotFoundError{Name: target}
}

// enumerateModules queries the loaded module list for an open handle and
// resolves each module's name, base address and image size. Any query
// failing aborts the whole enumeration; partial module lists are never
// returned.
func enumerateModules(sys System, h Handle) ([]Module, error) {
	handles := make([]ModuleHandle, snapshotStart)
	for {
		n, err := sys.ModuleHandles(h, handles)
		if err != nil {
			return nil, &ModuleEnumerationError{Handle: h, Code: osCode(err)}
		}
		if n < len(handles) {
			handles = handles[:n]
			break
		}
		if len(handles) >= snapshotLimit {
			return nil, &SnapshotOverflowError{What: "modules", Limit: snapshotLimit}
		}
		handles = make([]ModuleHandle, len(handles)*2)
	}

	modules := make([]Module, 0, len(handles))
	for _, mh := range handles {
		name, err := sys.ModuleName(h, mh)
		if err != nil {
			return nil, &ModuleNameError{Handle: h, Code: osCode(err)}
		}

		base, size, err := sys.ModuleInfo(h, mh)
		if err != nil {
			return nil, &ModuleInfoError{Name: name, Code: osCode(err)}
		}

		modules = append(modules, Module{Name: name, Base: base, Size: size})
	}

	// A process without a main image is not usable; it cannot be addressed.
	if len(modules) == 0 {
		return nil, &ModuleEnumerationError{Handle: h}
	}
	return modules, nil
}

// Name returns the located executable name.
func (p *Process) Name() string {
	return p.name
}

// Modules returns a copy of the module list cached at locate time, in OS
// enumeration order.
func (p *Process) Modules() []Module {
	result := make([]Module, len(p.modules))
	copy(result, p.modules)
	return result
}

// Module returns the cached module at the given index.
func (p *Process) Module(index int) (Module, error) {
	if index < 0 || index >= len(p.modules) {
		return Module{}, ErrNoSuchModule
	}
	return p.modules[index], nil
}

// Read issues one cross-process read of len(buf) bytes at addr and reports
// how many bytes were actually transferred. The count may be short when the
// range spans an unmapped page; callers needing an exact-size transfer must
// check the count themselves. A failed read yields ReadError carrying the
// address, the OS code and the partial count.
func (p *Process) Read(addr ProcessMemoryAddress, buf []byte) (uint, error) {
	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return 0, ErrProcessClosed
	}

	n, err := p.sys.ReadMemory(handle, addr, buf)
	if err != nil {
		return n, &ReadError{Address: addr, Code: osCode(err), Read: n}
	}
	return n, nil
}

// Close releases the process handle. It is safe to call more than once;
// only the first call releases the handle.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == 0 {
		return nil
	}

	err := p.sys.CloseProcess(p.handle)
	p.handle = 0
	if err != nil {
		return fmt.Errorf("failed to close process handle: %w", err)
	}
	p.log.Infoln("Process closed")
	return nil
}
