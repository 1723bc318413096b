// Package process_blob implements process.System over an in-memory process
// table. Each synthetic process carries a module list and a set of sparse
// memory segments, so the portable core can run against offline images and
// be tested without a live target. Reads that run off the end of a segment
// transfer what was available and report the partial count, the same shape
// a real backend produces at an unmapped page boundary.
package process_blob

import (
	"sync"
	"syscall"

	"github.com/tyhi/xivtools/process"
)

// Segment is one mapped range of a synthetic process image.
type Segment struct {
	Base process.ProcessMemoryAddress
	Data []byte
}

type blobProcess struct {
	pid      process.ProcessID
	name     string
	modules  []process.Module
	segments []Segment
	deny     bool
}

// System is an in-memory process.System. The zero value is not usable; use
// New.
type System struct {
	mu         sync.Mutex
	order      []process.ProcessID
	procs      map[process.ProcessID]*blobProcess
	open       map[process.Handle]*blobProcess
	nextHandle process.Handle

	opens  int
	closes int

	// Optional fault injection, checked before the corresponding query.
	ProcessIDsErr    error
	ModuleHandlesErr error
	ModuleNameErr    error
	ModuleInfoErr    error
}

func New() *System {
	return &System{
		procs: make(map[process.ProcessID]*blobProcess),
		open:  make(map[process.Handle]*blobProcess),
	}
}

// Add registers a synthetic process. Modules are kept in the given order;
// by convention the first one is the main executable image.
func (s *System) Add(pid process.ProcessID, name string, modules []process.Module, segments ...Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.procs[pid]; !ok {
		s.order = append(s.order, pid)
	}
	s.procs[pid] = &blobProcess{pid: pid, name: name, modules: modules, segments: segments}
}

// Deny marks a registered process as unopenable, as a privileged process
// would be for an unprivileged caller.
func (s *System) Deny(pid process.ProcessID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.procs[pid]; ok {
		p.deny = true
	}
}

// Opens reports how many handles have been issued.
func (s *System) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

// OpenHandles reports how many issued handles have not been released.
func (s *System) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

func (s *System) ProcessIDs(pids []process.ProcessID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ProcessIDsErr != nil {
		return 0, s.ProcessIDsErr
	}

	n := copy(pids, s.order)
	return n, nil
}

func (s *System) OpenProcess(pid process.ProcessID) (process.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.procs[pid]
	if !ok {
		return 0, syscall.ESRCH
	}
	if p.deny {
		return 0, syscall.EPERM
	}

	s.nextHandle++
	s.open[s.nextHandle] = p
	s.opens++
	return s.nextHandle, nil
}

func (s *System) CloseProcess(h process.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.open[h]; !ok {
		return syscall.EBADF
	}
	delete(s.open, h)
	s.closes++
	return nil
}

func (s *System) BaseName(h process.Handle) (string, error) {
	p, err := s.lookup(h)
	if err != nil {
		return "", err
	}
	return p.name, nil
}

func (s *System) ModuleHandles(h process.Handle, modules []process.ModuleHandle) (int, error) {
	p, err := s.lookup(h)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	injected := s.ModuleHandlesErr
	s.mu.Unlock()
	if injected != nil {
		return 0, injected
	}

	n := len(p.modules)
	if n > len(modules) {
		n = len(modules)
	}
	for i := 0; i < n; i++ {
		// Module handles are 1-based indexes into the module list.
		modules[i] = process.ModuleHandle(i + 1)
	}
	return n, nil
}

func (s *System) ModuleName(h process.Handle, m process.ModuleHandle) (string, error) {
	p, err := s.lookup(h)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	injected := s.ModuleNameErr
	s.mu.Unlock()
	if injected != nil {
		return "", injected
	}

	mod, err := p.module(m)
	if err != nil {
		return "", err
	}
	return mod.Name, nil
}

func (s *System) ModuleInfo(h process.Handle, m process.ModuleHandle) (process.ProcessMemoryAddress, process.ProcessMemorySize, error) {
	p, err := s.lookup(h)
	if err != nil {
		return 0, 0, err
	}

	s.mu.Lock()
	injected := s.ModuleInfoErr
	s.mu.Unlock()
	if injected != nil {
		return 0, 0, injected
	}

	mod, err := p.module(m)
	if err != nil {
		return 0, 0, err
	}
	return mod.Base, mod.Size, nil
}

func (s *System) ReadMemory(h process.Handle, addr process.ProcessMemoryAddress, buf []byte) (uint, error) {
	p, err := s.lookup(h)
	if err != nil {
		return 0, err
	}

	for _, seg := range p.segments {
		end := seg.Base + process.ProcessMemoryAddress(len(seg.Data))
		if addr < seg.Base || addr >= end {
			continue
		}
		n := copy(buf, seg.Data[addr-seg.Base:])
		return uint(n), nil
	}
	return 0, syscall.EFAULT
}

func (s *System) lookup(h process.Handle) (*blobProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.open[h]
	if !ok {
		return nil, syscall.EBADF
	}
	return p, nil
}

func (p *blobProcess) module(m process.ModuleHandle) (process.Module, error) {
	i := int(m) - 1
	if i < 0 || i >= len(p.modules) {
		return process.Module{}, syscall.EINVAL
	}
	return p.modules[i], nil
}
