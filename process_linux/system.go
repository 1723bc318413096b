//go:build linux

// Package process_linux implements process.System over /proc and
// process_vm_readv through golang.org/x/sys/unix.
//
// Handles are pid file descriptors (pidfd_open), so a located process stays
// pinned while its handle is held. Module records are derived from the
// file-backed mappings in /proc/<pid>/maps: each distinct mapped file
// becomes one module whose base is its lowest mapping start and whose size
// spans to its highest mapping end, with the main executable forced to
// index 0. Names come from /proc/<pid>/comm and are therefore subject to
// the kernel's 15-character truncation.
package process_linux

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/tyhi/xivtools/process"
)

// System is the live Linux backend. It tracks which pid each issued pidfd
// refers to, plus the module list parsed when the handle was enumerated so
// module handles stay stable between queries.
type System struct {
	mu      sync.Mutex
	pids    map[process.Handle]int
	modules map[process.Handle][]process.Module
}

func New() *System {
	return &System{
		pids:    make(map[process.Handle]int),
		modules: make(map[process.Handle][]process.Module),
	}
}

// Locate finds a running executable by name against the live system.
func Locate(target string) (*process.Process, error) {
	return process.Locate(New(), target)
}

func (s *System) ProcessIDs(pids []process.ProcessID) (int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return 0, err
	}

	n := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.ParseUint(entry.Name(), 10, 32)
		if err != nil {
			continue
		}
		if n == len(pids) {
			// Saturated; the caller retries with a larger buffer.
			return n, nil
		}
		pids[n] = process.ProcessID(pid)
		n++
	}
	return n, nil
}

func (s *System) OpenProcess(pid process.ProcessID) (process.Handle, error) {
	fd, err := unix.PidfdOpen(int(pid), 0)
	if err != nil {
		return 0, err
	}

	h := process.Handle(fd)
	s.mu.Lock()
	s.pids[h] = int(pid)
	s.mu.Unlock()
	return h, nil
}

func (s *System) CloseProcess(h process.Handle) error {
	s.mu.Lock()
	_, ok := s.pids[h]
	delete(s.pids, h)
	delete(s.modules, h)
	s.mu.Unlock()

	if !ok {
		return unix.EBADF
	}
	return unix.Close(int(h))
}

func (s *System) BaseName(h process.Handle) (string, error) {
	pid, err := s.pid(h)
	if err != nil {
		return "", err
	}

	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(comm)), nil
}

func (s *System) ModuleHandles(h process.Handle, modules []process.ModuleHandle) (int, error) {
	pid, err := s.pid(h)
	if err != nil {
		return 0, err
	}

	mods, err := readModules(pid)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.modules[h] = mods
	s.mu.Unlock()

	n := len(mods)
	if n > len(modules) {
		n = len(modules)
	}
	for i := 0; i < n; i++ {
		// Module handles are 1-based indexes into the cached list.
		modules[i] = process.ModuleHandle(i + 1)
	}
	return n, nil
}

func (s *System) ModuleName(h process.Handle, m process.ModuleHandle) (string, error) {
	mod, err := s.module(h, m)
	if err != nil {
		return "", err
	}
	return mod.Name, nil
}

func (s *System) ModuleInfo(h process.Handle, m process.ModuleHandle) (process.ProcessMemoryAddress, process.ProcessMemorySize, error) {
	mod, err := s.module(h, m)
	if err != nil {
		return 0, 0, err
	}
	return mod.Base, mod.Size, nil
}

func (s *System) ReadMemory(h process.Handle, addr process.ProcessMemoryAddress, buf []byte) (uint, error) {
	pid, err := s.pid(h)
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, nil
	}

	var local unix.Iovec
	local.Base = &buf[0]
	local.SetLen(len(buf))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(buf)}}
	n, err := unix.ProcessVMReadv(pid, []unix.Iovec{local}, remote, 0)
	if n < 0 {
		n = 0
	}
	return uint(n), err
}

func (s *System) pid(h process.Handle) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pid, ok := s.pids[h]
	if !ok {
		return 0, unix.EBADF
	}
	return pid, nil
}

func (s *System) module(h process.Handle, m process.ModuleHandle) (process.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mods, ok := s.modules[h]
	if !ok {
		return process.Module{}, unix.EBADF
	}
	i := int(m) - 1
	if i < 0 || i >= len(mods) {
		return process.Module{}, unix.EINVAL
	}
	return mods[i], nil
}

// readModules parses /proc/<pid>/maps into module records, one per distinct
// mapped file, keeping first-mapped order except that the main executable
// image is moved to the front.
func readModules(pid int) ([]process.Module, error) {
	maps, err := os.ReadFile(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}

	exe, _ := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))

	type extent struct {
		base process.ProcessMemoryAddress
		end  process.ProcessMemoryAddress
	}
	extents := make(map[string]*extent)
	var order []string

	for _, line := range strings.Split(string(maps), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 6 || !strings.HasPrefix(fields[5], "/") {
			continue
		}
		path := fields[5]

		addrs := strings.SplitN(fields[0], "-", 2)
		if len(addrs) != 2 {
			continue
		}
		start, err := strconv.ParseUint(addrs[0], 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(addrs[1], 16, 64)
		if err != nil {
			continue
		}

		ext, ok := extents[path]
		if !ok {
			extents[path] = &extent{
				base: process.ProcessMemoryAddress(start),
				end:  process.ProcessMemoryAddress(end),
			}
			order = append(order, path)
			continue
		}
		if process.ProcessMemoryAddress(start) < ext.base {
			ext.base = process.ProcessMemoryAddress(start)
		}
		if process.ProcessMemoryAddress(end) > ext.end {
			ext.end = process.ProcessMemoryAddress(end)
		}
	}

	modules := make([]process.Module, 0, len(order))
	for _, path := range order {
		ext := extents[path]
		mod := process.Module{
			Name: filepath.Base(path),
			Base: ext.base,
			Size: process.ProcessMemorySize(ext.end - ext.base),
		}
		if path == exe && len(modules) > 0 {
			modules = append([]process.Module{mod}, modules...)
			continue
		}
		modules = append(modules, mod)
	}
	return modules, nil
}
