//go:build windows

// Package process_windows implements process.System on the Win32 psapi and
// kernel32 surfaces through golang.org/x/sys/windows.
package process_windows

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/tyhi/xivtools/process"
)

// System is the live Windows backend. It is stateless; every method is one
// blocking syscall against the handle it is given.
type System struct{}

func New() System {
	return System{}
}

// Locate finds a running executable by name against the live system.
func Locate(target string) (*process.Process, error) {
	return process.Locate(New(), target)
}

func (System) ProcessIDs(pids []process.ProcessID) (int, error) {
	if len(pids) == 0 {
		return 0, nil
	}

	buf := make([]uint32, len(pids))
	var returned uint32
	if err := windows.EnumProcesses(buf, &returned); err != nil {
		return 0, err
	}

	// EnumProcesses reports bytes stored, not bytes needed; a full buffer is
	// the only truncation signal it gives.
	n := int(returned) / 4
	if n > len(pids) {
		n = len(pids)
	}
	for i := 0; i < n; i++ {
		pids[i] = process.ProcessID(buf[i])
	}
	return n, nil
}

func (System) OpenProcess(pid process.ProcessID) (process.Handle, error) {
	h, err := windows.OpenProcess(windows.PROCESS_VM_READ|windows.PROCESS_QUERY_INFORMATION, false, uint32(pid))
	if err != nil {
		return 0, err
	}
	return process.Handle(h), nil
}

func (System) CloseProcess(h process.Handle) error {
	return windows.CloseHandle(windows.Handle(h))
}

func (System) BaseName(h process.Handle) (string, error) {
	var name [windows.MAX_PATH]uint16
	err := windows.GetModuleBaseName(windows.Handle(h), 0, &name[0], windows.MAX_PATH)
	if err != nil {
		return "", err
	}
	return windows.UTF16ToString(name[:]), nil
}

func (System) ModuleHandles(h process.Handle, modules []process.ModuleHandle) (int, error) {
	if len(modules) == 0 {
		return 0, nil
	}

	handleSize := uint32(unsafe.Sizeof(windows.Handle(0)))
	buf := make([]windows.Handle, len(modules))
	var needed uint32
	err := windows.EnumProcessModulesEx(windows.Handle(h), &buf[0], uint32(len(buf))*handleSize, &needed, windows.LIST_MODULES_ALL)
	if err != nil {
		return 0, err
	}

	n := int(needed / handleSize)
	if n > len(modules) {
		n = len(modules)
	}
	for i := 0; i < n; i++ {
		modules[i] = process.ModuleHandle(buf[i])
	}
	return n, nil
}

func (System) ModuleName(h process.Handle, m process.ModuleHandle) (string, error) {
	var name [windows.MAX_PATH]uint16
	err := windows.GetModuleBaseName(windows.Handle(h), windows.Handle(m), &name[0], windows.MAX_PATH)
	if err != nil {
		return "", err
	}
	return windows.UTF16ToString(name[:]), nil
}

func (System) ModuleInfo(h process.Handle, m process.ModuleHandle) (process.ProcessMemoryAddress, process.ProcessMemorySize, error) {
	var info windows.ModuleInfo
	err := windows.GetModuleInformation(windows.Handle(h), windows.Handle(m), &info, uint32(unsafe.Sizeof(info)))
	if err != nil {
		return 0, 0, err
	}
	return process.ProcessMemoryAddress(info.BaseOfDll), process.ProcessMemorySize(info.SizeOfImage), nil
}

func (System) ReadMemory(h process.Handle, addr process.ProcessMemoryAddress, buf []byte) (uint, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	var read uintptr
	err := windows.ReadProcessMemory(windows.Handle(h), uintptr(addr), &buf[0], uintptr(len(buf)), &read)
	return uint(read), err
}
