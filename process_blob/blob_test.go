package process_blob_test

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyhi/xivtools/process"
	"github.com/tyhi/xivtools/process_blob"
)

func TestOpenCloseAccounting(t *testing.T) {
	sys := process_blob.New()
	sys.Add(10, "a.exe", nil)
	sys.Add(11, "b.exe", nil)
	sys.Deny(11)

	h, err := sys.OpenProcess(10)
	require.NoError(t, err)
	require.Equal(t, 1, sys.Opens())
	require.Equal(t, 1, sys.OpenHandles())

	_, err = sys.OpenProcess(11)
	require.ErrorIs(t, err, syscall.EPERM)

	_, err = sys.OpenProcess(99)
	require.ErrorIs(t, err, syscall.ESRCH)

	require.NoError(t, sys.CloseProcess(h))
	require.Equal(t, 0, sys.OpenHandles())
	require.ErrorIs(t, sys.CloseProcess(h), syscall.EBADF)
}

func TestReadMemorySegments(t *testing.T) {
	sys := process_blob.New()
	sys.Add(10, "a.exe", nil,
		process_blob.Segment{Base: 0x1000, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		process_blob.Segment{Base: 0x9000, Data: []byte{9}},
	)

	h, err := sys.OpenProcess(10)
	require.NoError(t, err)
	defer sys.CloseProcess(h)

	buf := make([]byte, 4)
	n, err := sys.ReadMemory(h, 0x1002, buf)
	require.NoError(t, err)
	require.Equal(t, uint(4), n)
	require.Equal(t, []byte{3, 4, 5, 6}, buf)

	// Runs off the end of the segment: partial count, no error.
	n, err = sys.ReadMemory(h, 0x1006, buf)
	require.NoError(t, err)
	require.Equal(t, uint(2), n)

	_, err = sys.ReadMemory(h, 0x5000, buf)
	require.ErrorIs(t, err, syscall.EFAULT)
}

func TestSnapshotSaturation(t *testing.T) {
	sys := process_blob.New()
	for pid := process.ProcessID(1); pid <= 10; pid++ {
		sys.Add(pid, "p.exe", nil)
	}

	small := make([]process.ProcessID, 4)
	n, err := sys.ProcessIDs(small)
	require.NoError(t, err)
	require.Equal(t, 4, n) // saturated, caller must grow

	large := make([]process.ProcessID, 64)
	n, err = sys.ProcessIDs(large)
	require.NoError(t, err)
	require.Equal(t, 10, n)
}
