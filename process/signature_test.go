package process_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyhi/xivtools/process"
	"github.com/tyhi/xivtools/process_blob"
)

// sigReader wires signature resolution to a small synthetic memory image.
func sigReader(t *testing.T, base process.ProcessMemoryAddress, data []byte) process.MemoryReader {
	t.Helper()

	sys := process_blob.New()
	sys.Add(100, gameName, []process.Module{
		{Name: gameName, Base: base, Size: process.ProcessMemorySize(len(data))},
	}, process_blob.Segment{Base: base, Data: data})

	proc, err := process.Locate(sys, gameName)
	require.NoError(t, err)
	t.Cleanup(func() { proc.Close() })
	return proc
}

func TestAbsoluteResolve(t *testing.T) {
	addr, err := process.Absolute{Offset: 0x10}.Resolve(nil, 0x1000)
	require.NoError(t, err)
	require.Equal(t, process.ProcessMemoryAddress(0x1010), addr)

	addr, err = process.Absolute{Offset: -0x8}.Resolve(nil, 0x1000)
	require.NoError(t, err)
	require.Equal(t, process.ProcessMemoryAddress(0xff8), addr)
}

func TestRelative32Resolve(t *testing.T) {
	// Bytes at 0x1004..0x1008 encode the little-endian value 0x2000.
	image := make([]byte, 16)
	copy(image[4:], []byte{0x00, 0x20, 0x00, 0x00})
	mem := sigReader(t, 0x1000, image)

	addr, err := process.Relative32{Offset: 0x4}.Resolve(mem, 0x1000)
	require.NoError(t, err)
	require.Equal(t, process.ProcessMemoryAddress(0x2000), addr)
}

func TestRelative32ResolveShortRead(t *testing.T) {
	// Only two of the four operand bytes are mapped.
	mem := sigReader(t, 0x1000, make([]byte, 6))

	_, err := process.Relative32{Offset: 0x4}.Resolve(mem, 0x1000)
	var sizeErr *process.IncorrectSizeError
	require.ErrorAs(t, err, &sizeErr)
	require.Equal(t, uint(4), sizeErr.Expected)
	require.Equal(t, uint(2), sizeErr.Actual)
}

func TestSignatureResolveDefaultsToAbsolute(t *testing.T) {
	sig := process.Signature{Bytes: []string{"48", "8b"}}
	addr, err := sig.Resolve(nil, 0x4000)
	require.NoError(t, err)
	require.Equal(t, process.ProcessMemoryAddress(0x4000), addr)
}

func TestSignatureAOB(t *testing.T) {
	tests := []struct {
		name    string
		bytes   []string
		pattern []byte
		mask    []byte
		wantErr bool
	}{
		{
			name:    "literals and wildcards",
			bytes:   []string{"48", "8b", "??", "05", "?"},
			pattern: []byte{0x48, 0x8b, 0x00, 0x05, 0x00},
			mask:    []byte{0xFF, 0xFF, 0x00, 0xFF, 0x00},
		},
		{
			name:    "empty",
			bytes:   nil,
			pattern: []byte{},
			mask:    []byte{},
		},
		{
			name:    "invalid token",
			bytes:   []string{"48", "zz"},
			wantErr: true,
		},
		{
			name:    "token too wide",
			bytes:   []string{"123"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aob, err := process.Signature{Bytes: tt.bytes}.AOB()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, aob.IsValid())
			require.Equal(t, tt.pattern, aob.Pattern)
			require.Equal(t, tt.mask, aob.Mask)
		})
	}
}
