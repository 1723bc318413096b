package process_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyhi/xivtools/process"
)

func TestMemoryTypeStrings(t *testing.T) {
	require.Equal(t, "0xDEADBEEF", process.ProcessMemoryAddress(0xdeadbeef).String())
	require.Equal(t, "64 bytes", process.ProcessMemorySize(64).String())

	// Both satisfy fmt.Stringer, so plain formatting renders the same.
	require.Equal(t, "0x140000000", fmt.Sprint(gameBase))
	require.Equal(t, "16 bytes", fmt.Sprint(process.ProcessMemorySize(16)))
}
