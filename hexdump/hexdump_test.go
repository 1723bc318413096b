package hexdump_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyhi/xivtools/hexdump"
)

func TestBasic(t *testing.T) {
	data := append([]byte("FFXIV"), 0x00, 0x01, 0xff)
	out := hexdump.Basic(data, 0x140000000)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1)
	require.Equal(t, "140000000  46 46 58 49 56 00 01 ff                          |FFXIV...|", lines[0])
}

func TestDumpMaxLines(t *testing.T) {
	options := hexdump.DefaultOptions()
	options.MaxLines = 2

	out := hexdump.Dump(make([]byte, 64), options)
	require.Contains(t, out, "... 32 more bytes")
	require.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 3)
}
