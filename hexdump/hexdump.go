// Package hexdump formats byte ranges read out of a foreign process for
// display: offset column, grouped hex bytes and a printable-ASCII gutter.
package hexdump

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Options defines options for customizing the hexdump output
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// ShowASCII determines whether to show the ASCII representation
	ShowASCII bool

	// ShowOffset determines whether to show the offset/address column
	ShowOffset bool

	// StartOffset is the address shown for the first byte
	StartOffset uint64

	// OffsetWidth is the width of the offset column in hex digits
	OffsetWidth int

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{
		BytesPerLine: 16,
		ShowASCII:    true,
		ShowOffset:   true,
		OffsetWidth:  8,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// Basic creates a hex dump with default options starting at the given
// address.
func Basic(data []byte, start uint64) string {
	options := DefaultOptions()
	options.StartOffset = start
	return Dump(data, options)
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}
		line := data[offset:end]

		if options.ShowOffset {
			fmt.Fprintf(writer, "%0*x  ", options.OffsetWidth, options.StartOffset+uint64(offset))
		}

		var hexCol strings.Builder
		for i := 0; i < options.BytesPerLine; i++ {
			if i < len(line) {
				fmt.Fprintf(&hexCol, "%02x ", line[i])
			} else {
				hexCol.WriteString("   ")
			}
		}
		fmt.Fprint(writer, hexCol.String())

		if options.ShowASCII {
			fmt.Fprint(writer, " |")
			for _, b := range line {
				if b >= 0x20 && b < 0x7f {
					fmt.Fprintf(writer, "%c", b)
				} else {
					fmt.Fprint(writer, ".")
				}
			}
			fmt.Fprint(writer, "|")
		}

		fmt.Fprintln(writer)
		lineCount++
	}
}
