package pod

import (
	"fmt"
	"strings"
)

// Unknown placeholders are fixed-width opaque byte blocks used inside
// overlay records wherever the true field layout has not been reverse
// engineered yet. They keep the surrounding record's size and offsets
// stable without guessing at the unknown bytes' real types. The zero value
// is all zero bytes and equality is plain byte equality.

type (
	Unknown4  [4]byte
	Unknown8  [8]byte
	Unknown16 [16]byte
	Unknown32 [32]byte
	Unknown64 [64]byte
)

func (u Unknown4) String() string  { return hexBytes(u[:]) }
func (u Unknown8) String() string  { return hexBytes(u[:]) }
func (u Unknown16) String() string { return hexBytes(u[:]) }
func (u Unknown32) String() string { return hexBytes(u[:]) }
func (u Unknown64) String() string { return hexBytes(u[:]) }

func hexBytes(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}
