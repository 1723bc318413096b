package process

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// MemoryReader is the read surface signature resolution needs. *Process
// satisfies it.
type MemoryReader interface {
	Read(addr ProcessMemoryAddress, buf []byte) (uint, error)
}

// SignatureType describes how a located byte-pattern match is turned into a
// usable address. It is the contract between a pattern scanner, which
// produces the match location, and an overlay constructor, which consumes
// the derived address. The scanning algorithm itself lives outside this
// package.
type SignatureType interface {
	Resolve(mem MemoryReader, match ProcessMemoryAddress) (ProcessMemoryAddress, error)
}

// Absolute derives the address as the match location plus Offset.
type Absolute struct {
	Offset int64
}

func (a Absolute) Resolve(_ MemoryReader, match ProcessMemoryAddress) (ProcessMemoryAddress, error) {
	return ProcessMemoryAddress(int64(match) + a.Offset), nil
}

// Relative32 derives the address by reading a 32-bit little-endian value
// stored at match+Offset and using that value as the address. This is the
// form call and jump instruction operands take.
type Relative32 struct {
	Offset int64
}

func (r Relative32) Resolve(mem MemoryReader, match ProcessMemoryAddress) (ProcessMemoryAddress, error) {
	var buf [4]byte
	at := ProcessMemoryAddress(int64(match) + r.Offset)
	n, err := mem.Read(at, buf[:])
	if err != nil {
		return 0, err
	}
	if n != uint(len(buf)) {
		return 0, &IncorrectSizeError{Expected: uint(len(buf)), Actual: n}
	}
	return ProcessMemoryAddress(binary.LittleEndian.Uint32(buf[:])), nil
}

// Signature is an ordered sequence of byte-pattern tokens plus the rule for
// deriving a usable address from a match. Each token is either two hex
// digits or "??" for a wildcard byte, e.g.
//
//	Signature{Bytes: []string{"48", "8b", "??", "??", "e8"}}
//
// A zero Type resolves as Absolute{0}.
type Signature struct {
	Bytes []string
	Type  SignatureType
}

// Resolve applies the signature's addressing rule to a match location.
func (s Signature) Resolve(mem MemoryReader, match ProcessMemoryAddress) (ProcessMemoryAddress, error) {
	if s.Type == nil {
		return Absolute{}.Resolve(mem, match)
	}
	return s.Type.Resolve(mem, match)
}

// AOB lowers the signature tokens into a pattern/mask pair a scanner can
// match against raw memory.
func (s Signature) AOB() (AOB, error) {
	pattern := make([]byte, len(s.Bytes))
	mask := make([]byte, len(s.Bytes))

	for i, token := range s.Bytes {
		if token == "??" || token == "?" {
			continue
		}
		val, err := strconv.ParseUint(strings.TrimSpace(token), 16, 8)
		if err != nil {
			return AOB{}, fmt.Errorf("invalid signature byte %q at index %d", token, i)
		}
		pattern[i] = byte(val)
		mask[i] = 0xFF
	}

	return NewAOB(pattern, mask)
}
