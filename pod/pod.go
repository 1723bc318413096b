// Package pod overlays plain-old-data records onto foreign process memory.
// A record type used here must be a fixed-size byte layout with no interior
// ownership: no pointers, slices, maps, strings, interfaces or funcs,
// recursively. Fields whose real layout has not been mapped yet are held as
// Unknown placeholders instead of guessed types.
package pod

import (
	"errors"
	"reflect"
	"unsafe"

	"github.com/tyhi/xivtools/process"
)

// ErrNotPlainData is returned when a record type contains pointer-like
// fields and therefore cannot be safely overwritten from raw remote bytes.
var ErrNotPlainData = errors.New("record type contains pointers; not POD-safe")

// SizeOf returns the in-memory size of T.
func SizeOf[T any]() process.ProcessMemorySize {
	var t T
	return process.ProcessMemorySize(unsafe.Sizeof(t))
}

// Decode copies the first SizeOf[T] bytes of data into a new T. The bytes
// come from an untrusted source, so T is checked for pointer-like fields
// before any copy happens.
func Decode[T any](data []byte) (T, error) {
	var zero T

	if hasPointers[T]() {
		return zero, ErrNotPlainData
	}

	size := int(unsafe.Sizeof(zero))
	if len(data) < size {
		return zero, &process.IncorrectSizeError{Expected: uint(size), Actual: uint(len(data))}
	}

	var tmp T
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&tmp)), size)
	copy(dst, data[:size])
	return tmp, nil
}

// Bytes returns the raw in-memory image of a POD value. Useful for building
// synthetic memory images; the inverse of Decode.
func Bytes[T any](v *T) []byte {
	size := int(unsafe.Sizeof(*v))
	if size == 0 {
		return []byte{}
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(v)), size)
	out := make([]byte, size)
	copy(out, src)
	return out
}

// hasPointers reports whether T (recursively) contains any pointer-like
// fields.
func hasPointers[T any]() bool {
	return typeHasPointers(reflect.TypeFor[T]())
}

func typeHasPointers(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.String, reflect.Chan:
		return true
	case reflect.Array:
		return typeHasPointers(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if typeHasPointers(rt.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// bool, ints, uints, floats, complex, etc.
		return false
	}
}
