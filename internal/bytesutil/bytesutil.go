// Package bytesutil implements the fixed-width ASCII-decimal parsing and
// delimiter scanning shared by the MARC reader and record view.
package bytesutil

import "fmt"

// ParseDigits decodes an unsigned decimal encoded as ASCII digits. Every
// byte in slice must be in '0'..'9'; callers know the width up front
// (5 for record length and field offset, 4 for field length, 3 for tag) and use the
// specialized variants below where the width is fixed at the call site.
func ParseDigits(slice []byte) (int, error) {
	if len(slice) == 0 {
		return 0, fmt.Errorf("bytesutil: empty digit slice")
	}
	n := 0
	for _, b := range slice {
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("bytesutil: byte %q is not an ASCII digit", b)
		}
		n = n*10 + int(b-'0')
	}
	return n, nil
}

// ParseDigits5 decodes a 5-digit field (the leader's record length).
func ParseDigits5(slice []byte) (int, error) {
	if len(slice) != 5 {
		return 0, fmt.Errorf("bytesutil: expected 5 digits, got %d bytes", len(slice))
	}
	return ParseDigits(slice)
}

// ParseDigits4 decodes a 4-digit field (a directory entry's field length).
func ParseDigits4(slice []byte) (int, error) {
	if len(slice) != 4 {
		return 0, fmt.Errorf("bytesutil: expected 4 digits, got %d bytes", len(slice))
	}
	return ParseDigits(slice)
}

// ParseDigits3 decodes a 3-digit field (a directory entry's tag).
func ParseDigits3(slice []byte) (int, error) {
	if len(slice) != 3 {
		return 0, fmt.Errorf("bytesutil: expected 3 digits, got %d bytes", len(slice))
	}
	return ParseDigits(slice)
}

// IndexByte returns the index of the first occurrence of b in slice, or -1.
// It exists (rather than a bare bytes.IndexByte call at every site) so
// delimiter scans read the same way whether they're hunting 0x1E or 0x1F.
func IndexByte(slice []byte, b byte) int {
	for i, c := range slice {
		if c == b {
			return i
		}
	}
	return -1
}

// PutDigits5 renders n as a 5-digit, zero-padded ASCII decimal into dst.
// It is the inverse of ParseDigits5 and is used to recompute an owned
// record's length prefix. n must round-trip to exactly five digits.
func PutDigits5(dst []byte, n int) error {
	return putDigits(dst, n, 5)
}

// PutDigits4 renders n as a 4-digit, zero-padded ASCII decimal into dst.
func PutDigits4(dst []byte, n int) error {
	return putDigits(dst, n, 4)
}

// PutDigits3 renders n as a 3-digit, zero-padded ASCII decimal into dst.
func PutDigits3(dst []byte, n int) error {
	return putDigits(dst, n, 3)
}

func putDigits(dst []byte, n, width int) error {
	if len(dst) != width {
		return fmt.Errorf("bytesutil: destination must be %d bytes, got %d", width, len(dst))
	}
	if n < 0 {
		return fmt.Errorf("bytesutil: cannot encode negative value %d", n)
	}
	for i := width - 1; i >= 0; i-- {
		dst[i] = byte('0' + n%10)
		n /= 10
	}
	if n != 0 {
		return fmt.Errorf("bytesutil: value does not fit in %d ASCII digits", width)
	}
	return nil
}
