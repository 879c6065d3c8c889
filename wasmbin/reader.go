// Package wasmbin decodes and encodes the slice of the Wasm Component
// binary format the composition engine actually needs: whether a blob is a
// Component at all, its top-level import/export name lists, and the raw
// bytes of any embedded core modules (for structural validation). It does
// not resolve type index spaces or marshal values — that belongs to
// executing a component, which this engine never does.
package wasmbin

import (
	"bytes"
	"io"
	"sync"
)

var readerPool = sync.Pool{
	New: func() interface{} { return &bytes.Reader{} },
}

func getReader(data []byte) *bytes.Reader {
	r := readerPool.Get().(*bytes.Reader)
	r.Reset(data)
	return r
}

func putReader(r *bytes.Reader) {
	readerPool.Put(r)
}

func readByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var b [1]byte
	_, err := r.Read(b[:])
	return b[0], err
}

// readLEB128 reads an unsigned LEB128-encoded uint32.
func readLEB128(r io.Reader) (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := readByte(r)
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, io.ErrUnexpectedEOF
		}
	}
}

func readName(r io.Reader) (string, error) {
	n, err := readLEB128(r)
	if err != nil {
		return "", err
	}
	if n > 100000 {
		return "", io.ErrUnexpectedEOF
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
