package streamio

import (
	"compress/zlib"
	"io"
	"sync"
)

var (
	zlibReader = sync.Pool{
		New: func() any {
			return new(ZlibReader)
		},
	}
	zlibWriter = sync.Pool{
		New: func() any {
			return &ZlibWriter{
				Writer: zlib.NewWriter(nil),
			}
		},
	}
)

// ZlibReader holds a pooled zlib decompressor. Reader is the
// decompressed stream.
type ZlibReader struct {
	Reader io.ReadCloser
}

// GetZlibReader returns a ZlibReader that is managed by a sync.Pool,
// reset to decompress from r.
//
// After use, the ZlibReader should be put back into the sync.Pool
// by calling PutZlibReader.
func GetZlibReader(r io.Reader) (*ZlibReader, error) {
	z := zlibReader.Get().(*ZlibReader)
	if z.Reader == nil {
		rc, err := zlib.NewReader(r)
		if err != nil {
			zlibReader.Put(z)
			return nil, err
		}
		z.Reader = rc
		return z, nil
	}
	if err := z.Reader.(zlib.Resetter).Reset(r, nil); err != nil {
		zlibReader.Put(z)
		return nil, err
	}
	return z, nil
}

// PutZlibReader puts z back into its sync.Pool.
func PutZlibReader(z *ZlibReader) {
	if z == nil {
		return
	}
	zlibReader.Put(z)
}

type ZlibWriter struct {
	*zlib.Writer
}

// GetZlibWriter returns a *zlib.Writer that is managed by a sync.Pool,
// reset with w and ready for use.
//
// After use, the writer should be put back into the sync.Pool
// by calling PutZlibWriter.
func GetZlibWriter(w io.Writer) *ZlibWriter {
	z := zlibWriter.Get().(*ZlibWriter)
	z.Reset(w)
	return z
}

// PutZlibWriter puts w back into its sync.Pool, flushing any buffered
// output first.
func PutZlibWriter(w *ZlibWriter) {
	_ = w.Close()
	zlibWriter.Put(w)
}
