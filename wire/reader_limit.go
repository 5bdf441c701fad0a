package wire

import (
	"fmt"
	"io"
)

type LimitedReader struct {
	*io.LimitedReader
}

// LimitReader returns a reader that reads at most n bytes from r.
func LimitReader(r io.Reader, n int64) *LimitedReader {
	return &LimitedReader{&io.LimitedReader{R: r, N: n}}
}

// Close closes the underlying reader if it implements io.Closer.
func (r *LimitedReader) Close() error {
	if c, ok := r.R.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Remaining returns the number of bytes the limit still allows.
func (r *LimitedReader) Remaining() int64 {
	return r.N
}

// ReadExactly reads exactly n bytes from r. It grows its buffer as data
// arrives instead of trusting n up front, so a corrupt length cannot force
// a huge allocation. A short stream yields ErrTruncatedData.
func ReadExactly(r io.Reader, n int64) ([]byte, error) {
	if n < 0 {
		return nil, ErrDiscardNegative
	}
	if n == 0 {
		return []byte{}, nil
	}
	initial := n
	if initial > BUFFER_SIZE*16 {
		initial = BUFFER_SIZE * 16
	}
	buf := make([]byte, 0, initial)
	lr := LimitReader(r, n)
	for {
		if len(buf) == cap(buf) {
			buf = append(buf, 0)[:len(buf)]
		}
		read, err := lr.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+read]
		if lr.Remaining() == 0 {
			return buf, nil
		}
		if err == io.EOF {
			return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrTruncatedData, n, len(buf))
		}
		if err != nil {
			return nil, err
		}
	}
}
