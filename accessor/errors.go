package accessor

import "fmt"

type shortBufferError struct {
	want, got int
}

func (e *shortBufferError) Error() string {
	return fmt.Sprintf("accessor: need %d bytes, got %d", e.want, e.got)
}

func errShortBuffer(want, got int) error { return &shortBufferError{want, got} }
