package utils

import (
	"io"
	"sync"
)

// FlushingWriter forwards writes and flushes buffered destinations so report
// lines appear before the next external command starts.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writer unless it is nil or already wrapped.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return io.Discard
	}
	if _, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return writer
	}
	return &FlushingWriter{writer: writer}
}

// Write delegates to the underlying writer and flushes or syncs it when supported.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	switch destination := flushingWriter.writer.(type) {
	case interface{ Flush() error }:
		return bytesWritten, destination.Flush()
	default:
		return bytesWritten, nil
	}
}
