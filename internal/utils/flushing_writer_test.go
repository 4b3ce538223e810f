package utils_test

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/prpublish/internal/utils"
)

func TestFlushingWriterFlushesBufferedDestination(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriter(destination)

	writer := utils.NewFlushingWriter(bufferedWriter)
	bytesWritten, writeError := writer.Write([]byte("Branch feature exists\n"))

	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len("Branch feature exists\n"), bytesWritten)
	require.Equal(testInstance, "Branch feature exists\n", destination.String())
}

func TestNewFlushingWriterHandlesNilAndWrappedWriters(testInstance *testing.T) {
	require.Equal(testInstance, io.Discard, utils.NewFlushingWriter(nil))

	wrapped := utils.NewFlushingWriter(&bytes.Buffer{})
	require.Same(testInstance, wrapped, utils.NewFlushingWriter(wrapped))
}
