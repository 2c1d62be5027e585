package streamio

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadFull_FillsBuffer(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go server.Write([]byte("hello!"))

	buf := make([]byte, 6)
	err := ReadFull(context.Background(), client, buf)
	require.NoError(t, err)
	require.Equal(t, "hello!", string(buf))
}

func TestReadFull_HonorsCancellation(t *testing.T) {
	client, _ := net.Pipe()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := make([]byte, 4)
	err := ReadFull(ctx, client, buf)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteAll_SendsEverything(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		buf := make([]byte, 5)
		server.Read(buf)
	}()

	err := WriteAll(context.Background(), client, []byte("hi!!!"))
	require.NoError(t, err)
}

func TestReadFull_EmptyBufferIsNoop(t *testing.T) {
	client, server := net.Pipe()
	client.Close()
	server.Close()

	err := ReadFull(context.Background(), client, nil)
	require.NoError(t, err)
}

func TestReadFull_TimesOut(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	buf := make([]byte, 4)
	err := ReadFull(ctx, client, buf)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
