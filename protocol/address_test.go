package protocol

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

type bufStream struct {
	r *bufReader
	w *[]byte
}

type bufReader struct {
	data []byte
}

func (r *bufReader) Read(p []byte) (int, error) {
	n := copy(p, r.data)
	r.data = r.data[n:]
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (s *bufStream) Read(p []byte) (int, error)  { return s.r.Read(p) }
func (s *bufStream) Write(p []byte) (int, error) { *s.w = append(*s.w, p...); return len(p), nil }

func roundTrip(t *testing.T, dest Destination) Destination {
	t.Helper()
	var out []byte
	w := &bufStream{r: &bufReader{}, w: &out}
	require.NoError(t, WriteAddress(context.Background(), w, dest))

	r := &bufStream{r: &bufReader{data: out}, w: &out}
	got, err := ReadAddress(context.Background(), r)
	require.NoError(t, err)
	return got
}

func TestAddressRoundTrip_IPv4(t *testing.T) {
	dest := NewIPDestination(net.IPv4(127, 0, 0, 1), 80)
	got := roundTrip(t, dest)
	require.Equal(t, KindIPv4, got.Kind)
	require.Equal(t, "127.0.0.1", got.IP.String())
	require.EqualValues(t, 80, got.Port)
}

func TestAddressRoundTrip_IPv6(t *testing.T) {
	ip := net.ParseIP("2001:db8::1")
	dest := NewIPDestination(ip, 443)
	got := roundTrip(t, dest)
	require.Equal(t, KindIPv6, got.Kind)
	require.True(t, ip.Equal(got.IP))
	require.EqualValues(t, 443, got.Port)
}

func TestAddressRoundTrip_Domain(t *testing.T) {
	dest := NewDomainDestination("example.com", 443)
	got := roundTrip(t, dest)
	require.Equal(t, KindDomain, got.Kind)
	require.Equal(t, "example.com", got.Name)
	require.EqualValues(t, 443, got.Port)
}

func TestWriteAddress_RejectsOversizedDomain(t *testing.T) {
	name := make([]byte, 256)
	for i := range name {
		name[i] = 'a'
	}
	var out []byte
	w := &bufStream{r: &bufReader{}, w: &out}
	err := WriteAddress(context.Background(), w, NewDomainDestination(string(name), 80))
	require.ErrorIs(t, err, ErrInvalidTargetAddress)
}

func TestWriteAddress_RejectsEmptyDomain(t *testing.T) {
	var out []byte
	w := &bufStream{r: &bufReader{}, w: &out}
	err := WriteAddress(context.Background(), w, NewDomainDestination("", 80))
	require.ErrorIs(t, err, ErrInvalidTargetAddress)
}

func TestReadAddress_RejectsUnknownAtyp(t *testing.T) {
	r := &bufStream{r: &bufReader{data: []byte{0x7f}}, w: &[]byte{}}
	_, err := ReadAddress(context.Background(), r)
	require.ErrorIs(t, err, ErrInvalidAddressType)
}
