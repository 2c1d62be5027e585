package socks5

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/parsadev/socksneg/internal/testutil"
	"github.com/parsadev/socksneg/protocol"
	"github.com/stretchr/testify/require"
)

func TestConnect_S1NoAuth(t *testing.T) {
	s := testutil.LoadScenario(t, "s1_socks5_connect_noauth")
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	done := testutil.Play(t, server, s)

	bound, err := Connect(context.Background(), client, protocol.NewIPDestination(net.IPv4(127, 0, 0, 1), 80), nil)
	require.NoError(t, err)
	require.Equal(t, protocol.KindIPv4, bound.Kind)
	require.Equal(t, "127.0.0.1", bound.IP.String())
	require.EqualValues(t, 80, bound.Port)
	<-done
}

func TestConnect_S2UserPassDomain(t *testing.T) {
	s := testutil.LoadScenario(t, "s2_socks5_connect_userpass_domain")
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	done := testutil.Play(t, server, s)

	creds := &protocol.Credentials{Username: []byte("user"), Password: []byte("pass")}
	bound, err := Connect(context.Background(), client, protocol.NewDomainDestination("example.com", 443), creds)
	require.NoError(t, err)
	require.Equal(t, protocol.KindIPv4, bound.Kind)
	require.Equal(t, "192.0.2.1", bound.IP.String())
	require.EqualValues(t, 0, bound.Port)
	<-done
}

func TestConnect_S3AuthFailure(t *testing.T) {
	s := testutil.LoadScenario(t, "s3_socks5_auth_failure")
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	done := testutil.Play(t, server, s)

	creds := &protocol.Credentials{Username: []byte("user"), Password: []byte("pass")}
	_, err := Connect(context.Background(), client, protocol.NewDomainDestination("example.com", 443), creds)
	var authErr *PasswordAuthFailure
	require.ErrorAs(t, err, &authErr)
	require.EqualValues(t, 1, authErr.Status)
	<-done
}

func TestConnect_S4HostUnreachable(t *testing.T) {
	s := testutil.LoadScenario(t, "s4_socks5_host_unreachable")
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	done := testutil.Play(t, server, s)

	_, err := Connect(context.Background(), client, protocol.NewIPDestination(net.IPv4(127, 0, 0, 1), 80), nil)
	require.ErrorIs(t, err, ReplyHostUnreachable)
	<-done
}

func TestBind_S6(t *testing.T) {
	s := testutil.LoadScenario(t, "s6_socks5_bind")
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	done := testutil.Play(t, server, s)

	dest := protocol.NewIPDestination(net.IPv4(127, 0, 0, 1), 80)
	bound, session, err := Bind(context.Background(), client, dest, nil)
	require.NoError(t, err)
	require.Equal(t, "192.0.2.2", bound.IP.String())
	require.EqualValues(t, 10000, bound.Port)

	peer, err := session.Accept(context.Background())
	require.NoError(t, err)
	require.Equal(t, "192.0.2.3", peer.IP.String())
	require.EqualValues(t, 48879, peer.Port)

	_, err = session.Accept(context.Background())
	require.ErrorIs(t, err, ErrInvalidState)
	<-done
}

func TestConnect_RejectsOversizedDomain(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	name := make([]byte, 256)
	for i := range name {
		name[i] = 'a'
	}
	_, err := Connect(context.Background(), client, protocol.NewDomainDestination(string(name), 80), nil)
	require.ErrorIs(t, err, protocol.ErrInvalidTargetAddress)
}

func TestConnect_RejectsShortCredentials(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	creds := &protocol.Credentials{Username: nil, Password: []byte("pass")}
	_, err := Connect(context.Background(), client, protocol.NewIPDestination(net.IPv4(127, 0, 0, 1), 80), creds)
	require.ErrorIs(t, err, protocol.ErrInvalidAuthValues)
}

func TestConnect_ContextCancellation(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Connect(ctx, client, protocol.NewIPDestination(net.IPv4(127, 0, 0, 1), 80), nil)
	require.True(t, errors.Is(err, context.Canceled))
}
