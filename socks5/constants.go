// Package socks5 drives the SOCKS5 handshake: method negotiation,
// optional RFC 1929 username/password sub-negotiation, the
// CONNECT/BIND request, and reply decoding.
package socks5

import "github.com/parsadev/socksneg/protocol"

// methodsFor returns the method list proposed in the initial greeting.
// NoAuth is always offered, even when credentials are supplied, so the
// proxy may short-circuit authentication. UserPassword is added only
// when credentials are present.
func methodsFor(creds *protocol.Credentials) []byte {
	if creds == nil {
		return []byte{protocol.MethodNoAuth}
	}
	return []byte{protocol.MethodNoAuth, protocol.MethodUserPassword}
}
