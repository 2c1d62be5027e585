package socks5

import (
	"errors"
	"fmt"
)

// Socks5 errors. Sentinels for conditions that aren't a mapped
// ReplyCode.
var (
	// ErrNoAcceptableAuthMethods marks the proxy choosing 0xFF, or
	// choosing UserPassword when the caller supplied no credentials.
	ErrNoAcceptableAuthMethods = errors.New("socks5: no acceptable authentication method")

	// ErrUnknownAuthMethod marks a selected method byte this driver
	// does not implement (anything outside {0x00, 0x02, 0xFF}).
	ErrUnknownAuthMethod = errors.New("socks5: server selected an unsupported authentication method")

	// ErrInvalidState marks a second BindSession.Accept call.
	ErrInvalidState = errors.New("socks5: bind session already consumed")
)

// PasswordAuthFailure reports a non-zero STATUS byte from the RFC 1929
// sub-negotiation reply.
type PasswordAuthFailure struct {
	Status byte
}

func (e *PasswordAuthFailure) Error() string {
	return fmt.Sprintf("socks5: password authentication failed, status 0x%02x", e.Status)
}
