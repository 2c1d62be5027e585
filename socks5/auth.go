package socks5

import (
	"context"
	"errors"

	"github.com/parsadev/socksneg/protocol"
	"github.com/parsadev/socksneg/streamio"
)

// writeAuthRequest sends the RFC 1929 username/password sub-negotiation
// request: 0x01 | ULEN | UNAME | PLEN | PASSWD. It rejects an empty or
// oversized field before writing a single byte.
func writeAuthRequest(ctx context.Context, s streamio.Stream, creds *protocol.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	buf := make([]byte, 0, 2+len(creds.Username)+len(creds.Password))
	buf = append(buf, protocol.UserPassAuthVersion, byte(len(creds.Username)))
	buf = append(buf, creds.Username...)
	buf = append(buf, byte(len(creds.Password)))
	buf = append(buf, creds.Password...)
	if err := streamio.WriteAll(ctx, s, buf); err != nil {
		return errors.Join(protocol.ErrIO, err)
	}
	return nil
}

// readAuthReply reads the 2-byte sub-negotiation reply (0x01 | STATUS)
// and maps a non-zero status to *PasswordAuthFailure.
func readAuthReply(ctx context.Context, s streamio.Stream) error {
	var buf [2]byte
	if err := streamio.ReadFull(ctx, s, buf[:]); err != nil {
		return errors.Join(protocol.ErrIO, err)
	}
	if buf[0] != protocol.UserPassAuthVersion {
		return errors.Join(protocol.ErrInvalidResponseVersion, errors.New("auth sub-negotiation version mismatch"))
	}
	if buf[1] != protocol.UserPassAuthSuccess {
		return &PasswordAuthFailure{Status: buf[1]}
	}
	return nil
}
