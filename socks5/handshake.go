package socks5

import (
	"context"
	"errors"
	"fmt"

	"github.com/parsadev/socksneg/internal/tracelog"
	"github.com/parsadev/socksneg/protocol"
	"github.com/parsadev/socksneg/streamio"
)

// Handshake drives a single SOCKS5 dialogue over a caller-supplied
// stream: method negotiation, optional RFC 1929 username/password
// sub-negotiation, the CONNECT/BIND request, and reply decoding. The
// zero value is ready to use; an optional logger can be attached with
// NewWithLogger for phase-transition tracing.
type Handshake struct {
	logger *tracelog.Logger
}

// New returns a Handshake with no logging.
func New() *Handshake {
	return &Handshake{}
}

// NewWithLogger returns a Handshake that traces phase transitions at
// DEBUG level through l. A nil l is equivalent to New().
func NewWithLogger(l *tracelog.Logger) *Handshake {
	return &Handshake{logger: l}
}

func (h *Handshake) debugf(format string, args ...any) {
	if h.logger == nil {
		return
	}
	h.logger.Debug(fmt.Sprintf(format, args...))
}

// Connect drives a SOCKS5 CONNECT handshake to completion and returns
// the bound address the proxy reports. On success the stream is
// handed back to the caller untouched, ready to carry the tunneled
// payload; on error the stream must be considered unusable.
func (h *Handshake) Connect(ctx context.Context, s streamio.Stream, dest protocol.Destination, creds *protocol.Credentials) (protocol.Destination, error) {
	bound, _, err := h.negotiate(ctx, s, protocol.CmdConnect, dest, creds)
	return bound, err
}

// Bind drives a SOCKS5 BIND request's first reply and, on success,
// returns a BindSession awaiting the second reply that arrives once a
// peer connects to the proxy's bound address. The caller must not
// write application bytes on the stream until BindSession.Accept
// returns.
func (h *Handshake) Bind(ctx context.Context, s streamio.Stream, dest protocol.Destination, creds *protocol.Credentials) (protocol.Destination, *BindSession, error) {
	bound, _, err := h.negotiate(ctx, s, protocol.CmdBind, dest, creds)
	if err != nil {
		return protocol.Destination{}, nil, err
	}
	return bound, newBindSession(s, h), nil
}

// Connect is the package-level convenience form of (*Handshake).Connect
// using an unlogged Handshake.
func Connect(ctx context.Context, s streamio.Stream, dest protocol.Destination, creds *protocol.Credentials) (protocol.Destination, error) {
	return New().Connect(ctx, s, dest, creds)
}

// Bind is the package-level convenience form of (*Handshake).Bind.
func Bind(ctx context.Context, s streamio.Stream, dest protocol.Destination, creds *protocol.Credentials) (protocol.Destination, *BindSession, error) {
	return New().Bind(ctx, s, dest, creds)
}

// negotiate runs a full SOCKS5 request/reply cycle: method proposal,
// method selection, optional sub-negotiation, request, reply. It
// returns the bound address from the reply; the BIND second-reply
// handoff is the caller's responsibility via BindSession.
func (h *Handshake) negotiate(ctx context.Context, s streamio.Stream, cmd protocol.Command, dest protocol.Destination, creds *protocol.Credentials) (protocol.Destination, protocol.Command, error) {
	if err := dest.Validate(); err != nil {
		return protocol.Destination{}, 0, err
	}
	if err := creds.Validate(); err != nil {
		return protocol.Destination{}, 0, err
	}

	h.debugf("socks5: proposing methods for %s", dest)
	method, err := h.proposeMethods(ctx, s, creds)
	if err != nil {
		return protocol.Destination{}, 0, err
	}

	if method == protocol.MethodUserPassword {
		h.debugf("socks5: sub-negotiating credentials")
		if err := writeAuthRequest(ctx, s, creds); err != nil {
			return protocol.Destination{}, 0, err
		}
		if err := readAuthReply(ctx, s); err != nil {
			return protocol.Destination{}, 0, err
		}
	}

	h.debugf("socks5: sending request cmd=0x%02x dest=%s", cmd, dest)
	if err := writeRequest(ctx, s, cmd, dest); err != nil {
		return protocol.Destination{}, 0, err
	}

	bound, rep, err := readReply(ctx, s)
	if err != nil {
		return protocol.Destination{}, 0, err
	}
	if rep != byte(ReplySucceeded) {
		return protocol.Destination{}, 0, ReplyCode(rep)
	}
	h.debugf("socks5: request succeeded, bound=%s", bound)
	return bound, cmd, nil
}

// proposeMethods writes the initial greeting and reads back the
// selected method.
func (h *Handshake) proposeMethods(ctx context.Context, s streamio.Stream, creds *protocol.Credentials) (byte, error) {
	methods := methodsFor(creds)
	greeting := make([]byte, 0, 2+len(methods))
	greeting = append(greeting, protocol.Socks5Version, byte(len(methods)))
	greeting = append(greeting, methods...)
	if err := streamio.WriteAll(ctx, s, greeting); err != nil {
		return 0, errors.Join(protocol.ErrIO, err)
	}

	var reply [2]byte
	if err := streamio.ReadFull(ctx, s, reply[:]); err != nil {
		return 0, errors.Join(protocol.ErrIO, err)
	}
	if reply[0] != protocol.Socks5Version {
		return 0, errors.Join(protocol.ErrInvalidResponseVersion, fmt.Errorf("method-selection version 0x%02x", reply[0]))
	}

	switch method := reply[1]; method {
	case protocol.MethodNoAuth:
		return method, nil
	case protocol.MethodUserPassword:
		if creds == nil {
			return 0, ErrNoAcceptableAuthMethods
		}
		return method, nil
	case protocol.MethodNoAcceptable:
		return 0, ErrNoAcceptableAuthMethods
	default:
		return 0, errors.Join(ErrUnknownAuthMethod, fmt.Errorf("method byte 0x%02x", method))
	}
}

// writeRequest sends the CMD request: VER | CMD | RSV | ADDR.
func writeRequest(ctx context.Context, s streamio.Stream, cmd protocol.Command, dest protocol.Destination) error {
	buf := []byte{protocol.Socks5Version, byte(cmd), 0x00}
	buf, err := protocol.AppendAddress(buf, dest)
	if err != nil {
		return err
	}
	if err := streamio.WriteAll(ctx, s, buf); err != nil {
		return errors.Join(protocol.ErrIO, err)
	}
	return nil
}

// readReply decodes a SOCKS5 reply frame: VER | REP | RSV | ATYP |
// ADDR | PORT. The bound address is drained even when REP != 0x00, so
// the stream's read cursor always lands on a protocol-coherent
// boundary.
func readReply(ctx context.Context, s streamio.Stream) (protocol.Destination, byte, error) {
	var header [4]byte
	if err := streamio.ReadFull(ctx, s, header[:]); err != nil {
		return protocol.Destination{}, 0, errors.Join(protocol.ErrIO, err)
	}
	if header[0] != protocol.Socks5Version {
		return protocol.Destination{}, 0, errors.Join(protocol.ErrInvalidResponseVersion, fmt.Errorf("reply version 0x%02x", header[0]))
	}
	if header[2] != 0x00 {
		return protocol.Destination{}, 0, errors.Join(protocol.ErrInvalidReservedByte, fmt.Errorf("reply reserved byte 0x%02x", header[2]))
	}

	// readReply has already consumed the ATYP byte as header[3]; feed it
	// back through a tiny prependByte so protocol.ReadAddress can
	// decode the remainder without re-reading it from the stream.
	bound, err := protocol.ReadAddress(ctx, &prependByte{b: header[3], next: s})
	if err != nil {
		return protocol.Destination{}, 0, err
	}
	return bound, header[1], nil
}

// prependByte adapts a streamio.Stream so a single already-read byte is
// replayed as the first byte of the next Read call, letting readReply
// reuse protocol.ReadAddress's ATYP-dispatch logic after it has already
// consumed the ATYP byte as part of the fixed 4-byte reply header.
type prependByte struct {
	b    byte
	used bool
	next streamio.Stream
}

func (p *prependByte) Read(buf []byte) (int, error) {
	if !p.used && len(buf) > 0 {
		p.used = true
		buf[0] = p.b
		if len(buf) == 1 {
			return 1, nil
		}
		n, err := p.next.Read(buf[1:])
		return n + 1, err
	}
	return p.next.Read(buf)
}

func (p *prependByte) Write(buf []byte) (int, error) {
	return p.next.Write(buf)
}
