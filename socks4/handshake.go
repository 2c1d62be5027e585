package socks4

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/parsadev/socksneg/internal/tracelog"
	"github.com/parsadev/socksneg/protocol"
	"github.com/parsadev/socksneg/streamio"
)

// Handshake drives a single SOCKS4/4a dialogue. Mirrors socks5.Handshake's
// shape (zero value usable, optional logger) so both drivers present
// the same calling convention to a caller choosing between protocol
// versions at runtime.
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

// Connect drives a SOCKS4/4a CONNECT request to completion and returns
// the bound address from the reply.
func (h *Handshake) Connect(ctx context.Context, s streamio.Stream, dest protocol.Destination, userID protocol.UserID) (protocol.Destination, error) {
	bound, _, err := h.negotiate(ctx, s, protocol.CmdConnect, dest, userID)
	return bound, err
}

// Bind sends a SOCKS4/4a BIND request and, on a granted first reply,
// returns a BindSession4 awaiting the second reply that arrives once a
// peer connects to the proxy's bound port.
func (h *Handshake) Bind(ctx context.Context, s streamio.Stream, dest protocol.Destination, userID protocol.UserID) (protocol.Destination, *BindSession4, error) {
	bound, _, err := h.negotiate(ctx, s, protocol.CmdBind, dest, userID)
	if err != nil {
		return protocol.Destination{}, nil, err
	}
	return bound, newBindSession4(s, h), nil
}

// Connect is the package-level convenience form of (*Handshake).Connect.
func Connect(ctx context.Context, s streamio.Stream, dest protocol.Destination, userID protocol.UserID) (protocol.Destination, error) {
	return New().Connect(ctx, s, dest, userID)
}

// Bind is the package-level convenience form of (*Handshake).Bind.
func Bind(ctx context.Context, s streamio.Stream, dest protocol.Destination, userID protocol.UserID) (protocol.Destination, *BindSession4, error) {
	return New().Bind(ctx, s, dest, userID)
}

// negotiate writes the single-round SOCKS4/4a request and reads the
// reply.
func (h *Handshake) negotiate(ctx context.Context, s streamio.Stream, cmd protocol.Command, dest protocol.Destination, userID protocol.UserID) (protocol.Destination, protocol.Command, error) {
	if err := validateDestination(dest); err != nil {
		return protocol.Destination{}, 0, err
	}
	if err := userID.Validate(); err != nil {
		return protocol.Destination{}, 0, err
	}

	h.debugf("socks4: sending request cmd=0x%02x dest=%s", cmd, dest)
	if err := writeRequest(ctx, s, cmd, dest, userID); err != nil {
		return protocol.Destination{}, 0, err
	}

	bound, status, err := readReply(ctx, s)
	if err != nil {
		return protocol.Destination{}, 0, err
	}
	if status != byte(StatusGranted) {
		return protocol.Destination{}, 0, Status(status)
	}
	h.debugf("socks4: request granted, bound=%s", bound)
	return bound, cmd, nil
}

// validateDestination rejects what SOCKS4 cannot express: IPv6, and a
// domain name containing the NUL byte that would otherwise prematurely
// terminate the SOCKS4a name field.
func validateDestination(dest protocol.Destination) error {
	if dest.Kind == protocol.KindIPv6 {
		return ErrIPv6Unsupported
	}
	if err := dest.Validate(); err != nil {
		return err
	}
	if dest.Kind == protocol.KindDomain && bytes.IndexByte([]byte(dest.Name), 0) >= 0 {
		return errors.Join(protocol.ErrInvalidTargetAddress, errors.New("domain name must not contain a NUL byte"))
	}
	return nil
}

// writeRequest sends VER | CMD | DSTPORT(2) | DSTIP(4) | USERID... |
// 0x00 [| DOMAIN... | 0x00]. For a domain destination (SOCKS4a),
// DSTIP carries the 0.0.0.x sentinel and the name is appended, NUL
// terminated, after the user-id's own NUL terminator.
func writeRequest(ctx context.Context, s streamio.Stream, cmd protocol.Command, dest protocol.Destination, userID protocol.UserID) error {
	buf := make([]byte, 0, 9+len(userID)+len(dest.Name)+1)
	buf = append(buf, protocol.Socks4Version, byte(cmd))
	buf = binary.BigEndian.AppendUint16(buf, dest.Port)

	switch dest.Kind {
	case protocol.KindIPv4:
		buf = append(buf, dest.IP.To4()...)
	case protocol.KindDomain:
		buf = append(buf, 0x00, 0x00, 0x00, socks4aDomainSentinelOctet)
	default:
		return ErrIPv6Unsupported
	}

	buf = append(buf, userID...)
	buf = append(buf, 0x00)

	if dest.Kind == protocol.KindDomain {
		buf = append(buf, dest.Name...)
		buf = append(buf, 0x00)
	}

	if err := streamio.WriteAll(ctx, s, buf); err != nil {
		return errors.Join(protocol.ErrIO, err)
	}
	return nil
}

// readReply decodes the fixed 8-byte SOCKS4 reply: 0x00 | STATUS |
// DSTPORT(2) | DSTIP(4). The bound address is always IPv4.
func readReply(ctx context.Context, s streamio.Stream) (protocol.Destination, byte, error) {
	var buf [8]byte
	if err := streamio.ReadFull(ctx, s, buf[:]); err != nil {
		return protocol.Destination{}, 0, errors.Join(protocol.ErrIO, err)
	}
	if buf[0] != protocol.Socks4ReplyVersion {
		return protocol.Destination{}, 0, errors.Join(protocol.ErrInvalidResponseVersion, fmt.Errorf("reply version 0x%02x", buf[0]))
	}
	port := binary.BigEndian.Uint16(buf[2:4])
	ip := append([]byte(nil), buf[4:8]...)
	return protocol.NewIPDestination(ip, port), buf[1], nil
}
