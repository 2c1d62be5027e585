package protocol

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"github.com/parsadev/socksneg/streamio"
)

// WriteAddress encodes dest onto w in SOCKS5 wire form:
// ATYP | ADDR | PORT. dest is checked with Destination.Validate first,
// so an empty or oversized domain fails with ErrInvalidTargetAddress
// before any byte is written; a failed write is wrapped with ErrIO.
func WriteAddress(ctx context.Context, w streamio.Stream, dest Destination) error {
	buf, err := AppendAddress(nil, dest)
	if err != nil {
		return err
	}
	if err := streamio.WriteAll(ctx, w, buf); err != nil {
		return errors.Join(ErrIO, err)
	}
	return nil
}

// AppendAddress appends the SOCKS5 wire encoding of dest to b and
// returns the extended slice. It is the building block WriteAddress
// uses, and socks5's request writer appends the address onto its
// VER | CMD | RSV prefix with it.
func AppendAddress(b []byte, dest Destination) ([]byte, error) {
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	switch dest.Kind {
	case KindIPv4:
		b = append(b, AtypIPv4)
		b = append(b, dest.IP.To4()...)
	case KindIPv6:
		b = append(b, AtypIPv6)
		b = append(b, dest.IP.To16()...)
	case KindDomain:
		b = append(b, AtypDomain, byte(len(dest.Name)))
		b = append(b, dest.Name...)
	default:
		return nil, fmt.Errorf("socksneg: unknown address kind %d", dest.Kind)
	}
	b = binary.BigEndian.AppendUint16(b, dest.Port)
	return b, nil
}

// ReadAddress decodes a SOCKS5 ATYP | ADDR | PORT triple from r: one
// kind byte, dispatched; for a domain, one length byte then exactly
// that many name bytes; the final two bytes are always the big-endian
// port. It never reads past the frame boundary described by its own
// length fields.
func ReadAddress(ctx context.Context, r streamio.Stream) (Destination, error) {
	var kind [1]byte
	if err := streamio.ReadFull(ctx, r, kind[:]); err != nil {
		return Destination{}, errors.Join(ErrIO, err)
	}

	var dest Destination
	switch kind[0] {
	case AtypIPv4:
		ip := make(net.IP, net.IPv4len)
		if err := streamio.ReadFull(ctx, r, ip); err != nil {
			return Destination{}, errors.Join(ErrIO, err)
		}
		dest = Destination{Kind: KindIPv4, IP: ip}
	case AtypIPv6:
		ip := make(net.IP, net.IPv6len)
		if err := streamio.ReadFull(ctx, r, ip); err != nil {
			return Destination{}, errors.Join(ErrIO, err)
		}
		dest = Destination{Kind: KindIPv6, IP: ip}
	case AtypDomain:
		var l [1]byte
		if err := streamio.ReadFull(ctx, r, l[:]); err != nil {
			return Destination{}, errors.Join(ErrIO, err)
		}
		name := make([]byte, l[0])
		if err := streamio.ReadFull(ctx, r, name); err != nil {
			return Destination{}, errors.Join(ErrIO, err)
		}
		dest = Destination{Kind: KindDomain, Name: string(name)}
	default:
		return Destination{}, errors.Join(ErrInvalidAddressType, fmt.Errorf("atyp byte 0x%02x", kind[0]))
	}

	var portBuf [DstPortSize]byte
	if err := streamio.ReadFull(ctx, r, portBuf[:]); err != nil {
		return Destination{}, errors.Join(ErrIO, err)
	}
	dest.Port = binary.BigEndian.Uint16(portBuf[:])
	return dest, nil
}
