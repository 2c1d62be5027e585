package protocol

import (
	"errors"
	"fmt"
	"net"
)

// Destination is a tagged SOCKS target address: either a raw IP or a
// domain name, always paired with a port. Exactly one of IP/Name is
// meaningful, selected by Kind.
type Destination struct {
	Kind AddressKind
	IP   net.IP // valid when Kind == KindIPv4 or KindIPv6
	Name string // valid when Kind == KindDomain
	Port uint16
}

// AddressKind discriminates the Destination union.
type AddressKind int

const (
	KindIPv4 AddressKind = iota
	KindIPv6
	KindDomain
)

// NewIPDestination builds a Destination from a net.IP, choosing KindIPv4
// or KindIPv6 based on the address's natural form.
func NewIPDestination(ip net.IP, port uint16) Destination {
	if v4 := ip.To4(); v4 != nil {
		return Destination{Kind: KindIPv4, IP: v4, Port: port}
	}
	return Destination{Kind: KindIPv6, IP: ip.To16(), Port: port}
}

// NewDomainDestination builds a Destination carrying a domain name.
func NewDomainDestination(name string, port uint16) Destination {
	return Destination{Kind: KindDomain, Name: name, Port: port}
}

// Validate enforces that a Domain destination's name is 1..=255 bytes,
// the range a single wire length byte can express. IP destinations are
// always valid by construction (net.IP is already a fixed width).
func (d Destination) Validate() error {
	if d.Kind != KindDomain {
		return nil
	}
	if len(d.Name) == 0 || len(d.Name) > MaxDomainLength {
		return errors.Join(ErrInvalidTargetAddress, fmt.Errorf("domain name length %d out of range 1..=255", len(d.Name)))
	}
	return nil
}

// String renders the destination as a "host:port" pair, mainly for logging.
func (d Destination) String() string {
	switch d.Kind {
	case KindDomain:
		return net.JoinHostPort(d.Name, fmt.Sprint(d.Port))
	default:
		return net.JoinHostPort(d.IP.String(), fmt.Sprint(d.Port))
	}
}

// Credentials is the optional SOCKS5 username/password pair used during
// RFC 1929 sub-negotiation. Both fields must be 1..=255 bytes.
type Credentials struct {
	Username []byte
	Password []byte
}

// Validate enforces that both fields are 1..=255 bytes, the range RFC
// 1929's single-byte length fields can express.
func (c *Credentials) Validate() error {
	if c == nil {
		return nil
	}
	if len(c.Username) == 0 || len(c.Username) > 255 {
		return errors.Join(ErrInvalidAuthValues, fmt.Errorf("username length %d out of range 1..=255", len(c.Username)))
	}
	if len(c.Password) == 0 || len(c.Password) > 255 {
		return errors.Join(ErrInvalidAuthValues, fmt.Errorf("password length %d out of range 1..=255", len(c.Password)))
	}
	return nil
}

// UserID is the SOCKS4 user-id string. It may be empty but must not
// contain a NUL byte (the wire format NUL-terminates it).
type UserID []byte

// Validate enforces that the user-id carries no NUL byte, since the
// wire format NUL-terminates it.
func (u UserID) Validate() error {
	for _, b := range u {
		if b == 0 {
			return errors.Join(ErrInvalidTargetAddress, errors.New("user-id must not contain a NUL byte"))
		}
	}
	return nil
}
