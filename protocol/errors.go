package protocol

import "errors"

// Shared error-kind sentinels. Package socks5 and socks4 each add their
// own reply-code/status-code kinds on top of these; every handshake
// failure wraps one of these (or a package-local kind) with
// errors.Join so both errors.Is(err, KindSentinel) and the original
// I/O cause remain inspectable.
var (
	// ErrIO marks a failure that originated in the underlying stream
	// (read/write error, including EOF encountered mid-frame).
	ErrIO = errors.New("socksneg: transport I/O failure")

	// ErrInvalidResponseVersion marks a version byte mismatch in any
	// reply header (0x05 for SOCKS5, 0x00 for the SOCKS4 reply).
	ErrInvalidResponseVersion = errors.New("socksneg: unexpected protocol version in reply")

	// ErrInvalidReservedByte marks a non-zero SOCKS5 RSV byte.
	ErrInvalidReservedByte = errors.New("socksneg: reserved byte must be 0x00")

	// ErrInvalidAddressType marks an ATYP byte outside {0x01,0x03,0x04}.
	ErrInvalidAddressType = errors.New("socksneg: unsupported SOCKS5 address type")

	// ErrInvalidTargetAddress marks a destination rejected before any
	// byte is transmitted (empty/oversized domain, a NUL byte in a
	// SOCKS4 user-id or SOCKS4a domain, ...). An IPv6 destination on
	// SOCKS4 is reported with socks4.ErrIPv6Unsupported instead.
	ErrInvalidTargetAddress = errors.New("socksneg: destination address is invalid for this protocol")

	// ErrInvalidAuthValues marks a username/password outside 1..=255 bytes.
	ErrInvalidAuthValues = errors.New("socksneg: username/password must be 1..=255 bytes")
)
