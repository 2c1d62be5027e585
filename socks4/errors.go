package socks4

import "errors"

// Socks4 errors. Sentinels for conditions that aren't a mapped Status.
var (
	// ErrIPv6Unsupported marks a caller passing an IPv6 destination to
	// a SOCKS4 driver; SOCKS4/4a frame only a 4-byte address.
	ErrIPv6Unsupported = errors.New("socks4: IPv6 destination is not supported")

	// ErrInvalidState marks a second BindSession4.Accept call.
	ErrInvalidState = errors.New("socks4: bind session already consumed")
)
