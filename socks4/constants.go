// Package socks4 drives the SOCKS4/4a request and reply handshake: the
// CONNECT/BIND request carrying an optional user-id, and the fixed
// 8-byte reply. SOCKS4a extends the base protocol by letting the
// client defer hostname resolution to the proxy: the request's 4-byte
// address field carries the sentinel 0.0.0.x (a zero network/host
// prefix and a non-zero trailing octet), and the literal domain name
// follows the user-id field, NUL terminated.
package socks4

// socks4aDomainSentinelOctet is the non-zero low octet of the
// 0.0.0.x IPv4 address SOCKS4a uses to signal "resolve this domain at
// the proxy" instead of a literal address. Any non-zero value works.
const socks4aDomainSentinelOctet = 0x01
