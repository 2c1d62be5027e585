package socks4

import "strconv"

// Status is the STATUS byte of a SOCKS4 reply, mapped to an error. It
// implements error directly, like socks5.ReplyCode does.
type Status byte

// SOCKS4 reply status codes.
const (
	StatusGranted                    Status = 0x5A
	StatusRejectedOrFailed           Status = 0x5B
	StatusRejectedCannotConnectIdent Status = 0x5C
	StatusRejectedDifferentUserID    Status = 0x5D
)

var _ error = Status(0)

// Error renders the status code as a human-readable message.
func (s Status) Error() string {
	switch s {
	case StatusGranted:
		return "socks4: request granted"
	case StatusRejectedOrFailed:
		return "socks4: request rejected or failed"
	case StatusRejectedCannotConnectIdent:
		return "socks4: request rejected, server cannot connect to identd on the client"
	case StatusRejectedDifferentUserID:
		return "socks4: request rejected, client and identd report different user-ids"
	default:
		return "socks4: unknown status code 0x" + strconv.FormatUint(uint64(s), 16)
	}
}
