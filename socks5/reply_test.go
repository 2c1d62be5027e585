package socks5

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestReplyCode_Totality asserts every REP byte maps to exactly one
// error kind or success, with no panic and a non-empty message for
// values outside the named table.
func TestReplyCode_Totality(t *testing.T) {
	for i := 0; i < 256; i++ {
		code := ReplyCode(byte(i))
		require.NotEmpty(t, code.Error())
	}
}

func TestReplyCode_KnownMessages(t *testing.T) {
	require.Contains(t, ReplyHostUnreachable.Error(), "host unreachable")
	require.Contains(t, ReplyCode(0xEE).Error(), "0xee")
}
