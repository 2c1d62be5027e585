package socks5

import (
	"context"
	"sync/atomic"

	"github.com/parsadev/socksneg/protocol"
	"github.com/parsadev/socksneg/streamio"
)

// BindSession is the single-use handle returned by Handshake.Bind. It
// holds exclusive ownership of the stream until Accept consumes the
// second BIND reply; a second Accept call fails with ErrInvalidState
// instead of re-reading the stream.
type BindSession struct {
	stream   streamio.Stream
	consumed atomic.Bool
	h        *Handshake
}

func newBindSession(s streamio.Stream, h *Handshake) *BindSession {
	return &BindSession{stream: s, h: h}
}

// Accept blocks until the proxy's second reply arrives (the peer has
// connected to the bound address) and returns the peer's address. A
// second call on the same BindSession fails ErrInvalidState.
func (b *BindSession) Accept(ctx context.Context) (protocol.Destination, error) {
	if !b.consumed.CompareAndSwap(false, true) {
		return protocol.Destination{}, ErrInvalidState
	}

	b.h.debugf("socks5: awaiting bind second reply")
	peer, rep, err := readReply(ctx, b.stream)
	if err != nil {
		return protocol.Destination{}, err
	}
	if rep != byte(ReplySucceeded) {
		return protocol.Destination{}, ReplyCode(rep)
	}
	b.h.debugf("socks5: bind second reply accepted, peer=%s", peer)
	return peer, nil
}
