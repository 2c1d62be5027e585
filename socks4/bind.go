package socks4

import (
	"context"
	"sync/atomic"

	"github.com/parsadev/socksneg/protocol"
	"github.com/parsadev/socksneg/streamio"
)

// BindSession4 is the SOCKS4/4a counterpart to socks5.BindSession: a
// single-use handle awaiting the second reply of a BIND dialogue.
type BindSession4 struct {
	stream   streamio.Stream
	consumed atomic.Bool
	h        *Handshake
}

func newBindSession4(s streamio.Stream, h *Handshake) *BindSession4 {
	return &BindSession4{stream: s, h: h}
}

// Accept blocks until the second SOCKS4 reply arrives and returns the
// peer's address. A second call fails ErrInvalidState.
func (b *BindSession4) Accept(ctx context.Context) (protocol.Destination, error) {
	if !b.consumed.CompareAndSwap(false, true) {
		return protocol.Destination{}, ErrInvalidState
	}

	b.h.debugf("socks4: awaiting bind second reply")
	peer, status, err := readReply(ctx, b.stream)
	if err != nil {
		return protocol.Destination{}, err
	}
	if status != byte(StatusGranted) {
		return protocol.Destination{}, Status(status)
	}
	b.h.debugf("socks4: bind second reply accepted, peer=%s", peer)
	return peer, nil
}
