package rollback

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

type packetKind uint8

const (
	kindSyncRequest packetKind = iota + 1
	kindSyncReply
	kindInput
)

// packet is the datagram exchanged between sessions. Input packets resend
// every local input the peer has not acknowledged, so any one arriving is
// enough to catch up.
type packet struct {
	Kind  packetKind `msgpack:"k"`
	Nonce uint32     `msgpack:"n,omitempty"`

	// Inputs holds the sender's inputs for frames Start onward.
	Start  Frame  `msgpack:"s"`
	Inputs []byte `msgpack:"i,omitempty"`
	// Ack is the last frame of the receiver's inputs the sender has.
	Ack Frame `msgpack:"a"`

	// Frame is the sender's current frame and Advantage how far it thinks
	// it runs ahead of the receiver.
	Frame     Frame `msgpack:"f"`
	Advantage int32 `msgpack:"v"`

	// Ping is the sender's tick; Pong echoes the newest ping received.
	Ping uint32 `msgpack:"p"`
	Pong uint32 `msgpack:"q"`

	// SumFrame is the newest confirmed frame the sender has checksummed.
	SumFrame Frame  `msgpack:"cf"`
	Sum      uint64 `msgpack:"cs"`
}

func encodePacket(p *packet) ([]byte, error) {
	b, err := msgpack.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %d packet: %w", p.Kind, err)
	}
	return b, nil
}

func decodePacket(b []byte) (*packet, error) {
	var p packet
	if err := msgpack.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode packet: %w", err)
	}
	if p.Kind < kindSyncRequest || p.Kind > kindInput {
		return nil, fmt.Errorf("decode packet: unknown kind %d", p.Kind)
	}
	return &p, nil
}
