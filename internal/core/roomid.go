package core

import (
	"crypto/rand"
	"math/big"
)

const (
	roomIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	roomIDLen      = 7
)

// newRoomID returns a short, shareable id like "K3F9Q1Z".
func newRoomID() string {
	max := big.NewInt(int64(len(roomIDAlphabet)))
	b := make([]byte, roomIDLen)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			panic(err)
		}
		b[i] = roomIDAlphabet[n.Int64()]
	}
	return string(b)
}
