package utils

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	NodeIDPrefix = "serve_0x"
	NodeIDSize   = 6
	hexAlphabet  = "0123456789abcdef"
)

// IntSource is satisfied by *math/rand/v2.Rand.
type IntSource interface {
	IntN(n int) int
}

func NodeID() string {
	return NodeIDPrefix + gonanoid.MustGenerate(hexAlphabet, NodeIDSize)
}

// NodeIDFrom draws the suffix from r so ids repeat under a fixed seed.
func NodeIDFrom(r IntSource) string {
	return NodeIDPrefix + HexString(r, NodeIDSize)
}

func HexString(r IntSource, size int) string {
	var b strings.Builder
	b.Grow(size)
	for range size {
		b.WriteByte(hexAlphabet[r.IntN(len(hexAlphabet))])
	}
	return b.String()
}
