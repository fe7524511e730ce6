package id

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const maxInboundLength = 128

// Generator creates request correlation ids.
type Generator interface {
	NewID() string
}

// RandomGenerator produces "<unix-millis base36>-<16 hex>" ids, which sort
// roughly by creation time.
type RandomGenerator struct {
	now func() time.Time
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{now: time.Now}
}

func (g *RandomGenerator) NewID() string {
	now := time.Now
	if g != nil && g.now != nil {
		now = g.now
	}

	buf := make([]byte, 8)
	// rand.Read never returns an error since Go 1.24.
	_, _ = rand.Read(buf)

	return strconv.FormatInt(now().UnixMilli(), 36) + "-" + hex.EncodeToString(buf)
}

// Sanitize returns an inbound id when it is short and printable, or "".
func Sanitize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxInboundLength {
		return ""
	}
	for _, r := range raw {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return raw
}
