package slacksignature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	e "eventreminder/internal/core/domain/errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	Version = "v0"
	MaxAge  = 5 * time.Minute
)

var (
	ErrInvalidSignature = errors.New("invalid request signature")
	ErrInvalidTimestamp = errors.New("request timestamp is missing or too old")
)

// HMAC checks Slack request signatures. With an empty secret every request
// is accepted.
type HMAC struct {
	secretKey []byte
	now       func() time.Time
}

func NewHMAC(secretKey string, now func() time.Time) *HMAC {
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &HMAC{secretKey: []byte(secretKey), now: now}
}

func (h *HMAC) IsEnabled() bool {
	return len(h.secretKey) > 0
}

func (h *HMAC) Sign(timestamp string, body []byte) string {
	hasher := hmac.New(sha256.New, h.secretKey)
	io.WriteString(hasher, fmt.Sprintf("%s:%s:", Version, timestamp))
	hasher.Write(body)
	return Version + "=" + hex.EncodeToString(hasher.Sum(nil))
}

func (h *HMAC) VerifyRequest(timestamp string, signature string, body []byte) error {
	if !h.IsEnabled() {
		return nil
	}

	seconds, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}
	age := h.now().Sub(time.Unix(seconds, 0))
	if age > MaxAge || age < -MaxAge {
		return ErrInvalidTimestamp
	}

	expected := h.Sign(timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
