package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadSignature marks a webhook whose signature header failed verification.
// Such deliveries are rejected and never acted upon.
var ErrBadSignature = errors.New("webhook signature verification failed")

// signatureTolerance bounds how old a signed timestamp may be, limiting
// replay of captured webhook deliveries.
const signatureTolerance = 5 * time.Minute

// VerifySignature checks a processor signature header of the form
// "t=<unix>,v1=<hex>" where v1 is HMAC-SHA256 over "<unix>.<payload>".
func VerifySignature(payload []byte, header, secret string, now time.Time) error {
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return fmt.Errorf("%w: malformed signature header", ErrBadSignature)
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed timestamp", ErrBadSignature)
	}
	signedAt := time.Unix(unix, 0)
	if signedAt.Before(now.Add(-signatureTolerance)) || signedAt.After(now.Add(signatureTolerance)) {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrBadSignature)
	}

	expected := hmac256([]byte(ts+"."+string(payload)), []byte(secret))
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}

// SignPayload produces the header VerifySignature accepts. Used by tests and
// by local tooling that replays webhook deliveries.
func SignPayload(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return fmt.Sprintf("t=%s,v1=%s", ts, hmac256([]byte(ts+"."+string(payload)), []byte(secret)))
}

func hmac256(body, key []byte) string {
	hash := hmac.New(sha256.New, key)
	hash.Write(body)
	return hex.EncodeToString(hash.Sum(nil))
}
