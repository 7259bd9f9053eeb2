package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// TokenTZ is the reference timezone for token dates and week boundaries.
// All calendar comparisons happen in this zone regardless of server locale.
const TokenTZ = "America/Los_Angeles"

const tokenDateLayout = "2006-01-02"

// Daily token verification errors. Controllers collapse all three into a
// generic "invalid token" response so a forger learns nothing about which
// check failed.
var (
	ErrInvalidTokenFormat    = errors.New("invalid token format")
	ErrInvalidTokenSignature = errors.New("invalid token signature")
	ErrInvalidTokenPayload   = errors.New("invalid token payload")
)

// TokenPayload is the signed content of a daily check-in token.
type TokenPayload struct {
	LocationID string `json:"locationId"`
	TokenDate  string `json:"tokenDate"`
	Nonce      string `json:"nonce"`
}

// TokenCodec signs and verifies short-lived, location-scoped check-in tokens.
// It is purely cryptographic: date freshness is the caller's concern.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec around a server-held secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// TodayTokenDate returns the current calendar date in the reference timezone.
func TodayTokenDate(now time.Time) string {
	loc, err := time.LoadLocation(TokenTZ)
	if err != nil {
		// The IANA name is a constant; a failed load means a broken tz database.
		panic(err)
	}
	return now.In(loc).Format(tokenDateLayout)
}

// Sign encodes the payload and appends an HMAC-SHA256 signature, both
// base64url without padding, joined by a single dot.
func (c *TokenCodec) Sign(payload TokenPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	data := base64.RawURLEncoding.EncodeToString(raw)
	return data + "." + c.signature(data), nil
}

// GenerateDailyToken signs a token for one location and one calendar date with
// a fresh random nonce.
func (c *TokenCodec) GenerateDailyToken(locationID, tokenDate string) (string, error) {
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return c.Sign(TokenPayload{
		LocationID: locationID,
		TokenDate:  tokenDate,
		Nonce:      hex.EncodeToString(nonce),
	})
}

// Verify checks the signature in constant time and decodes the payload.
// All three payload fields must be present and non-empty.
func (c *TokenCodec) Verify(token string) (*TokenPayload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, ErrInvalidTokenFormat
	}
	data, sig := parts[0], parts[1]

	sigBytes, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return nil, ErrInvalidTokenSignature
	}
	expected, err := base64.RawURLEncoding.DecodeString(c.signature(data))
	if err != nil {
		return nil, ErrInvalidTokenSignature
	}
	if !hmac.Equal(sigBytes, expected) {
		return nil, ErrInvalidTokenSignature
	}

	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, ErrInvalidTokenPayload
	}
	var payload TokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrInvalidTokenPayload
	}
	if payload.LocationID == "" || payload.TokenDate == "" || payload.Nonce == "" {
		return nil, ErrInvalidTokenPayload
	}
	return &payload, nil
}

func (c *TokenCodec) signature(data string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
