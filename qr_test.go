package gatehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQRToken_CheckInURL(t *testing.T) {
	raw := "https://visit.example.gov/qr-check-in?token=3f8a91c2-77d0-4d21-9e3b-1a6f20c84b55"
	assert.Equal(t, "3f8a91c2-77d0-4d21-9e3b-1a6f20c84b55", ParseQRToken(raw))
}

func TestParseQRToken_URLWithExtraParams(t *testing.T) {
	raw := "http://localhost:8080/qr-check-in?source=kiosk&token=abc123"
	assert.Equal(t, "abc123", ParseQRToken(raw))
}

func TestParseQRToken_BareToken(t *testing.T) {
	assert.Equal(t, "abc123", ParseQRToken("abc123"))
}

func TestParseQRToken_URLWithoutTokenParam(t *testing.T) {
	// A URL that carries no token parameter is passed through untouched, so
	// the server can reject it rather than the client guessing.
	raw := "https://visit.example.gov/qr-check-in?visit=v-42"
	assert.Equal(t, raw, ParseQRToken(raw))
}

func TestParseQRToken_NonHTTPScheme(t *testing.T) {
	raw := "mailto:frontdesk@example.gov?token=abc"
	assert.Equal(t, raw, ParseQRToken(raw))
}

func TestParseQRToken_RelativePath(t *testing.T) {
	raw := "/qr-check-in?token=abc123"
	assert.Equal(t, raw, ParseQRToken(raw))
}

func TestParseQRToken_Empty(t *testing.T) {
	assert.Equal(t, "", ParseQRToken(""))
}
