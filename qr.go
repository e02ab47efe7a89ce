package gatehouse

import "net/url"

// ParseQRToken extracts the check-in token from a scanned QR payload.
//
// Badges encode either the bare token or a full check-in URL of the form
// https://host/qr-check-in?token=abc so that phone cameras open the right
// page. For URLs the token query parameter is returned; anything else,
// including URLs missing the parameter, is treated as a bare token and
// returned verbatim.
func ParseQRToken(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return raw
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return raw
	}
	if token := u.Query().Get("token"); token != "" {
		return token
	}
	return raw
}
