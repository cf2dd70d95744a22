package workspace

import (
	"encoding/base64"
	"mime"
	"strings"
)

// buildMessage renders a minimal RFC 822 plain text message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// decodeBody decodes Gmail's base64url body data, padded or not.
func decodeBody(data string) (string, error) {
	if data == "" {
		return "", nil
	}
	raw, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
		if err != nil {
			return "", err
		}
	}
	return string(raw), nil
}

func encodeRaw(raw []byte) string { return base64.URLEncoding.EncodeToString(raw) }
