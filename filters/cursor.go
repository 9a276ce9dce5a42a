package filters

import (
	"encoding/base64"
	"unicode/utf8"
)

// EncodeCursor makes a continuation point opaque for clients.
func EncodeCursor(cursor string) string {
	return base64.URLEncoding.EncodeToString([]byte(cursor))
}

// DecodeCursor reverses EncodeCursor. Tokens that are not URL safe base64 of
// UTF-8 text are returned unchanged rather than rejected, so tokens issued in
// another format keep working.
func DecodeCursor(cursor string) string {
	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil || !utf8.Valid(decoded) {
		return cursor
	}
	return string(decoded)
}
