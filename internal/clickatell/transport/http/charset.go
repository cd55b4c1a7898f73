package http

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// lookupCharset resolves a charset name sent by the gateway, trying IANA
// names first and WHATWG labels second.
func lookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unsupported charset %q", name)
}

// decodeText converts raw webhook bytes in the named charset to UTF-8.
func decodeText(raw, charset string) (string, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return "", err
	}
	text, err := enc.NewDecoder().String(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s text: %w", charset, err)
	}
	return text, nil
}
