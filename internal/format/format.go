package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format names accepted by Write.
const (
	JSON = "json"
	EDN  = "edn"
)

// Normalize maps user input to a known format name. Empty means JSON.
func Normalize(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", JSON:
		return JSON, nil
	case EDN:
		return EDN, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want json or edn)", s)
	}
}

// Write encodes v to w in the named format, followed by a newline.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Normalize(format)
	if err != nil {
		return err
	}
	if f == EDN {
		return WriteEDN(w, v, pretty)
	}
	return WriteJSON(w, v, pretty)
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
