package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for an encoding label no decoder exists for
var ErrUnknownEncoding = errors.New("unknown encoding")

// NewDecoder returns a transformer decoding label-encoded bytes to UTF-8.
// Any WHATWG label is accepted (utf-8, windows-1252, iso-8859-8, shift_jis, ...).
// A UTF-8 or UTF-16 byte order mark overrides the label.
func NewDecoder(label string) (transform.Transformer, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return xunicode.BOMOverride(xunicode.UTF8.NewDecoder()), nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	return xunicode.BOMOverride(enc.NewDecoder()), nil
}

// DecodeBytes converts label-encoded data to a UTF-8 string
func DecodeBytes(data []byte, label string) (string, error) {
	dec, err := NewDecoder(label)
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", label, err)
	}
	return string(out), nil
}

// NewTextReader wraps r so reads yield UTF-8
func NewTextReader(r io.Reader, label string) (io.Reader, error) {
	dec, err := NewDecoder(label)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, dec), nil
}

// ReadTextFile reads a whole file and decodes it to UTF-8
func ReadTextFile(path string, label string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return DecodeBytes(data, label)
}
