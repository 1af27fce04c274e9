// Package utf7 implements "modified UTF-7", the mailbox-name encoding
// of RFC 3501 section 5.1.3 (itself a variant of the UTF-7 of RFC
// 2152). It is used to decode and encode IMAP mailbox names carried in
// LIST/LSUB/STATUS/SELECT and friends.
//
// Decoding bad input has no good recovery options, so AppendDecode is
// lenient where the RFC's encoder-side MUSTs would otherwise reject
// real-world servers' mailbox names.
package utf7

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrInvalidUTF7 is returned for malformed modified UTF-7 input, e.g.
// an unterminated "&...-" shift sequence or an odd-length base64 run.
var ErrInvalidUTF7 = errors.New("utf7: invalid modified UTF-7")

const encodeModB64 = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+,"

// Modified UTF-7 uses a modified base64: "," replaces "/", and there
// is no padding.
var b64 = base64.NewEncoding(encodeModB64).WithPadding(base64.NoPadding)

// AppendDecode appends the modified-UTF-7 decoding of src to dst and
// returns the extended buffer.
func AppendDecode(dst, src []byte) ([]byte, error) {
	for len(src) > 0 {
		c := src[0]
		src = src[1:]
		if c != '&' {
			dst = append(dst, c)
			continue
		}
		i := bytes.IndexByte(src, '-')
		if i == -1 {
			return nil, ErrInvalidUTF7
		}
		if i == 0 {
			src = src[1:]
			dst = append(dst, '&')
			continue
		}
		scratch := make([]byte, b64.DecodedLen(i))
		n, err := b64.Decode(scratch, src[:i])
		src = src[i+1:]
		if err != nil {
			return nil, fmt.Errorf("utf7: decoding base64 run: %v", err)
		}
		scratch = scratch[:n]
		if len(scratch)%2 == 1 {
			return nil, ErrInvalidUTF7
		}
		for len(scratch) > 0 {
			r := rune(scratch[0])<<8 | rune(scratch[1])
			scratch = scratch[2:]
			if utf16.IsSurrogate(r) {
				if len(scratch) < 2 {
					return nil, ErrInvalidUTF7
				}
				r2 := rune(scratch[0])<<8 | rune(scratch[1])
				scratch = scratch[2:]
				combined := utf16.DecodeRune(r, r2)
				if combined == utf8.RuneError {
					return nil, ErrInvalidUTF7
				}
				r = combined
			}
			dst = appendRune(dst, r)
		}
	}
	return dst, nil
}

func appendRune(dst []byte, r rune) []byte {
	var b [4]byte
	return append(dst, b[:utf8.EncodeRune(b[:], r)]...)
}

// AppendEncode appends the modified-UTF-7 encoding of src (assumed to
// be valid UTF-8) to dst and returns the extended buffer.
func AppendEncode(dst, src []byte) ([]byte, error) {
	for len(src) > 0 {
		r, sz := utf8.DecodeRune(src)
		switch {
		case r == '&':
			dst = append(dst, '&', '-')
			src = src[1:]
			continue
		case r < utf8.RuneSelf:
			dst = append(dst, byte(r))
			src = src[1:]
			continue
		}

		var scratch []byte
		for len(src) > 0 {
			r, sz = utf8.DecodeRune(src)
			if r < utf8.RuneSelf {
				break
			}
			src = src[sz:]
			if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
				scratch = append(scratch, byte(r1>>8), byte(r1))
				r = r2
			}
			scratch = append(scratch, byte(r>>8), byte(r))
		}

		b64len := b64.EncodedLen(len(scratch))
		dst = append(dst, '&')
		dst = append(dst, make([]byte, b64len)...)
		b64.Encode(dst[len(dst)-b64len:], scratch)
		dst = append(dst, '-')
	}
	return dst, nil
}

// Decode is a convenience wrapper around AppendDecode for a fresh
// allocation.
func Decode(src []byte) ([]byte, error) { return AppendDecode(nil, src) }

// Encode is a convenience wrapper around AppendEncode for a fresh
// allocation.
func Encode(src []byte) ([]byte, error) { return AppendEncode(nil, src) }
