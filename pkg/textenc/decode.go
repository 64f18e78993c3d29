// Package textenc turns uploaded CSV bytes into UTF-8 text.
package textenc

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeCSV returns b as a UTF-8 string. A byte order mark is honoured and
// removed; input that is not valid UTF-8 and carries no BOM is treated as
// Shift_JIS, the default encoding of Japanese spreadsheet exports.
func DecodeCSV(b []byte) (string, error) {
	if utf8.Valid(b) || bytes.HasPrefix(b, bomUTF16LE) || bytes.HasPrefix(b, bomUTF16BE) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), b)
		if err != nil {
			return "", fmt.Errorf("failed to decode utf text: %w", err)
		}
		return string(out), nil
	}

	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("failed to decode shift_jis text: %w", err)
	}
	return string(out), nil
}
