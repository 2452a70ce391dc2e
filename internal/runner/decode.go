// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText turns captured process output into valid UTF-8. A UTF-8 or
// UTF-16 byte-order mark selects the encoding and is stripped; without one the
// bytes are taken as UTF-8. Invalid sequences become U+FFFD.
func DecodeText(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return strings.ToValidUTF8(string(out), "�")
}
