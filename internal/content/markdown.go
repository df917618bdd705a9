// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// sanitizer strips anything outside the usual user-generated-content tag set
// before narrative HTML is served to browsers.
var sanitizer = bluemonday.UGCPolicy()

// RenderMarkdown converts a narrative markdown field to sanitized HTML.
// On conversion failure the raw text is returned escaped by the sanitizer,
// so callers always get something safe to embed.
func RenderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return sanitizer.Sanitize(src)
	}
	return sanitizer.Sanitize(buf.String())
}
