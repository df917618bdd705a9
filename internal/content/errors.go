// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import "fmt"

// ParseError reports a field that could not be parsed even after the repair
// heuristics. Callers receive it alongside an empty result and must treat the
// empty result as "no data to display", never as fatal.
type ParseError struct {
	Field    string
	RecordID string
	Err      error
}

func (e *ParseError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("parsing %s on record %s: %v", e.Field, e.RecordID, e.Err)
	}
	return fmt.Sprintf("parsing %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
