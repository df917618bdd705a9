// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package airtable

import (
	"fmt"
	"strings"
)

// Formula is a filter predicate compiled to the store's formula syntax.
// Build one with the combinators below rather than concatenating strings, so
// field values are always escaped.
type Formula struct {
	expr string
}

// String returns the compiled formula text.
func (f Formula) String() string {
	return f.expr
}

// IsZero reports whether the formula is empty (no filtering).
func (f Formula) IsZero() bool {
	return f.expr == ""
}

// escapeValue quotes a string literal for use inside a formula.
func escapeValue(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "\\'") + "'"
}

// Eq matches records whose field equals value exactly.
func Eq(field, value string) Formula {
	return Formula{expr: fmt.Sprintf("{%s} = %s", field, escapeValue(value))}
}

// EqNum matches records whose numeric field equals value.
func EqNum(field string, value float64) Formula {
	return Formula{expr: fmt.Sprintf("{%s} = %v", field, value)}
}

// Checked matches records whose checkbox field is set.
func Checked(field string) Formula {
	return Formula{expr: fmt.Sprintf("{%s} = TRUE()", field)}
}

// Contains matches records whose field contains the substring. For
// multi-select fields the store flattens values to a comma-joined string, so
// this doubles as set membership.
func Contains(field, value string) Formula {
	return Formula{expr: fmt.Sprintf("FIND(%s, {%s}) > 0", escapeValue(value), field)}
}

// NotBlank matches records whose field has any value.
func NotBlank(field string) Formula {
	return Formula{expr: fmt.Sprintf("{%s} != ''", field)}
}

// And combines predicates conjunctively. Zero-value operands are dropped.
func And(fs ...Formula) Formula {
	return combine("AND", fs)
}

// Or combines predicates disjunctively. Zero-value operands are dropped.
func Or(fs ...Formula) Formula {
	return combine("OR", fs)
}

func combine(op string, fs []Formula) Formula {
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		if !f.IsZero() {
			parts = append(parts, f.expr)
		}
	}
	switch len(parts) {
	case 0:
		return Formula{}
	case 1:
		return Formula{expr: parts[0]}
	}
	return Formula{expr: op + "(" + strings.Join(parts, ", ") + ")"}
}
