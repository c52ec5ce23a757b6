// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package plugin

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

type choiceStatus int

const (
	choiceOK choiceStatus = iota
	choiceNotNumber
	choiceOutOfRange
)

// foldDigits maps full-width characters such as "３" to their ASCII forms.
func foldDigits(s string) string {
	return width.Narrow.String(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// inlineIndex returns the index given after a command word, or 0 when the
// first argument is missing, not a number, or too large to represent.
func inlineIndex(args string) int {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0
	}
	token := foldDigits(fields[0])
	if !isDigits(token) {
		return 0
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	return n
}

// parseChoice validates a selection reply against a 1-based list of limit entries.
func parseChoice(text string, limit int) (int, choiceStatus) {
	token := foldDigits(strings.TrimSpace(text))
	if !isDigits(token) {
		return 0, choiceNotNumber
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 1 || n > limit {
		return 0, choiceOutOfRange
	}
	return n, choiceOK
}
