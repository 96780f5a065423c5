package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reMethod = regexp.MustCompile(`^(CASH|CARD|QRIS|TRANSFER)$`)
)

// ID validates a simple resource identifier (variant/branch/transaction ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Username validates a login name with a reasonable max length.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, true
}

// Method validates a payment method enum.
func Method(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, s != "" && reMethod.MatchString(s)
}

// Limit parses a list limit query param, clamped to a sane window.
func Limit(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	if n > 200 {
		return 200
	}
	return n
}
