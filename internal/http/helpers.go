package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// parseMonthQuery reads ?month=YYYY-MM. An absent month yields "" and ok.
func parseMonthQuery(r *http.Request) (month string, ok bool) {
	month = strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		return "", true
	}
	return month, monthPattern.MatchString(month)
}

// currentMonth returns the YYYY-MM of now.
func currentMonth(now time.Time) string {
	return now.Format("2006-01")
}

// sanitizeInput removes control characters except tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// requestID reuses a caller-supplied X-Request-ID when it is short and
// printable, otherwise it generates one.
func requestID(r *http.Request) string {
	if id := sanitizeInput(r.Header.Get("X-Request-ID")); id != "" && len(id) <= 64 && !strings.ContainsAny(id, " \t\n") {
		return id
	}
	return generateRequestID()
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
