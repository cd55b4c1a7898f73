package api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/domain"
)

var (
	errorRe   = regexp.MustCompile(`^ERR: (\d+), (.*)`)
	balanceRe = regexp.MustCompile(`^Credit: ([\d.]+)$`)
	msgIDRe   = regexp.MustCompile(`^ID: (.*)$`)
)

func trimBody(body string) string {
	return strings.TrimRight(body, "\r\n")
}

// CheckError returns the classified *domain.ProviderError when body is an
// "ERR: <code>, <message>" reply, and nil otherwise.
func CheckError(body string) error {
	m := errorRe.FindStringSubmatch(trimBody(body))
	if m == nil {
		return nil
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		// Only overflow gets here.
		return fmt.Errorf("%w: error code %q: %v", domain.ErrMalformedResponse, m[1], err)
	}
	return domain.ClassifyError(code, m[2])
}

// ParseBalance parses a "Credit: <decimal>" reply.
func ParseBalance(body string) (float64, error) {
	if err := CheckError(body); err != nil {
		return 0, err
	}
	m := balanceRe.FindStringSubmatch(trimBody(body))
	if m == nil {
		return 0, fmt.Errorf("%w: balance: %q", domain.ErrMalformedResponse, body)
	}
	credit, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: balance: %q", domain.ErrMalformedResponse, body)
	}
	return credit, nil
}

// ParseMessageID parses an "ID: <id>" reply.
func ParseMessageID(body string) (string, error) {
	if err := CheckError(body); err != nil {
		return "", err
	}
	m := msgIDRe.FindStringSubmatch(trimBody(body))
	if m == nil {
		return "", fmt.Errorf("%w: message id: %q", domain.ErrMalformedResponse, body)
	}
	return m[1], nil
}
