package schema

import (
	"fmt"
	"regexp"
	"strconv"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var reqIDPattern = regexp.MustCompile(`^REQ-(\d+)$`)

// NewRecordID generates a new internal record ID in format RQ-{nanoid(10)}.
// Internal IDs stay unique even when imports inject duplicate display IDs.
func NewRecordID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RQ-%s", id), nil
}

// NewRunID generates a new analysis run ID in format RUN-{nanoid(10)}.
func NewRunID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RUN-%s", id), nil
}

// FormatReqID renders a display ID from its numeric suffix, e.g. 8 -> REQ-008.
func FormatReqID(n int) string {
	return fmt.Sprintf("REQ-%0*d", ReqIDDigits, n)
}

// ReqIDSuffix extracts the numeric suffix of a well-formed display ID.
// Malformed or arbitrary imported IDs report ok=false and are ignored by
// the next-ID scan.
func ReqIDSuffix(reqID string) (int, bool) {
	m := reqIDPattern.FindStringSubmatch(reqID)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
