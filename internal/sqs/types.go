package sqs

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// ErrNoRegion is returned when an operation is called without a region.
var ErrNoRegion = errors.New("region is required")

// SendResult is what SQS reports for an accepted message.
type SendResult struct {
	MessageID      string
	MD5OfBody      string
	SequenceNumber string
}

// Identity is the STS caller identity.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// Result carries either a value or the error that prevented it.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the result holds a value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Resolve wraps a (value, error) pair.
func Resolve[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}

// Attribute names shown prominently in the UI.
const (
	AttrVisibleMessages  = "ApproximateNumberOfMessages"
	AttrInFlightMessages = "ApproximateNumberOfMessagesNotVisible"
	AttrDelayedMessages  = "ApproximateNumberOfMessagesDelayed"
	AttrQueueArn         = "QueueArn"
)

// MessageCount parses ApproximateNumberOfMessages. It returns -1 when the
// attribute is missing or not a number.
func MessageCount(attrs map[string]string) int {
	v, ok := attrs[AttrVisibleMessages]
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return -1
	}
	return n
}

// SortedKeys returns the attribute names in lexical order.
func SortedKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RegionFromURL extracts the region from a standard SQS queue URL such as
// https://sqs.us-east-1.amazonaws.com/123/name. It returns "" when the host
// does not follow that shape.
func RegionFromURL(queueURL string) string {
	rest, ok := strings.CutPrefix(queueURL, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(queueURL, "http://")
		if !ok {
			return ""
		}
	}
	host, _, _ := strings.Cut(rest, "/")
	parts := strings.Split(host, ".")
	if len(parts) < 3 || parts[0] != "sqs" {
		return ""
	}
	return parts[1]
}
