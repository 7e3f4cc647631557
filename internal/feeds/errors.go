// Package feeds holds the thin clients for the external data providers. A
// client either returns well-formed value types or one of the two taxonomy
// errors below; the classifiers upstream decide how to degrade.
package feeds

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable marks a transport failure or timeout.
	ErrUpstreamUnavailable = errors.New("feeds: upstream unavailable")

	// ErrParseFailure marks a document whose layout could not be understood.
	ErrParseFailure = errors.New("feeds: parse failure")
)

func unavailable(feed string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, feed, err)
}

func parseFailure(feed, detail string) error {
	return fmt.Errorf("%w: %s: %s", ErrParseFailure, feed, detail)
}
