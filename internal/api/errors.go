package api

import (
	"errors"
	"fmt"
)

// ErrorKind tags a failed API call with its failure class.
type ErrorKind string

const (
	// KindTransport means no response was received at all.
	KindTransport ErrorKind = "transport"
	// KindAuth means a 401 survived the refresh-and-retry cycle, or the
	// refresh itself failed.
	KindAuth ErrorKind = "auth"
	// KindRequest means the backend answered with a non-2xx status other
	// than a recoverable 401.
	KindRequest ErrorKind = "request"
	// KindUpload means an attachment upload sequence failed partway.
	KindUpload ErrorKind = "upload"
)

// Error is the tagged failure returned by the fetch client and the upload
// sequence.
type Error struct {
	Kind     ErrorKind
	Status   int
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error on %s: status %d", e.Kind, e.Endpoint, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error on %s: %v", e.Kind, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s error on %s", e.Kind, e.Endpoint)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the error kind, or "" for non-API errors.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsAuthError(err error) bool      { return KindOf(err) == KindAuth }
func IsTransportError(err error) bool { return KindOf(err) == KindTransport }
func IsRequestError(err error) bool   { return KindOf(err) == KindRequest }
func IsUploadError(err error) bool    { return KindOf(err) == KindUpload }
