// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/xataio/searchadapter/internal/json"
)

type ResponseError struct {
	Type      string      `mapstructure:"type"`
	Reason    string      `mapstructure:"reason"`
	CausedBy  *CausedBy   `mapstructure:"caused_by"`
	RootCause []RootCause `mapstructure:"root_cause"`
}

type CausedBy struct {
	Type   string `mapstructure:"type"`
	Reason string `mapstructure:"reason"`
}

type RootCause struct {
	Type   string `mapstructure:"type"`
	Reason string `mapstructure:"reason"`
}

type RetryableError struct {
	Cause error
}

func (r RetryableError) Error() string {
	return fmt.Sprintf("%v", r.Cause)
}

func (r RetryableError) Unwrap() error {
	return r.Cause
}

type ErrResourceAlreadyExists struct {
	Reason string
}

func (e ErrResourceAlreadyExists) Error() string {
	return fmt.Sprintf("resource already exists: %s", e.Reason)
}

type ErrQueryInvalid struct {
	Cause error
}

func (e ErrQueryInvalid) Error() string {
	return e.Cause.Error()
}

func (e ErrQueryInvalid) Unwrap() error {
	return e.Cause
}

const (
	SearchExecutionException       = "search_phase_execution_exception"
	TooManyClausesException        = "too_many_clauses"
	QueryShardException            = "query_shard_exception"
	ResourceAlreadyExistsException = "resource_already_exists_exception"
	SnapshotInProgressException    = "snapshot_in_progress_exception"
)

var (
	ErrTooManyRequests  = errors.New("too many requests")
	ErrTooManyClauses   = errors.New("too many clauses")
	ErrResourceNotFound = errors.New("search resource not found")
)

type apiResponse interface {
	GetBody() io.ReadCloser
	GetStatusCode() int
	IsError() bool
}

func IsErrResponse(res apiResponse) error {
	if res.IsError() {
		return ExtractResponseError(res.GetBody(), res.GetStatusCode())
	}
	return nil
}

// IsRetryable returns true if the error was caused by a transient engine
// condition.
func IsRetryable(err error) bool {
	return errors.As(err, &RetryableError{})
}

// ExtractResponseError decodes the engine error response body into a typed
// error, based on the status code and the error type reported.
func ExtractResponseError(body io.ReadCloser, statusCode int) error {
	var e map[string]any
	if err := json.NewDecoder(body).Decode(&e); err != nil {
		return fmt.Errorf("[%d] decoding error response: %w", statusCode, err)
	}

	var errType, errReason string
	switch eErr := e["error"].(type) {
	case string:
		// older clusters report errors as plain strings
		errReason = eErr
	case map[string]any:
		var esError ResponseError
		if err := mapstructure.Decode(eErr, &esError); err != nil {
			errType = "<unknown error type>"
			errReason = "<unknown error reason>"
			break
		}
		errType = esError.Type
		errReason = esError.Reason
		if esError.Type == SearchExecutionException {
			if esError.CausedBy != nil && esError.CausedBy.Type == TooManyClausesException {
				return ErrTooManyClauses
			}
			if len(esError.RootCause) > 0 && esError.RootCause[0].Type == QueryShardException {
				return ErrQueryInvalid{Cause: errors.New(esError.RootCause[0].Reason)}
			}
		}
	}

	if err, ok := getRetryableError(statusCode); ok {
		return RetryableError{Cause: err}
	}

	if statusCode == http.StatusNotFound {
		return fmt.Errorf("%w: [%d]: %s: %s", ErrResourceNotFound, statusCode, errType, errReason)
	}

	if statusCode == http.StatusBadRequest {
		switch errType {
		case ResourceAlreadyExistsException:
			return ErrResourceAlreadyExists{Reason: errReason}
		case SnapshotInProgressException:
			return RetryableError{Cause: fmt.Errorf("[%d] %s: %s", statusCode, errType, errReason)}
		default:
			return ErrQueryInvalid{
				Cause: fmt.Errorf("%s: %s", errType, errReason),
			}
		}
	}

	return fmt.Errorf("[%d] %s: %s", statusCode, errType, errReason)
}

func getRetryableError(statusCode int) (error, bool) {
	switch statusCode {
	case http.StatusRequestTimeout:
		return errors.New("request timeout"), true
	case http.StatusLocked:
		return errors.New("resource locked"), true
	case http.StatusTooEarly:
		return errors.New("too early"), true
	case http.StatusTooManyRequests:
		return ErrTooManyRequests, true
	case http.StatusBadGateway:
		return errors.New("bad gateway"), true
	case http.StatusServiceUnavailable:
		return errors.New("service unavailable"), true
	case http.StatusGatewayTimeout:
		return errors.New("gateway timeout"), true
	}

	return nil, false
}
