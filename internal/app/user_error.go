package app

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so that clients can pick a status code or a reply.
type Kind int

const (
	KindUnknown = Kind(iota)
	KindInvalidInput
	KindMethodNotAllowed
	KindUpstreamConnection
	KindUpstreamParse
	KindUpstreamApplication
	KindUpstreamTimeout
	KindLocalParse
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindInvalidInput:        "invalid_input",
	KindMethodNotAllowed:    "method_not_allowed",
	KindUpstreamConnection:  "upstream_connection",
	KindUpstreamParse:       "upstream_parse",
	KindUpstreamApplication: "upstream_application",
	KindUpstreamTimeout:     "upstream_timeout",
	KindLocalParse:          "local_parse",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// UserError carries a message that is safe to show to the person who sent the link.
type UserError struct {
	cause       error
	Kind        Kind
	UserMessage string
}

func NewUserError(kind Kind, userMessage string) *UserError {
	return &UserError{Kind: kind, UserMessage: userMessage}
}

func (err *UserError) WithCause(cause error) *UserError {
	err.cause = cause
	return err
}

func (err *UserError) Error() string {
	msg := &strings.Builder{}
	_, _ = fmt.Fprintf(msg, "user error of kind=%s with message=%q", err.Kind, err.UserMessage)
	if err.cause != nil {
		_, _ = fmt.Fprintf(msg, " and cause err=%q", err.cause.Error())
	}
	return msg.String()
}

func (err *UserError) Unwrap() error {
	return err.cause
}

// KindOf returns the kind of the first UserError in err's chain.
func KindOf(err error) Kind {
	var usrErr *UserError
	if errors.As(err, &usrErr) {
		return usrErr.Kind
	}
	return KindUnknown
}

// UserMessageOf returns the user-facing message of err, or an empty string
// if there is no UserError in the chain.
func UserMessageOf(err error) string {
	var usrErr *UserError
	if errors.As(err, &usrErr) {
		return usrErr.UserMessage
	}
	return ""
}
