package rpc

import (
	"fmt"
	"regexp"
	"strings"
)

// ConfigError reports a configuration problem detected before or during
// connection setup, such as an unsupported transport scheme or a node that
// reports a chain id missing from the known-networks table.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

// AuthorityError reports a missing signing authority: either the node rejected
// the transaction for lack of a required authority, or no acting account could
// be resolved for an operation in the first place.
type AuthorityError struct {
	Missing string // which authority or account is missing
	Detail  string // node-provided detail, if any
}

func (e *AuthorityError) Error() string {
	if e.Detail != "" && e.Detail != e.Missing {
		return fmt.Sprintf("missing %s: %s", e.Missing, e.Detail)
	}
	return "missing " + e.Missing
}

// ValidationError reports malformed operation input rejected before any
// network I/O takes place.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// ProtocolError reports a JSON-RPC protocol problem: calling a method with no
// registered api namespace, or a node-side "no method with name" rejection.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "rpc protocol: " + e.Reason
}

// TransportError reports a connection failure that survived all retries.
type TransportError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AccountNotFoundError reports that the node could not find an account by
// name in its account index.
type AccountNotFoundError struct {
	Message string
}

func (e *AccountNotFoundError) Error() string {
	return "account not found: " + e.Message
}

// InvalidAccountNameError reports that the node rejected an account name as
// malformed.
type InvalidAccountNameError struct {
	Message string
}

func (e *InvalidAccountNameError) Error() string {
	return "invalid account name: " + e.Message
}

// UnhandledError preserves a node error message that matched no known
// classification rule.
type UnhandledError struct {
	Message string
}

func (e *UnhandledError) Error() string {
	return "unhandled rpc error: " + e.Message
}

// Error is the raw JSON-RPC error payload as received from the node. It is
// returned unclassified only when its message is empty and no translation is
// possible.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rpc error %d", e.Code)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Node assert output looks like
//
//	<reason> (<code>)
//	<detail line>
//
// e.g. "Assert Exception (10)\namount.amount > 0: Cannot transfer a negative amount".
var (
	errorHeadRe       = regexp.MustCompile(`^(.*?)\s*\(\d+\)$`)
	accountIndexRe    = regexp.MustCompile(`^current_account_itr == acnt_indx\.indices\(\)\.get<by_name>\(\)\.end\(\)`)
	invalidNameRe     = regexp.MustCompile(`^Assert Exception: is_valid_name\( name \)`)
	missingActiveAuth = "missing required active authority"
)

// DecodeErrorMessage strips the "<reason> (<code>)" head line from a node
// error and returns the first human-readable detail line. Messages without a
// head line come back trimmed but otherwise untouched.
func DecodeErrorMessage(raw string) string {
	lines := strings.Split(raw, "\n")
	head := strings.TrimSpace(lines[0])
	m := errorHeadRe.FindStringSubmatch(head)
	if m == nil {
		return strings.TrimSpace(raw)
	}
	for _, line := range lines[1:] {
		if detail := strings.TrimSpace(line); detail != "" {
			return detail
		}
	}
	return m[1]
}

// Translate classifies a raw node error message into a typed error. Rules are
// evaluated in declaration order and the first match wins; the patterns are
// not mutually exclusive, so the order is part of the contract. An empty
// message yields nil, telling the caller to surface the original error.
func Translate(raw string) error {
	msg := strings.TrimSpace(raw)
	head := msg
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = strings.TrimSpace(head[:i])
	}
	if m := errorHeadRe.FindStringSubmatch(head); m != nil {
		head = m[1]
	}
	detail := DecodeErrorMessage(raw)

	switch {
	case head == missingActiveAuth:
		return &AuthorityError{Missing: "required active authority", Detail: detail}
	case accountIndexRe.MatchString(detail) || accountIndexRe.MatchString(msg):
		return &AccountNotFoundError{Message: detail}
	case invalidNameRe.MatchString(detail) || invalidNameRe.MatchString(msg):
		return &InvalidAccountNameError{Message: detail}
	case strings.HasPrefix(detail, "no method with name") || strings.HasPrefix(msg, "no method with name"):
		return &ProtocolError{Reason: detail}
	case msg != "":
		return &UnhandledError{Message: detail}
	default:
		return nil
	}
}
