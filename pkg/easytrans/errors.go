package easytrans

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// ErrorKind classifies an API failure into a stable category. The import
// channel maps the vendor's numeric errorno ranges onto kinds; the REST
// channel maps HTTP status codes.
type ErrorKind string

const (
	KindTransport   ErrorKind = "transport"
	KindAuth        ErrorKind = "auth"
	KindValidation  ErrorKind = "validation"
	KindOrder       ErrorKind = "order"
	KindDestination ErrorKind = "destination"
	KindPackage     ErrorKind = "package"
	KindCustomer    ErrorKind = "customer"
	KindNotFound    ErrorKind = "not_found"
	KindRateLimit   ErrorKind = "rate_limit"
)

// Error represents a failure reported by either EasyTrans API surface.
type Error struct {
	Kind       ErrorKind
	Code       int // vendor errorno, import channel only
	StatusCode int // HTTP status, REST channel only
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("easytrans %s error: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("easytrans %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for Error. Two errors match when their kinds
// match, which is what the exported sentinels rely on.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrTransport   = &Error{Kind: KindTransport}
	ErrAuth        = &Error{Kind: KindAuth}
	ErrValidation  = &Error{Kind: KindValidation}
	ErrOrder       = &Error{Kind: KindOrder}
	ErrDestination = &Error{Kind: KindDestination}
	ErrPackage     = &Error{Kind: KindPackage}
	ErrCustomer    = &Error{Kind: KindCustomer}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrRateLimit   = &Error{Kind: KindRateLimit}
)

// importErrorRule maps an errorno range (inclusive) plus any scattered
// codes outside it to a kind. First matching rule wins.
type importErrorRule struct {
	lo, hi int
	extra  []int
	kind   ErrorKind
}

var importErrorTable = []importErrorRule{
	{lo: 5, hi: 5, kind: KindValidation},
	{lo: 10, hi: 19, kind: KindAuth},
	{lo: 20, hi: 29, extra: []int{210, 211, 213, 214, 215}, kind: KindOrder},
	{lo: 30, hi: 39, extra: []int{310}, kind: KindDestination},
	{lo: 40, hi: 45, kind: KindPackage},
	{lo: 50, hi: 65, kind: KindCustomer},
}

// classifyImportError converts an error object from the import endpoint
// into an *Error. Codes not covered by the table fall back to validation.
func classifyImportError(errorno int, description string) *Error {
	msg := fmt.Sprintf("[Error %d] %s", errorno, description)
	for _, rule := range importErrorTable {
		if (errorno >= rule.lo && errorno <= rule.hi) || slices.Contains(rule.extra, errorno) {
			return &Error{Kind: rule.kind, Code: errorno, Message: msg}
		}
	}
	return &Error{Kind: KindValidation, Code: errorno, Message: msg}
}

// previewLimit caps how much of an unparseable response body ends up in an
// error message.
const previewLimit = 200

func bodyPreview(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > previewLimit {
		return s[:previewLimit]
	}
	return s
}

// restErrorBody is the error shape the REST API returns. The errors map is
// only populated on 422 responses.
type restErrorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// classifyRESTError maps a REST response to an *Error. It returns nil for
// 2xx statuses. The body is parsed best effort: when it is not the expected
// JSON error shape, a truncated raw preview is used instead.
func classifyRESTError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var parsed restErrorBody
	message := bodyPreview(body)
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		message = parsed.Message
	}

	switch status {
	case http.StatusUnauthorized:
		return &Error{
			Kind:       KindAuth,
			StatusCode: status,
			Message:    fmt.Sprintf("authentication failed (401): %s", message),
		}
	case http.StatusNotFound:
		return &Error{
			Kind:       KindNotFound,
			StatusCode: status,
			Message:    fmt.Sprintf("resource not found (404): %s", message),
		}
	case http.StatusUnprocessableEntity:
		msg := fmt.Sprintf("validation failed (422): %s", message)
		if details := flattenFieldErrors(parsed.Errors); details != "" {
			msg += " - " + details
		}
		return &Error{Kind: KindValidation, StatusCode: status, Message: msg}
	case http.StatusTooManyRequests:
		return &Error{
			Kind:       KindRateLimit,
			StatusCode: status,
			Message:    "rate limit exceeded (429): the API allows 60 requests per minute, back off and retry after a short delay",
		}
	default:
		return &Error{
			Kind:       KindTransport,
			StatusCode: status,
			Message:    fmt.Sprintf("API request failed (HTTP %d): %s", status, message),
		}
	}
}

// flattenFieldErrors renders a 422 errors map as
// "field: msg1, msg2; field2: msg3" with fields in sorted order.
func flattenFieldErrors(fields map[string][]string) string {
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(fields))
	for _, field := range slices.Sorted(maps.Keys(fields)) {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(fields[field], ", ")))
	}
	return strings.Join(parts, "; ")
}
