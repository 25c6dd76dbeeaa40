package users

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// envelope holds the fields an API body may use to report its own status.
// Bodies that are not JSON objects leave it empty.
type envelope struct {
	Status    json.RawMessage `json:"status"`
	Msg       json.RawMessage `json:"msg"`
	ErrorData json.RawMessage `json:"errorData"`
	Cause     json.RawMessage `json:"cause"`
	Data      json.RawMessage `json:"data"`
}

type nested struct {
	Error       json.RawMessage `json:"error"`
	Message     json.RawMessage `json:"message"`
	ErrorReason json.RawMessage `json:"errorReason"`
	Name        json.RawMessage `json:"name"`
}

func parseEnvelope(body []byte) envelope {
	var env envelope
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env
	}
	_ = json.Unmarshal(trimmed, &env)
	return env
}

func parseNested(raw json.RawMessage) nested {
	var n nested
	if len(raw) > 0 && raw[0] == '{' {
		_ = json.Unmarshal(raw, &n)
	}
	return n
}

// outcome is the classification of one response.
type outcome struct {
	success bool

	// status is the body's status value, or the HTTP code when the body
	// has none.
	status string

	// fromHTTP is set when status came from the HTTP code.
	fromHTTP bool
}

// classify decides success from, in order: data.error, errorData, a
// truthy status field, and finally the HTTP status code.
func classify(code int, env envelope) outcome {
	if data := parseNested(env.Data); truthy(data.Error) {
		return outcome{success: false, status: text(data.Error)}
	}
	if present(env.ErrorData) {
		return outcome{success: false, status: text(parseNested(env.ErrorData).ErrorReason)}
	}
	if truthy(env.Status) {
		s := text(env.Status)
		return outcome{success: s == StatusSuccess, status: s}
	}
	return outcome{success: code >= 200 && code < 300, status: strconv.Itoa(code), fromHTTP: true}
}

// userMessage picks the first message the body offers: msg,
// errorData.errorReason, cause.name, data.message.
func userMessage(env envelope) string {
	if s := text(env.Msg); truthy(env.Msg) && s != "" {
		return s
	}
	if r := parseNested(env.ErrorData).ErrorReason; truthy(r) {
		return text(r)
	}
	if truthy(env.Cause) {
		return text(parseNested(env.Cause).Name)
	}
	if m := parseNested(env.Data).Message; truthy(m) {
		return text(m)
	}
	return DefaultUserMessage
}

// failure maps a response that did not succeed to an APIError.
func failure(code int, env envelope) *APIError {
	out := classify(code, env)
	if out.success {
		return &APIError{StatusText: StatusUnexpected, UserMessage: DefaultUserMessage, StatusCode: code}
	}
	if out.fromHTTP && code == 401 {
		return &APIError{StatusText: StatusUnauthorised, StatusCode: code}
	}
	return &APIError{StatusText: StatusFailureHandler, UserMessage: userMessage(env), StatusCode: code}
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// truthy follows loose JSON truthiness: null, false, 0 and "" are false.
func truthy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

// text renders a raw JSON value as display text: strings unquoted,
// anything else verbatim.
func text(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
