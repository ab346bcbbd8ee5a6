package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const genericErrorMessage = "An error occurred"

// ErrorMessage extracts the message shown to users from an error response body.
// JSON objects yield their first field and JSON arrays their first element: a string, or the first
// string of an array. Anything else in that position gives the generic message. Non-JSON bodies are
// returned as text; an empty body falls back to the status text.
func ErrorMessage(body []byte, status int) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		if text := http.StatusText(status); text != "" {
			return text
		}
		return fmt.Sprintf("Request failed with status %d", status)
	}

	switch body[0] {
	case '{':
		value, ok := firstField(body)
		if !ok {
			return genericErrorMessage
		}
		return firstMessage(value)
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(body, &list); err != nil {
			return string(body)
		}
		if len(list) == 0 {
			return genericErrorMessage
		}
		return firstMessage(list[0])
	default:
		var s string
		if err := json.Unmarshal(body, &s); err == nil {
			return s
		}
		return string(body)
	}
}

// firstField returns the value of the first key of a JSON object, in document order.
func firstField(body []byte) (json.RawMessage, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, false
	}
	if !dec.More() {
		return nil, false
	}
	if _, err := dec.Token(); err != nil { // first key
		return nil, false
	}
	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return nil, false
	}
	return value, true
}

// firstMessage reads a string, or the first element of an array when that is a string.
// Objects are not searched.
func firstMessage(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal(value, &list); err == nil && len(list) > 0 {
		if err := json.Unmarshal(list[0], &s); err == nil {
			return s
		}
	}
	return genericErrorMessage
}
