// Package envelope holds the JSON wire shapes shared by the API service and its client.
package envelope

import "encoding/json"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every JSON response body.
type Envelope[T any] struct {
	Status  string  `json:"status"`
	Message *string `json:"message"`
	Data    T       `json:"data"`
}

// ErrorBody is the envelope written for failed requests. Detail carries either a
// string or a list of FieldError values.
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Code    string `json:"code,omitempty"`
	Detail  any    `json:"detail,omitempty"`
}

// FieldError describes one validation failure.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Success builds a success envelope. An empty message is encoded as null.
func Success(message string, data any) Envelope[any] {
	env := Envelope[any]{Status: StatusSuccess, Data: data}
	if message != "" {
		env.Message = &message
	}
	return env
}

// Raw is an envelope whose data is decoded later against an operation-specific shape.
type Raw struct {
	Status  string          `json:"status"`
	Message *string         `json:"message"`
	Data    json.RawMessage `json:"data"`
	Detail  json.RawMessage `json:"detail"`
}

// MessageText returns the message or an empty string.
func (r Raw) MessageText() string {
	if r.Message == nil {
		return ""
	}
	return *r.Message
}

// DetailText returns the first human readable validation message carried by detail.
func DetailText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var fields []FieldError
	if err := json.Unmarshal(raw, &fields); err == nil && len(fields) > 0 {
		return fields[0].Msg
	}
	return ""
}
