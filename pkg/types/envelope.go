package types

import "encoding/json"

// StatusOK is the backend's success marker inside the response envelope.
const StatusOK = "OK"

// Envelope is the backend's JSON response wrapper: {"status":"OK","data":...}
// on success. Error responses carry an HTTP error status and, optionally, a
// message body.
type Envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// ErrorBody captures the shapes error payloads arrive in; Text resolves the
// best available message.
type ErrorBody struct {
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
	Errors []string `json:"errors"`
}

func (e ErrorBody) Text() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Error.Message != "" {
		return e.Error.Message
	}
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return ""
}
