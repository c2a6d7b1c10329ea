package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// CodeNoRows is the PostgREST code for "zero rows returned where exactly one
// was requested".
const CodeNoRows = "PGRST116"

// Error is a failure reported by the backend.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("backend: %s", e.Message)
}

// IsNotFound reports whether err is the backend saying "no such row".
func IsNotFound(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeNoRows || e.Status == http.StatusNotFound
	}
	return false
}

// readError decodes an error response. PostgREST reports
// {"code": ..., "message": ...}, GoTrue either {"msg": ...} or
// {"error": ..., "error_description": ...}.
func readError(resp *http.Response) error {

	var e = &Error{
		Status:  resp.StatusCode,
		Message: resp.Status,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return e
	}

	var payload struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorCode        string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}

	if payload.Code != "" {
		e.Code = payload.Code
	} else if payload.ErrorCode != "" {
		e.Code = payload.ErrorCode
	}

	switch {
	case payload.Message != "":
		e.Message = payload.Message
	case payload.Msg != "":
		e.Message = payload.Msg
	case payload.ErrorDescription != "":
		e.Message = payload.ErrorDescription
	}

	return e
}
