package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

// fieldError mirrors one entry of a 422 "detail" list.
type fieldError struct {
	Type string `json:"type"`
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
}

type validationError struct {
	details []fieldError
}

func (e *validationError) Error() string {
	if len(e.details) == 0 {
		return "invalid request body"
	}
	return e.details[0].Msg
}

func invalid(typ, msg string, loc ...any) *validationError {
	return &validationError{details: []fieldError{{
		Type: typ,
		Loc:  append([]any{"body"}, loc...),
		Msg:  msg,
	}}}
}

var errBodyTooLarge = errors.New("request body too large")

// decodeString reads a JSON object body and returns the named string field.
// Other fields are ignored. Strings are not coerced from other JSON types.
func decodeString(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", errBodyTooLarge
		}
		return "", err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return "", invalid("missing", "Field required")
	}
	if !json.Valid(body) {
		return "", invalid("json_invalid", "JSON decode error")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", invalid("model_attributes_type", "Input should be a valid dictionary or object to extract fields from")
	}
	raw, ok := obj[field]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return "", invalid("missing", "Field required", field)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", invalid("string_type", "Input should be a valid string", field)
	}
	return s, nil
}
