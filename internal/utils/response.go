package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"SMARTTRIP_BACK-END/internal/dto"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}

// WriteErrorResponse writes an ErrorResponse envelope
func WriteErrorResponse(w http.ResponseWriter, status int, errTitle, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errTitle, Message: message})
}

// DecodeJSONRequest decodes the body into dst. On failure it writes a 400
// and returns the error; callers just return.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		msg := err.Error()
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			msg = "request body must not be empty"
		case errors.As(err, &syntaxErr):
			msg = fmt.Sprintf("malformed JSON at position %d", syntaxErr.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			msg = "malformed JSON: body ended unexpectedly"
		case errors.As(err, &typeErr):
			msg = fmt.Sprintf("field %q has the wrong type", typeErr.Field)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			msg = "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
		}
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", msg)
		return err
	}
	return nil
}
