package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodyBytes caps every decoded request body.
const MaxBodyBytes = 1_048_576

// fallbackBody is written when an envelope cannot be encoded.
const fallbackBody = `{"success":false,"error":"Internal server error","code":"INTERNAL_ERROR"}`

// WriteJSONResponse writes status and data as JSON. A 204 carries no body.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	js, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response envelope",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, fallbackBody)
		return
	}

	w.WriteHeader(status)
	if _, err = w.Write(js); err != nil {
		// status already sent
		slog.WarnContext(r.Context(), "Client went away before the response body was written",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// DecodeJSONBody decodes exactly one JSON value from the request body into dst.
// Numbers are kept as json.Number so validation sees them unrounded. The returned
// error text is safe to show to the client.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var tooLarge *http.MaxBytesError

		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		case errors.As(err, &syntaxErr):
			return fmt.Errorf("request body is not valid JSON (offset %d)", syntaxErr.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("request body is not valid JSON (truncated)")
		case errors.As(err, &typeErr):
			if typeErr.Field != "" {
				return fmt.Errorf("field %q cannot hold a JSON %s", typeErr.Field, typeErr.Value)
			}
			return fmt.Errorf("request body must be a JSON object, not %s", typeErr.Value)
		case errors.As(err, &tooLarge):
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		default:
			return fmt.Errorf("request body could not be decoded: %w", err)
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must hold a single JSON value")
	}
	return nil
}
