package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/FACorreiaa/flowdesk-api/internal/api"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

// DecodeAndValidate decodes a JSON object body, validates it against rs and, when valid,
// fills dst from the normalized input. Malformed bodies return an error wrapping
// types.ErrBadRequest; failed checks return an *Error.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, rs RuleSet, dst any) error {
	var input map[string]any
	if err := api.DecodeJSONBody(w, r, &input); err != nil {
		return fmt.Errorf("%w: %s", types.ErrBadRequest, err.Error())
	}
	if input == nil {
		return fmt.Errorf("%w: request body must be a JSON object", types.ErrBadRequest)
	}

	res := Validate(rs, input)
	if err := res.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(res.Normalized)
	if err != nil {
		return fmt.Errorf("%w: %s", types.ErrBadRequest, err.Error())
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s", types.ErrBadRequest, err.Error())
	}
	return nil
}

// Respond writes the envelope matching an error returned by this package.
func Respond(rs *api.Responder, w http.ResponseWriter, r *http.Request, err error) {
	var verr *Error
	switch {
	case errors.As(err, &verr):
		rs.ValidationError(w, r, "Validation failed", verr.Entries)
	case errors.Is(err, types.ErrBadRequest):
		rs.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		rs.InternalError(w, r, err, "Failed to process request")
	}
}
