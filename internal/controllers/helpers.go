package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/procurehub/procurement-service/internal/dtos"
	"github.com/procurehub/procurement-service/internal/middleware"
	"github.com/procurehub/procurement-service/internal/utils"
)

var validate = validator.New()

// decodeAndValidate unmarshals the request body into dst and runs struct
// validation. On failure it writes the 400 response itself and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed",
				formatValidationErrors(validationErrs),
			)
			return false
		}
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", nil, err,
		)
		return false
	}
	return true
}

// formatValidationErrors converts validator errors into a user-friendly format.
func formatValidationErrors(errs validator.ValidationErrors) []dtos.ValidationErrorDetail {
	var details []dtos.ValidationErrorDetail
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("Field '%s' must be at least %s in length", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s in length", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("Field '%s' must match the format %s", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		details = append(details, dtos.ValidationErrorDetail{
			Field:  err.Field(),
			Reason: message,
		})
	}
	return details
}

// getUserID pulls the authenticated user id the middleware stored in context.
func getUserID(r *http.Request) (uuid.UUID, error) {
	s, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeUnauthorized,
			Message:    "No userID in context",
		}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeUnauthorized,
			Message:    "Malformed userID in context",
			Err:        err,
		}
	}
	return id, nil
}

// pathUUID parses a mux path variable as a UUID, writing the 400 itself on
// failure.
func pathUUID(w http.ResponseWriter, vars map[string]string, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(vars[name])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			fmt.Sprintf("Invalid %s", name), nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}
