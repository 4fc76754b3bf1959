package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/jobdeck/server/internal/api/problem"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON decodes a request body strictly: unknown fields are an error,
// which is how PATCH bodies naming immutable fields get rejected.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func pathParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.PathValue(key))
}

// writeValidationProblem renders validator errors as a field->message map.
func writeValidationProblem(w http.ResponseWriter, r *http.Request, errs validator.ValidationErrors, env string) {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[snakeCase(fe.Field())] = validationMessage(fe)
	}
	problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", errs, env,
		problem.WithFieldErrors(fields))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "handle", "username":
		return "must be a lowercase slug (letters, digits, - and _)"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// badBodyProblem renders JSON decode failures, distinguishing oversized
// bodies cut off by http.MaxBytesReader.
func badBodyProblem(w http.ResponseWriter, r *http.Request, err error, env string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		problem.Write(w, r, http.StatusRequestEntityTooLarge, problem.TypeValidation, "Request body too large", err, env)
		return
	}
	problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request body", err, env)
}
