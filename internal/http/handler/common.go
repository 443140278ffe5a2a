package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/krasavchik01/rbbb-sub002/internal/bonus"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/methodology"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"github.com/krasavchik01/rbbb-sub002/internal/workflow"
	"go.uber.org/zap"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fields,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	default:
		return domain.ErrorTypeInternal
	}
}

// decodeRequest decodes and validates a JSON body. An empty body decodes as
// the zero request. It writes the error response and returns false when the
// body is unusable.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// pathID reads an id path parameter. It writes a 400 and returns false when
// the id is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if !domain.ValidID(id) {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
		return "", false
	}
	return id, true
}

// errorStatus classifies service, workflow and methodology errors
var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrUserContextRequired, http.StatusUnauthorized},

	{service.ErrPermissionDenied, http.StatusForbidden},
	{service.ErrNotificationNotOwned, http.StatusForbidden},
	{workflow.ErrForbidden, http.StatusForbidden},
	{workflow.ErrNotAssignedLead, http.StatusForbidden},
	{workflow.ErrNotTeamMember, http.StatusForbidden},
	{methodology.ErrNotResponsible, http.StatusForbidden},

	{service.ErrProjectNotFound, http.StatusNotFound},
	{service.ErrTaskNotFound, http.StatusNotFound},
	{service.ErrEmployeeNotFound, http.StatusNotFound},
	{service.ErrTemplateNotFound, http.StatusNotFound},
	{service.ErrFileNotFound, http.StatusNotFound},
	{service.ErrChecklistItemNotFound, http.StatusNotFound},
	{service.ErrNotificationNotFound, http.StatusNotFound},
	{service.ErrTimesheetNotFound, http.StatusNotFound},
	{service.ErrCompanyNotFound, http.StatusNotFound},
	{service.ErrNoMethodology, http.StatusNotFound},
	{methodology.ErrUnknownElement, http.StatusNotFound},

	{service.ErrConflict, http.StatusConflict},
	{service.ErrMethodologyIncomplete, http.StatusConflict},
	{service.ErrProjectNotActive, http.StatusConflict},
	{service.ErrDailyHoursExceeded, http.StatusConflict},
	{service.ErrCompanyCycle, http.StatusConflict},
	{workflow.ErrInvalidTransition, http.StatusConflict},
	{workflow.ErrEvaluationLocked, http.StatusConflict},
	{workflow.ErrChecklistIncomplete, http.StatusConflict},
	{workflow.ErrBlockedToDone, http.StatusConflict},

	{service.ErrInvalidInput, http.StatusBadRequest},
	{workflow.ErrLeadershipMissing, http.StatusBadRequest},
	{workflow.ErrSelfEvaluation, http.StatusBadRequest},
	{workflow.ErrInvalidRating, http.StatusBadRequest},
	{workflow.ErrInvalidTaskStatus, http.StatusBadRequest},
	{workflow.ErrUnknownAction, http.StatusBadRequest},
	{methodology.ErrInvalidPassport, http.StatusBadRequest},
	{methodology.ErrInvalidTemplate, http.StatusBadRequest},
	{methodology.ErrNotCountable, http.StatusBadRequest},
	{methodology.ErrNotOnTeam, http.StatusBadRequest},
	{bonus.ErrSharesExceed, http.StatusBadRequest},
	{bonus.ErrPercentRange, http.StatusBadRequest},
	{bonus.ErrNegativeInput, http.StatusBadRequest},
}

// statusFor returns the HTTP status for err, 500 when unclassified
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondServiceError maps err to an API error. Unclassified errors are
// logged and their detail is hidden.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("failed to "+action, zap.Error(err))
		respondWithError(w, status, "Failed to "+action)
		return
	}
	respondWithError(w, status, err.Error())
}
