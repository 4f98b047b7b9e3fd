package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error  string                 `json:"error"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

// baseHandler carries behaviour shared by all handlers.
type baseHandler struct {
	isProduction bool
}

// respondError maps an error kind to its HTTP status. Unexpected errors keep
// their detail out of the response body in production.
func (h baseHandler) respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Request failed validation", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "Validation failed", Fields: apperrors.FieldErrors(err)})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Request conflicts with current state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, errorResponse{Error: conflictMessage(err)})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, errorResponse{Error: "Resource not found"})
	case errors.Is(err, apperrors.ErrStorage):
		logger.Error("Attachment storage failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, errorResponse{Error: h.detail(err, "Attachment storage unavailable")})
	case errors.Is(err, apperrors.ErrIntegrity):
		logger.Error("Integrity failure", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: h.detail(err, fallback)})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: h.detail(err, fallback)})
	}
}

// respondBindError answers a failed ShouldBind*: validator failures become 422 with
// per-field messages, anything else (malformed JSON, bad types) is a 400.
func (h baseHandler) respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		h.respondError(c, translateValidation(verrs), "Invalid request")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request format: " + err.Error()})
}

func (h baseHandler) detail(err error, fallback string) string {
	if h.isProduction {
		return fallback
	}
	return fallback + ": " + err.Error()
}

func conflictMessage(err error) string {
	var ce *apperrors.ConflictError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return "Conflict"
}

// translateValidation converts validator output into the API's field error shape.
func translateValidation(verrs validator.ValidationErrors) *apperrors.ValidationError {
	ve := &apperrors.ValidationError{}
	for _, fe := range verrs {
		ve.Add(fieldPath(fe), validationMessage(fe))
	}
	return ve
}

// fieldPath drops the top-level struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "failed the " + fe.Tag() + " check"
	}
}

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validator report json/form names instead of Go field names.
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// bindJSONPayload decodes a JSON document carried outside the request body
// (the multipart "payload" field) and runs the same validation as ShouldBindJSON.
func bindJSONPayload(raw string, obj any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

// requireActor returns the authenticated actor or answers 401.
func (h baseHandler) requireActor(c *gin.Context) (string, bool) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return "", false
	}
	return actorID, true
}
