// Package controller holds the request/response plumbing shared by every
// HTTP controller: binding, id parsing and error rendering.
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/service"
	"github.com/rs/zerolog/log"
)

var registerOnce sync.Once

// RegisterValidation makes validator report fields by their JSON names.
func RegisterValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// BindJSON decodes and validates the body into req. On failure it writes a
// 400 with per-field messages and returns false.
func BindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	log.Debug().Err(err).Str("path", c.FullPath()).Msg("Request body rejected")
	c.AbortWithStatusJSON(http.StatusBadRequest, bindError(err))
	return false
}

// BindOptionalJSON is BindJSON for endpoints whose body may be empty.
func BindOptionalJSON(c *gin.Context, req interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, bindError(err))
	return false
}

func bindError(err error) dto.ErrorResponse {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fieldMessage(fe)
		}
		return dto.ErrorResponse{Detail: "Invalid input.", Errors: fields}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return dto.ErrorResponse{
			Detail: "Invalid input.",
			Errors: map[string]string{typeErr.Field: fmt.Sprintf("Expected a value of type %s.", typeErr.Type)},
		}
	}
	if errors.Is(err, io.EOF) {
		return dto.ErrorResponse{Detail: "Request body is required."}
	}
	return dto.ErrorResponse{Detail: "Malformed JSON request body."}
}

// fieldPath drops the root struct name from the validator namespace, so
// CreateQuizRequest.questions[0].qtype becomes questions[0].qtype. Embedded
// structs add their Go type name, which is dropped too.
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	out := parts[:0]
	for _, p := range parts {
		if p == "QuestionInput" || p == "ChoiceInput" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}

// ParseID reads a positive integer path parameter, writing a 404 when it is
// not one.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Detail: "Not found."})
		return 0, false
	}
	return uint(id), true
}

// ParseOptionalQueryID reads an optional integer query parameter.
func ParseOptionalQueryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Detail: "Invalid query parameter.",
			Errors: map[string]string{name: "A valid integer is required."},
		})
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// RespondError renders a service error. Client errors keep their message;
// anything else is logged and hidden behind a 500.
func RespondError(c *gin.Context, err error) {
	svcErr, ok := service.AsError(err)
	if !ok {
		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("Unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: "Internal server error."})
		return
	}
	c.AbortWithStatusJSON(statusFor(svcErr.Kind), dto.ErrorResponse{Detail: svcErr.Message, Errors: svcErr.Fields})
}

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
