package handler

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"taskify/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges a mutation that returns no entity.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const msgInternal = "Internal server error"

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their json tag.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// respondStoreFailure logs the detail server side and hides it from the caller.
func respondStoreFailure(c *gin.Context, op string, err error) {
	logging.FromContext(c.Request.Context()).Error("store operation failed",
		logging.KeyOperation, op,
		logging.KeyError, err,
	)
	respondError(c, http.StatusInternalServerError, msgInternal)
}

// isMissingInput reports whether a bind error means a required field (or the
// whole body) was absent, as opposed to malformed input.
func isMissingInput(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() != "required" {
				return false
			}
		}
		return true
	}
	return false
}

// bindErrorMessage turns a bind error into a caller-facing message.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fe.Field() + " is required"
		}
		return "Invalid value for " + fe.Field()
	}
	return "Invalid request body"
}
