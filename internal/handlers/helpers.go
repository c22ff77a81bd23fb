package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/services"
)

// FieldError describes one binding rule a request field failed.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// respondBindError reports a ShouldBindJSON failure. Validation failures
// list the offending fields; malformed JSON gets a bare message.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	details := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		details[i] = FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		}
	}
	apierrors.BadRequestWithDetails(c, "Invalid request body", details)
}

// respondStoreError maps a failed store mutation to a response.
func respondStoreError(c *gin.Context, action string, err error) {
	slog.Error("store mutation failed", slog.String("action", action), slog.String("error", err.Error()))
	notify(c, NotificationError, "Failed to "+action)
	if errors.Is(err, services.ErrPersist) {
		apierrors.ServiceUnavailable(c, "Failed to "+action)
		return
	}
	apierrors.InternalError(c, "Failed to "+action)
}
