package handlers

import (
	"errors"
	"time"

	"burningbros/internal/apperror"
	"burningbros/internal/i18n"
	"burningbros/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const fallbackMessage = "Some thing went wrong!"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Status    int                   `json:"status"`
	Timestamp string                `json:"timestamp"`
	Path      string                `json:"path"`
	Code      string                `json:"code"`
	Message   string                `json:"message"`
	Errors    []apperror.FieldError `json:"errors,omitempty"`
}

// ErrorHandler converts errors returned by handlers into localized JSON error
// bodies. Details of unexpected failures are logged, never returned.
func ErrorHandler(logger *logrus.Logger, translator *i18n.Translator) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := toAppError(err)
		status := appErr.HTTPStatus()

		entry := logger.WithFields(logrus.Fields{
			"code":   appErr.Code,
			"path":   c.Path(),
			"method": c.Method(),
		})
		if status >= fiber.StatusInternalServerError {
			entry.WithError(err).Error("Request failed")
		} else if appErr.Cause != nil {
			entry.WithError(appErr.Cause).Debug("Request rejected")
		}

		return c.Status(status).JSON(ErrorResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Path:      c.OriginalURL(),
			Code:      string(appErr.Code),
			Message:   message(translator, middleware.CurrentLanguage(c), appErr),
			Errors:    appErr.Fields,
		})
	}
}

func toAppError(err error) *apperror.AppError {
	if appErr, ok := apperror.From(err); ok {
		return appErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusNotFound {
			return apperror.New(apperror.CodeNotFound).WithCause(err)
		}
		if fiberErr.Code < fiber.StatusInternalServerError {
			return apperror.New(apperror.CodeUnknown).WithStatus(fiberErr.Code).WithMessage("%s", fiberErr.Message)
		}
	}
	return apperror.Internal(err)
}

// message picks the explicit message, then the localized message for the
// code, then the localized generic message.
func message(translator *i18n.Translator, lang string, appErr *apperror.AppError) string {
	if appErr.Message != "" {
		return appErr.Message
	}
	if translator != nil {
		if msg, ok := translator.Error(lang, string(appErr.Code)); ok {
			return msg
		}
		if msg, ok := translator.Error(lang, string(apperror.CodeUnknown)); ok {
			return msg
		}
	}
	return fallbackMessage
}
