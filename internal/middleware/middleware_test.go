package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"burningbros/internal/apperror"
	"burningbros/internal/i18n"
	"burningbros/internal/middleware"
	"burningbros/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	tokens map[string]*models.AuthUser
}

func (v stubValidator) ValidateToken(token string) (*models.AuthUser, error) {
	if user, ok := v.tokens[token]; ok {
		return user, nil
	}
	return nil, apperror.New(apperror.CodeAuthenticationRequired).WithCause(errors.New("bad token"))
}

func testErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := apperror.From(err); ok {
		return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{"code": appErr.Code})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"code": apperror.CodeInternal})
}

func newAuthApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	validator := stubValidator{tokens: map[string]*models.AuthUser{
		"good-token": {ID: "user-1", Username: "alice"},
	}}
	app.Get("/me", middleware.AuthRequired(validator), func(c *fiber.Ctx) error {
		return c.JSON(middleware.CurrentUser(c))
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	app := newAuthApp()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"MissingHeader", "", fiber.StatusUnauthorized},
		{"WrongScheme", "Basic good-token", fiber.StatusUnauthorized},
		{"EmptyToken", "Bearer ", fiber.StatusUnauthorized},
		{"NoSeparator", "Bearergood-token", fiber.StatusUnauthorized},
		{"InvalidToken", "Bearer bad-token", fiber.StatusUnauthorized},
		{"Valid", "Bearer good-token", fiber.StatusOK},
		{"LowercaseScheme", "bearer good-token", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			if tt.status == fiber.StatusOK {
				var user models.AuthUser
				require.NoError(t, json.Unmarshal(body, &user))
				assert.Equal(t, "user-1", user.ID)
			} else {
				assert.Contains(t, string(body), string(apperror.CodeAuthenticationRequired))
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.Language())
	app.Get("/lang", func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentLanguage(c))
	})

	tests := map[string]string{
		"":                        i18n.LangEN,
		"vi":                      i18n.LangVI,
		"vi-VN,vi;q=0.9,en;q=0.8": i18n.LangVI,
		"en-US":                   i18n.LangEN,
		"fr":                      i18n.LangEN,
	}
	for header, want := range tests {
		req := httptest.NewRequest("GET", "/lang", nil)
		if header != "" {
			req.Header.Set("Accept-Language", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, want, string(body), "Accept-Language %q", header)
	}
}

func TestCurrentLanguage_DefaultsToEnglish(t *testing.T) {
	app := fiber.New()
	app.Get("/lang", func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentLanguage(c))
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/lang", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, i18n.LangEN, string(body))
}

func newLoggedApp(buf *bytes.Buffer) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	app.Use(middleware.RequestLogger(logger))
	app.Post("/auth/login", func(c *fiber.Ctx) error {
		return apperror.New(apperror.CodeIncorrectPassword)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database exploded")
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequestLogger_MasksPasswords(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"alice","password":"hunter22"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	logs := buf.String()
	assert.NotContains(t, logs, "hunter22")
	assert.Contains(t, logs, `\"password\":\"***\"`)
	assert.Contains(t, logs, "Client error response")
}

func TestRequestLogger_StatusLevels(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, buf.String(), "Server error response")
	assert.Contains(t, buf.String(), "database exploded")

	buf.Reset()
	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), "Request completed")
}
