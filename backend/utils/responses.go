package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Notice is a user visible notification, the server side equivalent of a toast.
type Notice struct {
	Level   string `json:"level"` // info, success, error
	Message string `json:"message"`
}

// SuccessResponse структура для успешных ответов
type SuccessResponse struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message,omitempty"`
	Data          interface{} `json:"data,omitempty"`
	Notifications []Notice    `json:"notifications,omitempty"`
}

// ErrorResponse структура для ошибок
type ErrorResponse struct {
	Success       bool        `json:"success"`
	Error         string      `json:"error"`
	Message       string      `json:"message,omitempty"`
	Details       interface{} `json:"details,omitempty"`
	Notifications []Notice    `json:"notifications,omitempty"`
}

const noticesKey = "notices"

// AddNotices queues notifications for whatever response the handler sends.
func AddNotices(c *fiber.Ctx, notices ...Notice) {
	if len(notices) == 0 {
		return
	}
	queued, _ := c.Locals(noticesKey).([]Notice)
	c.Locals(noticesKey, append(queued, notices...))
}

func takeNotices(c *fiber.Ctx) []Notice {
	queued, _ := c.Locals(noticesKey).([]Notice)
	c.Locals(noticesKey, nil)
	return queued
}

// Success создает успешный JSON ответ
func Success(c *fiber.Ctx, status int, data interface{}, message ...string) error {
	response := SuccessResponse{
		Success:       true,
		Data:          data,
		Notifications: takeNotices(c),
	}

	if len(message) > 0 {
		response.Message = message[0]
	}

	return c.Status(status).JSON(response)
}

// Error создает JSON ответ с ошибкой
func Error(c *fiber.Ctx, status int, err error, details ...interface{}) error {
	response := ErrorResponse{
		Success:       false,
		Error:         http.StatusText(status),
		Message:       err.Error(),
		Notifications: takeNotices(c),
	}

	if len(details) > 0 {
		response.Details = details[0]
	}

	return c.Status(status).JSON(response)
}

// ValidationError создает JSON ответ для ошибок валидации
func ValidationError(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Success:       false,
		Error:         "Validation Error",
		Message:       "Please fill in all required fields",
		Details:       errors,
		Notifications: takeNotices(c),
	})
}

// NotFound отправляет ответ 404 Not Found
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, fiber.NewError(fiber.StatusNotFound, message))
}

// BadRequest отправляет ответ 400 Bad Request
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, message))
}

// Unauthorized отправляет ответ 401 Unauthorized
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, fiber.NewError(fiber.StatusUnauthorized, message))
}

// Forbidden отправляет ответ 403 Forbidden
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, fiber.NewError(fiber.StatusForbidden, message))
}

// BadGateway is used when the learning backend failed or answered garbage.
func BadGateway(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadGateway, fiber.NewError(fiber.StatusBadGateway, message))
}
