package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/backend/access"
	"storefront/backend/authoring"
	"storefront/backend/session"
	"storefront/backend/upstream"
	"storefront/backend/utils"
)

// notify puts a notice on the current response only.
func notify(c *fiber.Ctx, level, message string) {
	utils.AddNotices(c, utils.Notice{Level: level, Message: message})
}

// respond sends data along with the notices the session queued.
func respond(c *fiber.Ctx, s *session.Store, status int, data interface{}, message ...string) error {
	if s != nil {
		utils.AddNotices(c, s.DrainNotices()...)
	}
	return utils.Success(c, status, data, message...)
}

func notFound(c *fiber.Ctx, s *session.Store, message string) error {
	if s != nil {
		utils.AddNotices(c, s.DrainNotices()...)
	}
	return utils.NotFound(c, message)
}

// respondError maps err to a status and sends it along with queued notices.
func respondError(c *fiber.Ctx, s *session.Store, err error) error {
	if s != nil {
		utils.AddNotices(c, s.DrainNotices()...)
	}

	var verr *authoring.ValidationError
	switch {
	case errors.As(err, &verr):
		return utils.ValidationError(c, verr.Fields)
	case errors.Is(err, access.ErrNotSignedIn):
		return utils.Unauthorized(c, err.Error())
	case errors.Is(err, access.ErrNotEnrolled):
		return utils.Forbidden(c, err.Error())
	case errors.Is(err, access.ErrAlreadyEnrolled):
		return utils.Error(c, fiber.StatusConflict, err)
	case errors.Is(err, access.ErrInvalidRating),
		errors.Is(err, authoring.ErrChapterNotFound),
		errors.Is(err, authoring.ErrLectureNotFound):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, upstream.ErrUnauthorized):
		return utils.Unauthorized(c, upstream.UserMessage(err))
	case errors.Is(err, upstream.ErrApplication):
		return utils.BadRequest(c, upstream.UserMessage(err))
	case errors.Is(err, upstream.ErrTransport),
		errors.Is(err, upstream.ErrMalformed),
		errors.Is(err, session.ErrNoPaymentSession):
		return utils.BadGateway(c, upstream.UserMessage(err))
	}
	return utils.Error(c, fiber.StatusInternalServerError, err)
}
