// Package guestbook serves a one-page guestbook stored in MySQL or PostgreSQL.
package guestbook

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/devops-workshop/demo-apps/pkg/lifecycle"
	"github.com/devops-workshop/demo-apps/pkg/logger"
	"github.com/devops-workshop/demo-apps/pkg/storage/sqlstore"
)

// ErrorMessage is the body sent when the database cannot be used.
const ErrorMessage = "Connection failed"

// ErrEmptyMessage is reported when an empty message is rejected.
var ErrEmptyMessage = errors.New("message is required")

// Book is a database handle holding guestbook messages.
type Book interface {
	lifecycle.Handle
	Add(ctx context.Context, text string) error
	List(ctx context.Context) ([]sqlstore.Message, error)
}

// Handler renders the guestbook and accepts new messages.
type Handler struct {
	provider    lifecycle.Provider[Book]
	rejectEmpty bool
}

// NewHandler creates a guestbook handler. With rejectEmpty a POST with a
// missing or blank message is answered with 400; otherwise a missing message
// only re-renders the page.
func NewHandler(provider lifecycle.Provider[Book], rejectEmpty bool) *Handler {
	return &Handler{
		provider:    provider,
		rejectEmpty: rejectEmpty,
	}
}

// Index renders every message, newest first.
func (h *Handler) Index(c *fiber.Ctx) error {
	return h.respond(c, "")
}

// Post stores the submitted message exactly as sent, when there is one, and
// renders the page. With rejectEmpty a blank message is refused instead.
func (h *Handler) Post(c *fiber.Ctx) error {
	// FormValue points into the request buffer, which fasthttp reuses.
	message := utils.CopyString(c.FormValue("message"))
	if h.rejectEmpty && strings.TrimSpace(message) == "" {
		return c.Status(fiber.StatusBadRequest).SendString(ErrEmptyMessage.Error())
	}
	return h.respond(c, message)
}

// respond adds message when non-empty and lists the book, both on one handle.
func (h *Handler) respond(c *fiber.Ctx, message string) error {
	messages, err := lifecycle.Use(c.UserContext(), h.provider, func(ctx context.Context, book Book) ([]sqlstore.Message, error) {
		if message != "" {
			if err := book.Add(ctx, message); err != nil {
				return nil, err
			}
		}
		return book.List(ctx)
	})
	if err != nil {
		logger.Errorf("Guestbook request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString(ErrorMessage)
	}

	var page bytes.Buffer
	if err := pageTemplate.Execute(&page, messages); err != nil {
		logger.Errorf("Failed to render guestbook: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString(ErrorMessage)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page.Bytes())
}
