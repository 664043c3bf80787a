package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/messages"
)

type MessageHandler struct {
	Messages *messages.Service
}

type sendMessageReq struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req sendMessageReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	receiver, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return fail(c, apperr.Field("receiver_id", "Receiver is required"))
	}

	msg, err := h.Messages.Send(c.UserContext(), middleware.Identity(c), receiver, req.Content)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Message sent", msg)
}

func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	peer, err := paramUUID(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	list, err := h.Messages.Conversation(c.UserContext(), middleware.Identity(c), peer)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", list)
}
