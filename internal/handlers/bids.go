package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/bids"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/lifecycle"
)

type BidHandler struct {
	Bids      *bids.Service
	Lifecycle *lifecycle.Service
}

func (h *BidHandler) Place(c *fiber.Ctx) error {
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return fail(c, err)
	}
	var req bids.PlaceInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	bid, err := h.Bids.Place(c.UserContext(), middleware.Identity(c), jobID, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Bid placed", bid)
}

func (h *BidHandler) ListForJob(c *fiber.Ctx) error {
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return fail(c, err)
	}
	list, err := h.Bids.ListForJob(c.UserContext(), middleware.Identity(c), jobID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", list)
}

func (h *BidHandler) ListForClient(c *fiber.Ctx) error {
	list, err := h.Bids.ListForClient(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", list)
}

func (h *BidHandler) Mine(c *fiber.Ctx) error {
	list, err := h.Bids.ListMine(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", list)
}

func (h *BidHandler) Accept(c *fiber.Ctx) error {
	id, err := paramUUID(c, "bidId")
	if err != nil {
		return fail(c, err)
	}
	res, err := h.Lifecycle.AcceptBid(c.UserContext(), middleware.Identity(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Bid accepted", res)
}

func (h *BidHandler) Reject(c *fiber.Ctx) error {
	id, err := paramUUID(c, "bidId")
	if err != nil {
		return fail(c, err)
	}
	res, err := h.Lifecycle.RejectBid(c.UserContext(), middleware.Identity(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Bid rejected", res)
}
