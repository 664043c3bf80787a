package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/jobs"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/lifecycle"
)

type JobHandler struct {
	Jobs      *jobs.Service
	Lifecycle *lifecycle.Service
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var req jobs.Attrs
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	job, err := h.Jobs.Create(c.UserContext(), middleware.Identity(c), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Job created", job)
}

// List accepts ?budget=<max>&skills=a,b&date=<posted after>.
func (h *JobHandler) List(c *fiber.Ctx) error {
	f, err := jobs.ParseFilter(c.Query("budget"), c.Query("skills"), c.Query("date"))
	if err != nil {
		return fail(c, err)
	}
	list, err := h.Jobs.List(c.UserContext(), f)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", list)
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	job, err := h.Jobs.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Job found", job)
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req jobs.Attrs
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	job, err := h.Jobs.Update(c.UserContext(), middleware.Identity(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Job updated", job)
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.Jobs.Delete(c.UserContext(), middleware.Identity(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Job deleted", nil)
}

func (h *JobHandler) Complete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	res, err := h.Lifecycle.CompleteJob(c.UserContext(), middleware.Identity(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Job completed", res.Job)
}

// Mine lists the caller's own jobs with a total.
func (h *JobHandler) Mine(c *fiber.Ctx) error {
	list, total, err := h.Jobs.ListByOwner(c.UserContext(), middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"jobs": list, "total": total})
}

func (h *JobHandler) ClientSummary(c *fiber.Ctx) error {
	id, err := paramUUID(c, "clientId")
	if err != nil {
		return fail(c, err)
	}
	sum, err := h.Jobs.ClientSummary(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", sum)
}
