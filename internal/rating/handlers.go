package rating

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Put("/:id/rating/segments", authMiddleware, func(c *fiber.Ctx) error {
		var req RouteSegment
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if !req.Feeling.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown feeling")
		}
		rating, err := svc.Paint(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(rating)
	})

	r.Get("/:id/rating", func(c *fiber.Ctx) error {
		rating, err := svc.Get(c.Context(), c.Params("id"))
		if errors.Is(err, pgx.ErrNoRows) {
			return fiber.NewError(fiber.StatusNotFound, "rating not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(rating)
	})

	r.Delete("/:id/rating", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:id/rating/submission", func(c *fiber.Ctx) error {
		payload, err := svc.Submission(c.Context(), c.Params("id"))
		if errors.Is(err, pgx.ErrNoRows) {
			return fiber.NewError(fiber.StatusNotFound, "rating not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(payload)
	})

	r.Post("/:id/rating/synced", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			RemoteID string `json:"remote_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.RemoteID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "remote_id required")
		}
		if err := svc.MarkSynced(c.Context(), c.Params("id"), body.RemoteID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
