package leaderboard

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, board *Board) {
	r.Get("/global", func(c *fiber.Ctx) error {
		entries, err := board.Top(c.Context(), GlobalScope, int64(c.QueryInt("limit", 10)))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(entries)
	})

	r.Get("/global/rank/:userID", func(c *fiber.Ctx) error {
		entry, err := board.Rank(c.Context(), GlobalScope, c.Params("userID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if entry.Rank < 0 {
			return fiber.NewError(fiber.StatusNotFound, "not ranked this week")
		}
		return c.JSON(entry)
	})

	r.Get("/clubs/:id", func(c *fiber.Ctx) error {
		entries, err := board.Top(c.Context(), ClubScope(c.Params("id")), int64(c.QueryInt("limit", 10)))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(entries)
	})

	r.Get("/clubs/:id/rank/:userID", func(c *fiber.Ctx) error {
		entry, err := board.Rank(c.Context(), ClubScope(c.Params("id")), c.Params("userID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if entry.Rank < 0 {
			return fiber.NewError(fiber.StatusNotFound, "not ranked this week")
		}
		return c.JSON(entry)
	})
}
