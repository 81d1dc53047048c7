// handlers/eco_routes.go
package handlers

import (
	"errors"
	"log"
	"strings"

	"ecopulse/middleware"
	"ecopulse/models"
	"ecopulse/services"

	"github.com/gofiber/fiber/v2"
)

type registerProfileRequest struct {
	ExternalUserID string `json:"external_user_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
}

func SetupEcoRoutes(app *fiber.App, ecoService *services.EcoService) {
	eco := app.Group("/eco", middleware.UserContextMiddleware())

	eco.Post("/activity", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var in models.ActivityInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		res, err := ecoService.LogActivity(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":          "Activity logged successfully",
			"ecoStats":         res.EcoStats,
			"recentActivities": res.RecentActivities,
			"badges":           res.Badges,
			"newBadges":        res.NewBadges,
		})
	})

	eco.Get("/dashboard", middleware.RequireUser(), func(c *fiber.Ctx) error {
		dash, err := ecoService.GetDashboard(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dash)
	})

	eco.Put("/challenge", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var upd models.ChallengeUpdate
		if err := c.BodyParser(&upd); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		challenge, err := ecoService.UpdateChallenge(c.UserContext(), middleware.UserID(c), upd)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":          "Challenge updated",
			"currentChallenge": challenge,
		})
	})

	// anonymous viewers get the board with nobody flagged
	eco.Get("/leaderboard", func(c *fiber.Ctx) error {
		board, err := ecoService.GetLeaderboard(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(board)
	})

	// service-to-service registration hook
	eco.Post("/profiles", func(c *fiber.Ctx) error {
		var req registerProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}
		// a signed-in caller may only register itself
		if uid := middleware.UserID(c); uid != "" {
			if req.ExternalUserID != "" && strings.TrimSpace(req.ExternalUserID) != uid {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "external_user_id does not match X-User-ID",
				})
			}
			req.ExternalUserID = uid
		}
		if req.Name == "" {
			req.Name = middleware.UserName(c)
		}

		profile, err := ecoService.RegisterProfile(c.UserContext(), req.ExternalUserID, req.Name, req.Email)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(profile)
	})
}

// respondError maps service sentinels to HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidActivity), errors.Is(err, services.ErrInvalidProfile):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrVersionConflict):
		status = fiber.StatusConflict
	default:
		log.Printf("❌ [ECO] %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
