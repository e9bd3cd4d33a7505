package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/showme/internal/utils"
)

// ShareToken verifies the :token route param (or ?token=) and stores the
// claims under the "share" local.
func ShareToken(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Params("token")
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		claims, err := utils.ParseShareToken(secret, tokenStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("share", claims)
		return c.Next()
	}
}

// ShareClaims returns the claims stored by ShareToken.
func ShareClaims(c *fiber.Ctx) (*utils.ShareClaims, bool) {
	claims, ok := c.Locals("share").(*utils.ShareClaims)
	return claims, ok && claims != nil
}
