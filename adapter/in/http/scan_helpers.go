// Package http contains the fiber inbound adapter.
package http

import (
	"errors"

	"scan_server/core/domain"
	"scan_server/pkg/apperr"
	"scan_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

var ErrUnauthorized = errors.New("unauthorized")

// GetUserID safely extracts user_id from fiber context
// Returns error if not authenticated
func GetUserID(c *fiber.Ctx) (string, error) {
	userIDVal := c.Locals("user_id")
	if userIDVal == nil {
		return "", ErrUnauthorized
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", ErrUnauthorized
	}
	return userID, nil
}

// GetTier extracts the subscription tier claim, defaulting to free.
func GetTier(c *fiber.Ctx) domain.Tier {
	tierVal := c.Locals("tier")
	if tierVal == nil {
		return domain.TierFree
	}
	switch t := tierVal.(type) {
	case domain.Tier:
		return t
	case string:
		switch domain.Tier(t) {
		case domain.TierPlus:
			return domain.TierPlus
		case domain.TierPro:
			return domain.TierPro
		}
	}
	return domain.TierFree
}

// HandleError maps any error onto the standard response envelope. AppErrors
// keep their code and status, everything else becomes a 500.
func HandleError(c *fiber.Ctx, err error) error {
	appErr := apperr.AsAppError(err)
	return response.Error(c, appErr.Status, appErr.Code, appErr.Message)
}
