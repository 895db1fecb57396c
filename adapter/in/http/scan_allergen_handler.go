package http

import (
	"scan_server/core/port/in"
	"scan_server/core/service/allergen"
	"scan_server/pkg/logger"
	"scan_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AllergenHandler handles allergen profile API requests
type AllergenHandler struct {
	allergen in.AllergenUseCase
	scan     in.ScanUseCase
}

// NewAllergenHandler creates a new AllergenHandler
func NewAllergenHandler(allergenUC in.AllergenUseCase, scanUC in.ScanUseCase) *AllergenHandler {
	return &AllergenHandler{allergen: allergenUC, scan: scanUC}
}

// GetCatalog returns the allergen catalog available to the caller's tier
// GET /api/v1/allergen/catalog
func (h *AllergenHandler) GetCatalog(c *fiber.Ctx) error {
	if _, err := GetUserID(c); err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	return response.OK(c, allergen.CatalogForTier(GetTier(c)))
}

// ListProfiles returns the user's allergen profiles
// GET /api/v1/allergen/profiles
func (h *AllergenHandler) ListProfiles(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}

	profiles, err := h.allergen.ListProfiles(c.Context(), userID)
	if err != nil {
		logger.WithError(err).Error("[AllergenHandler] Failed to list profiles")
		return HandleError(c, err)
	}
	return response.OK(c, profiles)
}

// ProfileRequest represents the create/update request body
type ProfileRequest struct {
	Name      string   `json:"name"`
	Allergens []string `json:"allergens"`
}

// CreateProfile adds a family-member profile
// POST /api/v1/allergen/profiles
func (h *AllergenHandler) CreateProfile(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	profile, err := h.allergen.CreateProfile(c.Context(), userID, GetTier(c), req.Name, req.Allergens)
	if err != nil {
		return HandleError(c, err)
	}
	return response.Created(c, profile)
}

// UpdateProfile renames a profile or replaces its allergen set
// PUT /api/v1/allergen/profiles/:id
func (h *AllergenHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	profile, err := h.allergen.UpdateProfile(c.Context(), userID, c.Params("id"), req.Name, req.Allergens)
	if err != nil {
		return HandleError(c, err)
	}
	return response.OK(c, profile)
}

// DeleteProfile removes a family-member profile
// DELETE /api/v1/allergen/profiles/:id
func (h *AllergenHandler) DeleteProfile(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}

	if err := h.allergen.DeleteProfile(c.Context(), userID, c.Params("id")); err != nil {
		return HandleError(c, err)
	}
	return response.NoContent(c)
}

// DetectForBarcode resolves a barcode and returns only the allergen view
// GET /api/v1/scan/:barcode/allergens
func (h *AllergenHandler) DetectForBarcode(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}

	barcode := c.Params("barcode")
	result, err := h.scan.Scan(c.Context(), userID, GetTier(c), barcode)
	if err != nil {
		return HandleError(c, err)
	}

	return response.OK(c, fiber.Map{
		"barcode":           result.Barcode,
		"allergens":         result.Allergens,
		"safe_for_everyone": len(result.Allergens) == 0,
	})
}
