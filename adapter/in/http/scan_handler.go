package http

import (
	"scan_server/core/port/in"
	"scan_server/pkg/logger"
	"scan_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ScanHandler handles barcode scan API requests
type ScanHandler struct {
	scan in.ScanUseCase
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(scan in.ScanUseCase) *ScanHandler {
	return &ScanHandler{scan: scan}
}

// Scan resolves a barcode and returns the scored, personalized result
// POST /api/v1/scan/:barcode
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return response.Unauthorized(c, "unauthorized")
	}
	tier := GetTier(c)

	barcode := c.Params("barcode")
	result, err := h.scan.Scan(c.Context(), userID, tier, barcode)
	if err != nil {
		logger.WithError(err).Warn("[ScanHandler] scan failed for barcode %s", barcode)
		return HandleError(c, err)
	}

	return response.OK(c, result)
}
