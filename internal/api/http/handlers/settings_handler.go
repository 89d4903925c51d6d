package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// SettingsHandler manages configuration endpoints.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: settingsService}
}

// GetGeneral GET /settings/general.
func (h *SettingsHandler) GetGeneral(c *fiber.Ctx) error {
	settings, err := h.service.GetGeneral(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// UpdateGeneral PUT /settings/general.
func (h *SettingsHandler) UpdateGeneral(c *fiber.Ctx) error {
	var req domain.GeneralSettings
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	settings, err := h.service.UpdateGeneral(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// GetEmail GET /settings/email.
func (h *SettingsHandler) GetEmail(c *fiber.Ctx) error {
	settings, err := h.service.GetEmail(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// UpdateEmail PUT /settings/email.
func (h *SettingsHandler) UpdateEmail(c *fiber.Ctx) error {
	var req domain.EmailSettings
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	settings, err := h.service.UpdateEmail(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settings})
}

// ListSLAConfig GET /sla-config.
func (h *SettingsHandler) ListSLAConfig(c *fiber.Ctx) error {
	configs, err := h.service.ListSLAConfig(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SLAConfigResponse, 0, len(configs))
	for i := range configs {
		items = append(items, slaConfigResponse(&configs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateSLAConfig PUT /sla-config/:id.
func (h *SettingsHandler) UpdateSLAConfig(c *fiber.Ctx) error {
	var req dto.SLAConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	cfg, err := h.service.UpdateSLAConfig(c.UserContext(), c.Params("id"), req.ResponseHours, req.ResolutionHours)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": slaConfigResponse(cfg)})
}

func slaConfigResponse(cfg *domain.SLAConfig) dto.SLAConfigResponse {
	return dto.SLAConfigResponse{
		ID:              cfg.ID,
		Priority:        cfg.Priority,
		ResponseHours:   cfg.ResponseHours,
		ResolutionHours: cfg.ResolutionHours,
		UpdatedAt:       cfg.UpdatedAt,
	}
}
