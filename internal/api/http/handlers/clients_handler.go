package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/api/dto"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/service"
	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

// ClientsHandler exposes client registration for operators.
type ClientsHandler struct {
	credentials *service.CredentialService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(credentials *service.CredentialService) *ClientsHandler {
	return &ClientsHandler{credentials: credentials}
}

// Register handles POST /auth/clients.
func (h *ClientsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("invalid payload", nil)
	}

	client, err := h.credentials.Register(c.UserContext(), req.ClientID, req.ClientSecret)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.ClientResponse{
		ClientID:  client.ClientID,
		CreatedAt: client.CreatedAt,
	})
}
