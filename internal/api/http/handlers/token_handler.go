package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/api/dto"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/auth"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/service"
	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

// TokenHandler exposes token issuance and introspection.
type TokenHandler struct {
	tokens *service.TokenService
}

// NewTokenHandler constructs handler.
func NewTokenHandler(tokens *service.TokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// Issue handles POST /auth/token.
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidRequest("clientId and clientSecret must be strings", nil)
	}

	issued, err := h.tokens.Issue(c.UserContext(), req.ClientID, req.ClientSecret)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(dto.TokenResponse{
		AccessToken: issued.Token,
		TokenType:   issued.TokenType,
		ExpiresIn:   issued.ExpiresIn,
	})
}

// Introspect handles GET /auth/token.
func (h *TokenHandler) Introspect(c *fiber.Ctx) error {
	token, err := auth.ExtractToken(c)
	if err != nil {
		return err
	}

	clientID, err := h.tokens.Introspect(c.UserContext(), token)
	if err != nil {
		return err
	}
	return c.JSON(dto.IntrospectResponse{Success: true, ClientID: clientID})
}
