package handlers

import (
	"encoding/json"

	"dungeondesk/internal/apperrors"
	"dungeondesk/internal/middleware"
	"dungeondesk/internal/models"
	"dungeondesk/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CharacterHandler handles HTTP requests for player character management.
type CharacterHandler struct {
	characterService *services.CharacterService
	validate         *validator.Validate
}

// NewCharacterHandler creates a new CharacterHandler.
func NewCharacterHandler(characterService *services.CharacterService) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
		validate:         validator.New(),
	}
}

// RegisterRoutes registers the character routes. The router is expected to
// be wrapped in the authentication middleware already.
func (h *CharacterHandler) RegisterRoutes(router fiber.Router) {
	characterRoutes := router.Group("/characters")
	characterRoutes.Post("/", h.HandleCreate)
	characterRoutes.Get("/", h.HandleList)
	characterRoutes.Get("/:id", h.HandleGet)
	characterRoutes.Put("/:id", h.HandleUpdate)
	characterRoutes.Delete("/:id", h.HandleDelete)
}

// CharacterRequest is the request body for creating or updating a character.
type CharacterRequest struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Race  string          `json:"race" validate:"required,max=100"`
	Class *string         `json:"class"`
	Level int             `json:"level" validate:"omitempty,min=1"`
	Data  json.RawMessage `json:"data" validate:"required"`
}

// HandleCreate creates a character owned by the current user.
func (h *CharacterHandler) HandleCreate(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req CharacterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation(map[string]string{"body": "Invalid request body"})
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	character := &models.Character{
		Name:   req.Name,
		Race:   req.Race,
		Class:  req.Class,
		Level:  req.Level,
		Data:   datatypes.JSON(req.Data),
		UserID: user.ID,
	}
	if err := h.characterService.Create(c.UserContext(), character); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(character)
}

// HandleList returns all characters owned by the current user.
func (h *CharacterHandler) HandleList(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	characters, err := h.characterService.List(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(characters)
}

// HandleGet returns one character owned by the current user.
func (h *CharacterHandler) HandleGet(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	character, err := h.characterService.Get(c.UserContext(), c.Params("id"), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(character)
}

// HandleUpdate overwrites one character owned by the current user.
func (h *CharacterHandler) HandleUpdate(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req CharacterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation(map[string]string{"body": "Invalid request body"})
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	character := &models.Character{
		ID:     c.Params("id"),
		Name:   req.Name,
		Race:   req.Race,
		Class:  req.Class,
		Level:  req.Level,
		Data:   datatypes.JSON(req.Data),
		UserID: user.ID,
	}
	updated, err := h.characterService.Update(c.UserContext(), character)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// HandleDelete deletes one character owned by the current user.
func (h *CharacterHandler) HandleDelete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	if err := h.characterService.Delete(c.UserContext(), c.Params("id"), user.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Character deleted successfully"})
}
