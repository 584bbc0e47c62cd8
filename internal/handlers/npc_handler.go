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

// NpcHandler handles HTTP requests for NPC management.
type NpcHandler struct {
	npcService *services.NpcService
	validate   *validator.Validate
}

// NewNpcHandler creates a new NpcHandler.
func NewNpcHandler(npcService *services.NpcService) *NpcHandler {
	return &NpcHandler{
		npcService: npcService,
		validate:   validator.New(),
	}
}

// RegisterRoutes registers the NPC routes. The router is expected to be
// wrapped in the authentication middleware already.
func (h *NpcHandler) RegisterRoutes(router fiber.Router) {
	npcRoutes := router.Group("/npcs")
	npcRoutes.Post("/", h.HandleCreate)
	npcRoutes.Get("/", h.HandleList)
	npcRoutes.Get("/:id", h.HandleGet)
	npcRoutes.Delete("/:id", h.HandleDelete)
}

// NpcRequest is the request body for creating an NPC.
type NpcRequest struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Race  string          `json:"race" validate:"required,max=100"`
	Class *string         `json:"class"`
	Data  json.RawMessage `json:"data" validate:"required"`
}

// HandleCreate creates an NPC owned by the current user.
func (h *NpcHandler) HandleCreate(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req NpcRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation(map[string]string{"body": "Invalid request body"})
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	npc := &models.Npc{
		Name:   req.Name,
		Race:   req.Race,
		Class:  req.Class,
		Data:   datatypes.JSON(req.Data),
		UserID: user.ID,
	}
	if err := h.npcService.Create(c.UserContext(), npc); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(npc)
}

// HandleList returns all NPCs owned by the current user.
func (h *NpcHandler) HandleList(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	npcs, err := h.npcService.List(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(npcs)
}

// HandleGet returns one NPC owned by the current user.
func (h *NpcHandler) HandleGet(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	npc, err := h.npcService.Get(c.UserContext(), c.Params("id"), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(npc)
}

// HandleDelete deletes one NPC owned by the current user.
func (h *NpcHandler) HandleDelete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	if err := h.npcService.Delete(c.UserContext(), c.Params("id"), user.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "NPC deleted successfully"})
}
