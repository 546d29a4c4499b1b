package handlers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/dimitrije/passvault/internal/middleware"
	"github.com/dimitrije/passvault/internal/models"
	"github.com/dimitrije/passvault/internal/services"
	"github.com/dimitrije/passvault/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type VaultHandler struct {
	vaultService VaultServiceInterface
}

func NewVaultHandler(vaultService VaultServiceInterface) *VaultHandler {
	return &VaultHandler{vaultService: vaultService}
}

func (h *VaultHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	items, err := h.vaultService.List(context.Background(), userID)
	if err != nil {
		log.Printf("vault list error: %v", err)
		c.InternalServerError("failed to list vault items")
		return
	}

	response := make([]dto.VaultItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, itemResponse(&item))
	}

	_ = c.JSON(200, response)
}

func (h *VaultHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateVaultItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.IV == "" || req.Ciphertext == "" {
		c.BadRequest("title, iv and ciphertext are required")
		return
	}

	item, err := h.vaultService.Create(context.Background(), userID, req.Title, req.IV, req.Ciphertext)
	if err != nil {
		log.Printf("vault create error: %v", err)
		c.InternalServerError("failed to create vault item")
		return
	}

	_ = c.JSON(201, itemResponse(item))
}

func (h *VaultHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.NotFound("vault item not found")
		return
	}

	item, err := h.vaultService.GetByID(context.Background(), itemID, userID)
	if err != nil {
		c.NotFound("vault item not found")
		return
	}

	_ = c.JSON(200, itemResponse(item))
}

func (h *VaultHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.NotFound("vault item not found")
		return
	}

	var req dto.UpdateVaultItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Title == nil && req.IV == nil && req.Ciphertext == nil {
		c.BadRequest("no fields to update")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		c.BadRequest("title cannot be empty")
		return
	}
	// An envelope is replaced whole: a new iv without new ciphertext (or the
	// reverse) would splice two different encryptions together.
	if (req.IV == nil) != (req.Ciphertext == nil) {
		c.BadRequest("iv and ciphertext must be updated together")
		return
	}
	if req.IV != nil && (*req.IV == "" || *req.Ciphertext == "") {
		c.BadRequest("iv and ciphertext cannot be empty")
		return
	}

	item, err := h.vaultService.Update(context.Background(), itemID, userID, req.Title, req.IV, req.Ciphertext)
	if err != nil {
		if errors.Is(err, services.ErrVaultItemNotFound) {
			c.NotFound("vault item not found")
			return
		}
		log.Printf("vault update error: %v", err)
		c.InternalServerError("failed to update vault item")
		return
	}

	_ = c.JSON(200, itemResponse(item))
}

func (h *VaultHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.NotFound("vault item not found")
		return
	}

	err = h.vaultService.Delete(context.Background(), itemID, userID)
	if err != nil {
		if errors.Is(err, services.ErrVaultItemNotFound) {
			c.NotFound("vault item not found")
			return
		}
		log.Printf("vault delete error: %v", err)
		c.InternalServerError("failed to delete vault item")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "vault item deleted"})
}

func itemResponse(item *models.VaultItem) dto.VaultItemResponse {
	return dto.VaultItemResponse{
		ID:         item.ID,
		Title:      item.Title,
		IV:         item.IV,
		Ciphertext: item.Ciphertext,
		CreatedAt:  item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  item.UpdatedAt.Format(time.RFC3339),
	}
}
