// internal/handlers/collection.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/marketplace-backend/internal/i18n"
	"github.com/javajoker/marketplace-backend/internal/services"
	"github.com/javajoker/marketplace-backend/internal/utils"
)

type CollectionHandler struct {
	collectionService *services.CollectionService
	authService       *services.AuthService
}

func NewCollectionHandler(collectionService *services.CollectionService, authService *services.AuthService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		authService:       authService,
	}
}

func collectionIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid collection ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// GET /collections
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.collectionService.ListCollections(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, result)
}

// GET /collections/:id
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, ok := collectionIDParam(c)
	if !ok {
		return
	}

	collection, err := h.collectionService.GetCollection(id)
	if err != nil {
		utils.NotFoundResponse(c, "collection")
		return
	}

	utils.SuccessResponse(c, gin.H{"collection": collection})
}

// POST /collections
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req services.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	collection, err := h.collectionService.CreateCollection(user, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyCollectionCreated),
		"collection": collection,
	})
}

// POST /collections/:id/mint
func (h *CollectionHandler) MintKind(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}
	id, ok := collectionIDParam(c)
	if !ok {
		return
	}

	var req services.MintKindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	kind, err := h.collectionService.MintKind(user, id, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCollectionMinted),
		"kind":    kind,
	})
}

// POST /collections/:id/media
func (h *CollectionHandler) UploadMedia(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}
	id, ok := collectionIDParam(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "file"), nil)
		return
	}
	defer file.Close()

	result, err := h.collectionService.UploadMedia(user, id, file, header)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"file":    result,
	})
}
