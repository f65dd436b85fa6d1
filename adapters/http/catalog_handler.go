package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogUC "github.com/khoahotran/custom-catalogs/internal/application/usecase/catalog"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
)

type CatalogHandler struct {
	createUseCase *catalogUC.CreateCatalogUseCase
	listUseCase   *catalogUC.ListCatalogsUseCase
	updateUseCase *catalogUC.UpdateCatalogUseCase
	deleteUseCase *catalogUC.DeleteCatalogUseCase
	addUseCase    *catalogUC.AddItemUseCase
}

func NewCatalogHandler(
	createUC *catalogUC.CreateCatalogUseCase,
	listUC *catalogUC.ListCatalogsUseCase,
	updateUC *catalogUC.UpdateCatalogUseCase,
	deleteUC *catalogUC.DeleteCatalogUseCase,
	addUC *catalogUC.AddItemUseCase,
) *CatalogHandler {
	return &CatalogHandler{
		createUseCase: createUC,
		listUseCase:   listUC,
		updateUseCase: updateUC,
		deleteUseCase: deleteUC,
		addUseCase:    addUC,
	}
}

func (h *CatalogHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("authentication required", nil))
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]CatalogDTO, len(result))
	for i, cwe := range result {
		dtos[i] = ToCatalogDTO(cwe.Catalog, cwe.Entries)
	}
	c.JSON(http.StatusOK, gin.H{"catalogs": dtos})
}

func (h *CatalogHandler) Create(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("authentication required", nil))
		return
	}

	var req CreateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	created, err := h.createUseCase.Execute(c.Request.Context(), catalogUC.CreateCatalogInput{
		OwnerID: ownerID,
		Name:    req.Name,
		Kind:    req.Type,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToCatalogDTO(created, nil))
}

func (h *CatalogHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("authentication required", nil))
		return
	}

	catalogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid catalog id", err))
		return
	}

	var req UpdateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.updateUseCase.Execute(c.Request.Context(), catalogUC.UpdateCatalogInput{
		CatalogID: catalogID,
		OwnerID:   ownerID,
		Name:      req.Name,
		Items:     req.ToRefs(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCatalogDTO(output.Catalog, output.Entries))
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("authentication required", nil))
		return
	}

	catalogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid catalog id", err))
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), catalogID, ownerID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) AddItem(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("authentication required", nil))
		return
	}

	catalogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid catalog id", err))
		return
	}

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	err = h.addUseCase.Execute(c.Request.Context(), catalogUC.AddItemInput{
		CatalogID: catalogID,
		OwnerID:   ownerID,
		Ref:       req.ToRef(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusCreated)
}
