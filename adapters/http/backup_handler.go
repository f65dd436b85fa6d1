package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	backupUC "github.com/khoahotran/custom-catalogs/internal/application/usecase/backup"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
)

type BackupHandler struct {
	exportUseCase      *backupUC.ExportUseCase
	importUseCase      *backupUC.ImportUseCase
	adminExportUseCase *backupUC.AdminExportUseCase
}

func NewBackupHandler(exportUC *backupUC.ExportUseCase, importUC *backupUC.ImportUseCase, adminExportUC *backupUC.AdminExportUseCase) *BackupHandler {
	return &BackupHandler{
		exportUseCase:      exportUC,
		importUseCase:      importUC,
		adminExportUseCase: adminExportUC,
	}
}

func (h *BackupHandler) Export(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("authentication required", nil))
		return
	}

	doc, err := h.exportUseCase.Execute(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("catalogs-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, doc)
}

func (h *BackupHandler) Import(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("authentication required", nil))
		return
	}

	var doc backupUC.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.Error(apperror.NewInvalidInput("invalid backup document", err))
		return
	}

	summary, err := h.importUseCase.Execute(c.Request.Context(), ownerID, &doc)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *BackupHandler) AdminExportAll(c *gin.Context) {
	actorID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("authentication required", nil))
		return
	}

	doc, err := h.adminExportUseCase.Execute(c.Request.Context(), actorID)
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("full-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, doc)
}
