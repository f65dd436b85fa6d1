package backup

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/custom-catalogs/internal/domain/catalog"
	"github.com/khoahotran/custom-catalogs/internal/domain/user"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

// FullDocument is the admin-scoped export of the whole multi-user graph.
// Password hashes are redacted; a restore re-registers users instead of
// carrying credentials around in plaintext documents.
type FullDocument struct {
	Version    string       `json:"version"`
	ExportDate time.Time    `json:"exportDate"`
	Users      []UserBackup `json:"users"`
}

type UserBackup struct {
	ID       uuid.UUID       `json:"id"`
	Email    string          `json:"email"`
	Catalogs []CatalogBackup `json:"catalogs"`
}

// AdminExportUseCase is a privileged, audited operation: only the configured
// admin account may run it, and every call is logged with the acting user.
type AdminExportUseCase struct {
	userRepo    user.Repository
	catalogRepo catalog.Repository
	adminEmail  string
	logger      logger.Logger
}

func NewAdminExportUseCase(uRepo user.Repository, cRepo catalog.Repository, adminEmail string, log logger.Logger) *AdminExportUseCase {
	return &AdminExportUseCase{
		userRepo:    uRepo,
		catalogRepo: cRepo,
		adminEmail:  adminEmail,
		logger:      log,
	}
}

func (uc *AdminExportUseCase) Execute(ctx context.Context, actorID uuid.UUID) (*FullDocument, error) {
	actor, err := uc.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if uc.adminEmail == "" || actor.Email != uc.adminEmail {
		uc.logger.Warn("Rejected full export attempt",
			zap.String("actor_id", actorID.String()), zap.String("email", actor.Email))
		return nil, apperror.NewPermissionDenied("full export requires the admin account")
	}

	uc.logger.Info("Full database export requested",
		zap.String("actor_id", actorID.String()), zap.String("email", actor.Email))

	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	doc := &FullDocument{
		Version:    SchemaVersion,
		ExportDate: time.Now().UTC(),
		Users:      make([]UserBackup, 0, len(users)),
	}
	for _, u := range users {
		catalogs, err := uc.catalogRepo.ListByOwner(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		backup := UserBackup{ID: u.ID, Email: u.Email, Catalogs: make([]CatalogBackup, 0, len(catalogs))}
		for _, c := range catalogs {
			entries, err := uc.catalogRepo.ListEntries(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			backup.Catalogs = append(backup.Catalogs, toCatalogBackup(c, entries))
		}
		doc.Users = append(doc.Users, backup)
	}
	return doc, nil
}
