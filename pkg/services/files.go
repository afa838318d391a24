package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"DuoChat/models"
	"DuoChat/pkg/apperr"

	"gorm.io/gorm"
)

type UploadInput struct {
	OwnerID   uint   `json:"owner_id"`
	Name      string `json:"original_name" validate:"required,max=255"`
	Locator   string `json:"locator" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0,lte=52428800"`
	MediaType string `json:"media_type" validate:"required,max=100"`
}

// FileGateway records uploads and decides who may read them.
type FileGateway struct {
	db        *gorm.DB
	artifacts ArtifactStore
	auditor   Auditor
	now       func() time.Time
	log       *slog.Logger
}

func NewFileGateway(db *gorm.DB, artifacts ArtifactStore, auditor Auditor, now func() time.Time, logger *slog.Logger) *FileGateway {
	return &FileGateway{
		db:        db,
		artifacts: artifacts,
		auditor:   auditor,
		now:       now,
		log:       logger.With("component", "files"),
	}
}

// RecordUpload stores metadata for bytes already written to the
// artifact store.
func (g *FileGateway) RecordUpload(ctx context.Context, in UploadInput) (*models.File, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.MediaType = strings.TrimSpace(in.MediaType)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.SizeBytes > models.MaxFileSize {
		return nil, apperr.Newf(apperr.Validation, "size_bytes must be <= %d", models.MaxFileSize)
	}

	db := g.db.WithContext(ctx)
	var owners int64
	if err := db.Model(&models.User{}).Where("id = ?", in.OwnerID).Count(&owners).Error; err != nil {
		return nil, storeError(g.log, "check owner", err)
	}
	if owners == 0 {
		return nil, apperr.New(apperr.UnknownUser)
	}

	file := models.File{
		OriginalName: in.Name,
		Locator:      in.Locator,
		SizeBytes:    in.SizeBytes,
		MediaType:    in.MediaType,
		UploadedBy:   in.OwnerID,
		CreatedAt:    g.now().UTC(),
	}
	if err := db.Create(&file).Error; err != nil {
		return nil, storeError(g.log, "create file", err)
	}
	g.log.Info("file recorded", "file_id", file.ID, "owner_id", file.UploadedBy, "size_bytes", file.SizeBytes)
	return &file, nil
}

// ResolveInfo returns file metadata if requesterID may see it.
func (g *FileGateway) ResolveInfo(ctx context.Context, fileID, requesterID uint) (*models.File, error) {
	return g.authorize(ctx, fileID, requesterID)
}

// ResolveForDownload is ResolveInfo plus a check that the bytes are
// still present. Each successful call is audited.
func (g *FileGateway) ResolveForDownload(ctx context.Context, fileID, requesterID uint) (*models.File, error) {
	file, err := g.authorize(ctx, fileID, requesterID)
	if err != nil {
		return nil, err
	}
	if g.artifacts == nil || !g.artifacts.Exists(file.Locator) {
		g.log.Warn("artifact missing", "file_id", file.ID, "locator", file.Locator)
		return nil, apperr.New(apperr.ArtifactMissing)
	}

	if g.auditor != nil {
		ev := DownloadEvent{RequesterID: requesterID, FileID: file.ID, FileName: file.OriginalName, At: g.now().UTC()}
		if err := g.auditor.RecordDownload(ctx, ev); err != nil {
			g.log.Warn("audit record failed", "file_id", file.ID, "err", err)
		}
	}
	return file, nil
}

// ListForOwner returns the files ownerID uploaded, newest first.
func (g *FileGateway) ListForOwner(ctx context.Context, ownerID uint) ([]models.File, error) {
	files := []models.File{}
	err := g.db.WithContext(ctx).
		Where("uploaded_by = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&files).Error
	if err != nil {
		return nil, storeError(g.log, "list files", err)
	}
	return files, nil
}

func (g *FileGateway) authorize(ctx context.Context, fileID, requesterID uint) (*models.File, error) {
	db := g.db.WithContext(ctx)

	var file models.File
	if err := db.First(&file, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.FileNotFound)
		}
		return nil, storeError(g.log, "get file", err)
	}

	var referencing []models.Conversation
	if file.UploadedBy != requesterID {
		err := db.Model(&models.Conversation{}).
			Select("DISTINCT conversations.*").
			Joins("JOIN messages ON messages.conversation_id = conversations.id").
			Where("messages.file_id = ?", file.ID).
			Where("conversations.party_a = ? OR conversations.party_b = ?", requesterID, requesterID).
			Find(&referencing).Error
		if err != nil {
			return nil, storeError(g.log, "find referencing conversations", err)
		}
	}

	if !CanAccessFile(requesterID, file, referencing) {
		return nil, apperr.New(apperr.AccessDenied)
	}
	return &file, nil
}
