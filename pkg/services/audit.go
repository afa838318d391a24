package services

import (
	"context"
	"log/slog"
	"time"
)

// DownloadEvent records who fetched which file, and when.
type DownloadEvent struct {
	RequesterID uint
	FileID      uint
	FileName    string
	At          time.Time
}

// Auditor receives download events. Failures are logged by the caller
// and never fail the download.
type Auditor interface {
	RecordDownload(ctx context.Context, ev DownloadEvent) error
}

// LogAuditor writes audit events as structured log records.
type LogAuditor struct {
	Logger *slog.Logger
}

func (a LogAuditor) RecordDownload(ctx context.Context, ev DownloadEvent) error {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "file download",
		"audit", true,
		"requester_id", ev.RequesterID,
		"file_id", ev.FileID,
		"file_name", ev.FileName,
		"at", ev.At,
	)
	return nil
}
