package controllers

import (
	"errors"
	"net/http"
	"path/filepath"

	"DuoChat/middleware"
	"DuoChat/models"
	"DuoChat/pkg/apperr"
	"DuoChat/pkg/services"
	utils "DuoChat/pkg/utills"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for boundaries and headers around a
// maximum-size file part.
const multipartOverhead = 1 << 20

// UploadFile stores the multipart "file" field and records it.
func UploadFile(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, models.MaxFileSize+multipartOverhead)

		fh, err := c.FormFile("file")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				respondError(c, apperr.Newf(apperr.Validation, "file too large, maximum size is %d bytes", models.MaxFileSize))
				return
			}
			badRequest(c, "file is required")
			return
		}
		src, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer src.Close()

		name := filepath.Base(fh.Filename)
		locator, size, err := core.Artifacts.Save(uid, name, src)
		if err != nil {
			respondError(c, err)
			return
		}

		file, err := core.Files.RecordUpload(c.Request.Context(), services.UploadInput{
			OwnerID:   uid,
			Name:      name,
			Locator:   locator,
			SizeBytes: size,
			MediaType: core.Artifacts.MediaType(locator, fh.Header.Get("Content-Type")),
		})
		if err != nil {
			_ = core.Artifacts.Remove(locator)
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, file)
	}
}

func ListFiles(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		files, err := core.Files.ListForOwner(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, files)
	}
}

func GetFileInfo(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := utils.ParseID(c.Param("file_id"))
		if !ok {
			badRequest(c, "invalid file id")
			return
		}
		file, err := core.Files.ResolveInfo(c.Request.Context(), id, middleware.CurrentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, file)
	}
}

func DownloadFile(core *services.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := utils.ParseID(c.Param("file_id"))
		if !ok {
			badRequest(c, "invalid file id")
			return
		}
		file, err := core.Files.ResolveForDownload(c.Request.Context(), id, middleware.CurrentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		path, err := core.Artifacts.Path(file.Locator)
		if err != nil {
			respondError(c, apperr.Wrap(err, apperr.ArtifactMissing))
			return
		}
		c.Header("Content-Type", file.MediaType)
		c.FileAttachment(path, file.OriginalName)
	}
}
