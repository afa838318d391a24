package files

import (
	"DuoChat/controllers"
	"DuoChat/pkg/services"

	"github.com/gin-gonic/gin"
)

// Register registers file routes. Downloads go through the access
// check; nothing under the upload dir is served statically.
func Register(g *gin.RouterGroup, core *services.Core) {
	g.POST("/files", controllers.UploadFile(core))
	g.GET("/files", controllers.ListFiles(core))
	g.GET("/files/:file_id", controllers.GetFileInfo(core))
	g.GET("/files/:file_id/download", controllers.DownloadFile(core))
}
