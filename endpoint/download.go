package endpoint

import (
	"github.com/ariebrainware/onco-intake/middleware"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
)

// DownloadUpload serves one stored attachment. Only plain names inside the
// upload directory resolve; anything else is a 404.
func DownloadUpload(c *gin.Context) {
	store := middleware.GetUploads(c)
	if store == nil {
		util.RenderNotFound(c, "File not found")
		return
	}

	name := c.Param("name")
	path, err := store.Path(name)
	if err != nil {
		util.RenderNotFound(c, "File not found")
		return
	}

	c.FileAttachment(path, name)
}
