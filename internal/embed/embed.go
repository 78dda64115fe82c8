package embed

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed assets/*
var assetFiles embed.FS

// Templates 解析后台与前台页面模板
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFiles, "templates/*.html")
}

// AssetsFS 后台样式与脚本
func AssetsFS() fs.FS {
	sub, err := fs.Sub(assetFiles, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// SetupRouter 设置后台静态资源路由与兜底 404
func SetupRouter(r *gin.Engine) {
	// 静态资源使用 gzip 压缩
	r.GET("/admin/assets/*filepath",
		gzip.Gzip(gzip.BestCompression),
		gin.WrapH(http.StripPrefix("/admin/assets", http.FileServer(http.FS(AssetsFS())))),
	)

	r.NoRoute(func(c *gin.Context) {
		// 对于API请求，返回JSON
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.String(http.StatusNotFound, "404 page not found")
	})
}
