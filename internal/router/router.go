package router

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/weibaohui/piepress/config"
	"github.com/weibaohui/piepress/internal/cms"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/embed"
	"github.com/weibaohui/piepress/internal/handler"
	"github.com/weibaohui/piepress/internal/middleware"
	"k8s.io/klog/v2"
)

// 内容类型的公开路径不能占用的前缀
var reservedSlugs = map[string]bool{
	"admin":   true,
	"api":     true,
	"healthz": true,
}

// Setup 构建路由；公开路由取自 Host 的类型注册表，须在 Host.Boot 之后调用
func Setup(
	cfg *config.Config,
	host *cms.Host,
	adminHandler *handler.AdminHandler,
	publicHandler *handler.PublicHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", publicHandler.Healthz)

	api := r.Group("/api")
	{
		api.GET("/pies", publicHandler.Pies)
	}

	admin := r.Group("/admin",
		middleware.AuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.CookieName),
		middleware.RequireCapability(domain.CapEditPosts),
	)
	{
		posts := admin.Group("/posts")
		{
			posts.GET("", adminHandler.List)
			posts.GET("/new", adminHandler.New)
			posts.POST("", adminHandler.Save)
			posts.GET("/:id/edit", adminHandler.Edit)
			posts.POST("/:id", adminHandler.Save)
			posts.POST("/:id/autosave", adminHandler.Autosave)
			posts.POST("/:id/delete", adminHandler.Delete)
		}
		admin.GET("/pages/:slug", adminHandler.Page)
	}

	for _, pt := range host.Types.All() {
		if !pt.PubliclyQueryable {
			continue
		}
		slug := strings.Trim(pt.Slug(), "/")
		if slug == "" || reservedSlugs[slug] {
			klog.Errorf("content type %s: public slug %q is reserved, skipping public routes", pt.Name, slug)
			continue
		}
		if pt.HasArchive {
			r.GET("/"+slug, publicHandler.Archive(pt))
		}
		r.GET("/"+slug+"/:name", publicHandler.Single(pt))
		klog.V(6).Infof("public routes for %s at /%s", pt.Name, slug)
	}

	// 后台静态资源与兜底路由
	embed.SetupRouter(r)

	return r
}
