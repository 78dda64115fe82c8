// Package app 组装存储、内容平台、插件与 HTTP 层
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/weibaohui/piepress/config"
	"github.com/weibaohui/piepress/internal/cms"
	"github.com/weibaohui/piepress/internal/embed"
	"github.com/weibaohui/piepress/internal/handler"
	"github.com/weibaohui/piepress/internal/pies"
	"github.com/weibaohui/piepress/internal/pkg/nonce"
	"github.com/weibaohui/piepress/internal/repository"
	"github.com/weibaohui/piepress/internal/router"
	"github.com/weibaohui/piepress/internal/service"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Host   *cms.Host
	Posts  *service.PostService
	Pies   *pies.Registrar
	Nonces *nonce.Manager
	Engine *gin.Engine
}

// New 注册插件并启动 Host，然后按已注册的内容类型生成路由
func New(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	postRepo := repository.NewPostRepository(db)
	metaRepo := repository.NewMetaRepository(db)
	nonces := nonce.NewManager(cfg.Auth.JWTSecret, cfg.Auth.NonceTTL)

	host := cms.NewHost(postRepo, metaRepo)
	registrar := pies.NewRegistrar(metaRepo, nonces)
	host.Use(cms.CorePlugin(), registrar)
	if err := host.Boot(ctx); err != nil {
		return nil, fmt.Errorf("boot host: %w", err)
	}

	tmpl, err := embed.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	render := handler.NewRenderer(tmpl, cfg.Site.Title)

	posts := service.NewPostService(host, postRepo)
	adminHandler := handler.NewAdminHandler(host, posts, render)
	publicHandler := handler.NewPublicHandler(host, posts, registrar, render)

	return &App{
		Config: cfg,
		Host:   host,
		Posts:  posts,
		Pies:   registrar,
		Nonces: nonces,
		Engine: router.Setup(cfg, host, adminHandler, publicHandler),
	}, nil
}
