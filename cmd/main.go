package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laptop_catalog/internal/config"
	"laptop_catalog/internal/controller"
	"laptop_catalog/internal/media"
	"laptop_catalog/internal/middleware"
	"laptop_catalog/internal/model"
	"laptop_catalog/internal/notify"
	"laptop_catalog/internal/repository"
	"laptop_catalog/internal/router"
	"laptop_catalog/internal/service"
	"laptop_catalog/internal/shell"
	"laptop_catalog/internal/task"
	"laptop_catalog/pkg/database"
	"laptop_catalog/pkg/logger"
)

// @title 笔记本商城 API
// @version 1.0
// @description 前台筛选与后台商品编辑
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := &cli.App{
		Name:  "laptop-catalog",
		Usage: "笔记本商城服务",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径，为空时查找 ./config.yaml",
				EnvVars: []string{"CATALOG_CONFIG"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "启动 HTTP 服务",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "建表/迁移后退出",
				Action: migrate,
			},
			{
				Name:   "facets",
				Usage:  "加载一次筛选项并输出 JSON",
				Action: printFacets,
			},
			{
				Name:  "token",
				Usage: "签发后台访问令牌",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "role", Value: middleware.RoleAdmin},
				},
				Action: issueToken,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
	Storage     media.StorageProvider
	UploadLimit *middleware.KeyedLimiter
}

// Repositories 仓库集合
type Repositories struct {
	// Product 为空表示使用远程存储
	Product repository.ProductRepository
	Store   repository.ProductStore
}

// Services 服务集合
type Services struct {
	Catalog *service.CatalogService
	Facets  *service.FacetService
	Editor  *service.EditorService
	UI      *shell.UIState
}

// ==================== 初始化函数 ====================

// bootstrap 读取配置并初始化日志
func bootstrap(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if _, err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initDatabase 初始化数据库，远程存储模式下不需要数据库
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Store.Provider != "db" {
		return nil, nil
	}

	db, err := database.InitDB(database.Options{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.Database.LogLevel,
	}, &model.Product{}, &model.ProductImage{})
	if err != nil {
		return nil, err
	}
	if err := middleware.RegisterAuditCallbacks(db); err != nil {
		return nil, err
	}
	return db, nil
}

// initRepositories 按配置选择商品存储
func initRepositories(cfg *config.Config, db *gorm.DB) *Repositories {
	if db == nil {
		return &Repositories{
			Store: repository.NewRemoteProductStore(repository.RemoteStoreConfig{
				BaseURL: cfg.Store.BaseURL,
				APIKey:  cfg.Store.APIKey,
				Timeout: cfg.Store.Timeout,
			}),
		}
	}
	repo := repository.NewProductRepository(db)
	return &Repositories{Product: repo, Store: repo}
}

// initDependencies 初始化所有依赖
func initDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := initDatabase(cfg)
	if err != nil {
		return nil, err
	}

	// -------- Repo 层 --------
	repos := initRepositories(cfg, db)

	// -------- 存储 --------
	storage, err := media.NewStorageProvider(ctx, cfg.Storage, nil)
	if err != nil {
		return nil, fmt.Errorf("存储服务初始化失败: %w", err)
	}
	uploader := media.NewStorageUploader(storage, cfg.Gallery.UploadConcurrency)

	// -------- 业务服务 --------
	services := &Services{
		Catalog: service.NewCatalogService(repos.Store),
		Facets:  service.NewFacetService(repos.Store),
		UI:      shell.NewUIState(),
	}
	services.Editor = service.NewEditorService(
		repos.Store, uploader, services.Facets,
		notify.NewZapNotifier(zap.L()),
		service.EditorConfig{
			MaxImages:     cfg.Gallery.MaxImages,
			MaxFileSize:   cfg.Gallery.MaxFileSize,
			ProgressReset: cfg.Gallery.ProgressReset,
			SessionTTL:    cfg.Gallery.SessionTTL,
		},
	)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Catalog: controller.NewCatalogController(services.Catalog, services.Facets),
		UI:      controller.NewUIController(services.UI),
		Editor:  controller.NewEditorController(services.Editor),
	}

	return &Dependencies{
		Config:      cfg,
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
		Storage:     storage,
		UploadLimit: middleware.NewKeyedLimiter(cfg.UploadLimit.Interval, cfg.UploadLimit.Burst),
	}, nil
}

// initRouter 组装路由
func initRouter(deps *Dependencies) *gin.Engine {
	opts := router.Options{
		UploadLimit: deps.UploadLimit,
		Logger:      zap.L(),
	}
	if deps.Config.Auth.Enabled {
		opts.JWT = middleware.NewJWTManager(deps.Config.Auth)
	} else {
		zap.L().Warn("后台鉴权已关闭 (auth.enabled=false)")
	}
	if local, ok := deps.Storage.(*media.LocalStorage); ok {
		opts.Uploads = local.HTTPFileSystem()
	}

	gin.SetMode(deps.Config.Server.Mode)
	return router.SetupRouter(deps.Controllers, opts)
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) (*task.TaskManager, error) {
	cfg := task.DefaultConfig()
	cfg.FacetCron = deps.Config.Facets.RefreshCron
	cfg.SweepCron = deps.Config.Gallery.SweepCron

	tm := task.NewTaskManager(&task.TaskManagerDeps{
		Facets:   deps.Services.Facets,
		Sessions: deps.Services.Editor,
		Limiter:  deps.UploadLimit,
	}, cfg)
	if err := tm.Start(); err != nil {
		return nil, err
	}
	return tm, nil
}

// ==================== 命令 ====================

// serve 启动服务
func serve(c *cli.Context) error {
	cfg, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer zap.L().Sync()

	deps, err := initDependencies(c.Context, cfg)
	if err != nil {
		return err
	}

	tm, err := initTasks(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: initRouter(deps),
	}

	// 异步启动服务
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		tm.Stop(context.Background())
		return fmt.Errorf("服务启动失败: %w", err)
	}

	zap.L().Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	tm.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务强制关闭: %w", err)
	}

	zap.L().Info("服务已退出")
	return nil
}

// migrate 只做建表
func migrate(c *cli.Context) error {
	cfg, err := bootstrap(c)
	if err != nil {
		return err
	}
	if cfg.Store.Provider != "db" {
		return fmt.Errorf("store.provider=%s 不需要迁移", cfg.Store.Provider)
	}
	if _, err := initDatabase(cfg); err != nil {
		return err
	}
	zap.L().Info("迁移完成")
	return nil
}

// printFacets 加载筛选项并输出到标准输出
func printFacets(c *cli.Context) error {
	cfg, err := bootstrap(c)
	if err != nil {
		return err
	}

	db, err := initDatabase(cfg)
	if err != nil {
		return err
	}
	repos := initRepositories(cfg, db)

	ctx, cancel := context.WithTimeout(c.Context, time.Minute)
	defer cancel()

	res := service.NewFacetService(repos.Store).LoadFacets(ctx)
	if res.Err != nil {
		return res.Err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Index)
}

// issueToken 签发令牌，用于脚本或本地调试
func issueToken(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	token, err := middleware.NewJWTManager(cfg.Auth).Generate(c.String("username"), c.String("role"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, token)
	return err
}
