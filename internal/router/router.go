package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"laptop_catalog/internal/controller"
	"laptop_catalog/internal/middleware"

	_ "laptop_catalog/docs"
)

// Controllers 控制器集合
type Controllers struct {
	Catalog *controller.CatalogController
	UI      *controller.UIController
	Editor  *controller.EditorController
}

// Options 路由依赖的中间件组件
type Options struct {
	// JWT 为空时后台接口不鉴权 (auth.enabled=false)
	JWT         *middleware.JWTManager
	UploadLimit *middleware.KeyedLimiter
	// Uploads 本地存储的静态文件，为空时不挂载
	Uploads http.FileSystem
	Logger  *zap.Logger
}

// SetupRouter 创建 gin 引擎并注册所有路由
func SetupRouter(ctrls *Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ZapRecovery(opts.Logger), middleware.ZapLogger(opts.Logger))
	r.MaxMultipartMemory = 32 << 20

	InitRoutes(r, ctrls, opts)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctrls *Controllers, opts Options) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0, "message": "ok"})
	})

	// 本地存储的图片
	if opts.Uploads != nil {
		r.StaticFS("/uploads", opts.Uploads)
	}

	// 2. API 路由组
	api := r.Group("/api")
	{
		// 前台商品
		products := api.Group("/products")
		{
			// GET /api/products?brand=Dell&brand=Lenovo
			products.GET("", ctrls.Catalog.ListProducts)
			products.GET("/:id", ctrls.Catalog.GetProduct)
		}

		// GET /api/facets
		api.GET("/facets", ctrls.Catalog.GetFacets)

		// 筛选状态变更，状态由前端持有并随请求带回
		filters := api.Group("/filters")
		{
			filters.POST("/toggle", ctrls.Catalog.ToggleFilter)
			filters.POST("/flag", ctrls.Catalog.SetFlag)
			filters.POST("/query", ctrls.Catalog.SetQuery)
			filters.POST("/clear", ctrls.Catalog.ClearFilter)
		}

		// 界面开关
		ui := api.Group("/ui")
		{
			ui.GET("/flags", ctrls.UI.GetFlags)
			ui.POST("/flags/:name/:action", ctrls.UI.ApplyFlag)
		}

		// 后台
		admin := api.Group("/admin")
		if opts.JWT != nil {
			admin.Use(middleware.JWTAuth(opts.JWT), middleware.RequireRole(middleware.RoleAdmin))
		}
		admin.Use(middleware.AuditContext())

		upload := func(h gin.HandlerFunc) []gin.HandlerFunc {
			if opts.UploadLimit == nil {
				return []gin.HandlerFunc{h}
			}
			return []gin.HandlerFunc{middleware.UploadRateLimit(opts.UploadLimit), h}
		}

		edits := admin.Group("/edits")
		{
			edits.POST("", ctrls.Editor.Open)
			edits.GET("/:id", ctrls.Editor.Get)
			edits.PATCH("/:id", ctrls.Editor.UpdateForm)
			edits.DELETE("/:id", ctrls.Editor.Discard)
			edits.POST("/:id/submit", ctrls.Editor.Submit)

			// 主图
			edits.PUT("/:id/main-image", upload(ctrls.Editor.UploadMainImage)...)
			edits.DELETE("/:id/main-image", ctrls.Editor.RemoveMainImage)

			// 图集
			edits.POST("/:id/images", upload(ctrls.Editor.UploadImages)...)
			edits.DELETE("/:id/images/:index", ctrls.Editor.RemoveImage)
			edits.POST("/:id/images/reorder", ctrls.Editor.ReorderImages)
		}
	}
}
