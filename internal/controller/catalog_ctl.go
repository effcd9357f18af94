package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laptop_catalog/internal/api/dto"
	"laptop_catalog/internal/filter"
	"laptop_catalog/internal/service"
)

// CatalogController 前台商品与筛选
type CatalogController struct {
	catalog *service.CatalogService
	facets  *service.FacetService
}

func NewCatalogController(catalog *service.CatalogService, facets *service.FacetService) *CatalogController {
	return &CatalogController{catalog: catalog, facets: facets}
}

// ==================== 商品 ====================

// ListProducts 按筛选条件查询商品
// @Summary 前台商品列表
// @Tags Catalog
// @Param query query string false "搜索词"
// @Param brand query []string false "品牌 (可多选)" collectionFormat(multi)
// @Param category query []string false "分类 (可多选)" collectionFormat(multi)
// @Param condition query []string false "成色 (可多选)" collectionFormat(multi)
// @Param tags query []string false "标签 (可多选)" collectionFormat(multi)
// @Param isNewArrival query bool false "新品"
// @Param isLimitedStock query bool false "库存紧张"
// @Param isDeal query bool false "特价"
// @Param published query bool false "只看已发布" default(true)
// @Success 200 {object} dto.FilterResp
// @Router /api/products [get]
func (ctrl *CatalogController) ListProducts(c *gin.Context) {
	state := filter.Default()
	if err := c.ShouldBindQuery(&state); err != nil {
		bindFail(c, err)
		return
	}
	ctrl.respondWithResults(c, state)
}

// GetProduct 商品详情
// @Summary 获取单个商品详情
// @Tags Catalog
// @Param id path int true "商品ID"
// @Success 200 {object} model.Product
// @Router /api/products/{id} [get]
func (ctrl *CatalogController) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "无效的商品ID")
		return
	}

	product, err := ctrl.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, product)
}

// ==================== 筛选项 ====================

// GetFacets 品牌与标签筛选项
// 加载失败时返回空列表并标记 degraded，不报错
// @Summary 获取筛选项
// @Tags Catalog
// @Param refresh query bool false "强制重新加载"
// @Success 200 {object} dto.FacetResp
// @Router /api/facets [get]
func (ctrl *CatalogController) GetFacets(c *gin.Context) {
	ctx := c.Request.Context()

	var res service.FacetResult
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		res = ctrl.facets.LoadFacets(ctx)
	} else {
		res = ctrl.facets.Snapshot(ctx)
	}

	resp := dto.FacetResp{
		Brands:   res.Index.Brands,
		Tags:     res.Index.Tags,
		LoadedAt: res.LoadedAt,
	}
	if res.Err != nil {
		resp.Degraded = true
		resp.Error = res.Err.Error()
	}
	ok(c, resp)
}

// ==================== 筛选状态 ====================

// ToggleFilter 切换多选维度中的一个值
// @Summary 切换筛选值
// @Tags Filter
// @Accept json
// @Produce json
// @Param body body dto.ToggleFilterReq true "当前状态与切换项"
// @Success 200 {object} dto.FilterResp
// @Router /api/filters/toggle [post]
func (ctrl *CatalogController) ToggleFilter(c *gin.Context) {
	req := dto.ToggleFilterReq{State: filter.Default()}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}

	state, err := req.State.Normalize().Toggle(req.Dimension, req.Value)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ctrl.respondWithResults(c, state)
}

// SetFlag 设置布尔开关
// @Summary 设置筛选开关
// @Tags Filter
// @Accept json
// @Produce json
// @Param body body dto.SetFlagReq true "当前状态与开关"
// @Success 200 {object} dto.FilterResp
// @Router /api/filters/flag [post]
func (ctrl *CatalogController) SetFlag(c *gin.Context) {
	req := dto.SetFlagReq{State: filter.Default()}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}

	state, err := req.State.Normalize().SetFlag(req.Flag, req.Value)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ctrl.respondWithResults(c, state)
}

// SetQuery 设置搜索词
// @Summary 设置搜索词
// @Tags Filter
// @Accept json
// @Produce json
// @Param body body dto.SetQueryReq true "当前状态与搜索词"
// @Success 200 {object} dto.FilterResp
// @Router /api/filters/query [post]
func (ctrl *CatalogController) SetQuery(c *gin.Context) {
	req := dto.SetQueryReq{State: filter.Default()}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}
	ctrl.respondWithResults(c, req.State.Normalize().SetQuery(req.Query))
}

// ClearFilter 重置筛选
// @Summary 重置筛选
// @Tags Filter
// @Accept json
// @Produce json
// @Param body body dto.ClearFilterReq false "当前状态"
// @Success 200 {object} dto.FilterResp
// @Router /api/filters/clear [post]
func (ctrl *CatalogController) ClearFilter(c *gin.Context) {
	req := dto.ClearFilterReq{State: filter.Default()}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFail(c, err)
			return
		}
	}
	ctrl.respondWithResults(c, req.State.Clear())
}

func (ctrl *CatalogController) respondWithResults(c *gin.Context, state filter.State) {
	state = state.Normalize()
	products, err := ctrl.catalog.Search(c.Request.Context(), state)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, dto.FilterResp{State: state, Total: len(products), Products: products})
}
