package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laptop_catalog/internal/api/dto"
	"laptop_catalog/internal/media"
	"laptop_catalog/internal/service"
)

// EditorController 后台商品编辑
type EditorController struct {
	editor *service.EditorService
}

func NewEditorController(editor *service.EditorService) *EditorController {
	return &EditorController{editor: editor}
}

// ==================== 会话 ====================

// Open 打开编辑会话
// @Summary 打开编辑会话 (product_id 为空时新建商品)
// @Tags Editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenEditReq false "商品ID"
// @Success 200 {object} dto.EditSessionResp
// @Router /api/admin/edits [post]
func (ctrl *EditorController) Open(c *gin.Context) {
	var req dto.OpenEditReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFail(c, err)
			return
		}
	}

	sess, err := ctrl.editor.Open(c.Request.Context(), req.ProductID)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, sess)
}

// Get 会话快照
// @Summary 获取编辑会话
// @Tags Editor
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} dto.EditSessionResp
// @Router /api/admin/edits/{id} [get]
func (ctrl *EditorController) Get(c *gin.Context) {
	sess, err := ctrl.editor.Get(c.Param("id"))
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, sess)
}

// UpdateForm 修改表单字段
// @Summary 局部更新表单
// @Tags Editor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param body body dto.UpdateFormReq true "要修改的字段"
// @Success 200 {object} dto.EditSessionResp
// @Router /api/admin/edits/{id} [patch]
func (ctrl *EditorController) UpdateForm(c *gin.Context) {
	var req dto.UpdateFormReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}

	sess, err := ctrl.editor.UpdateForm(c.Param("id"), req)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, sess)
}

// Discard 丢弃会话
// @Summary 丢弃编辑会话
// @Tags Editor
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200
// @Router /api/admin/edits/{id} [delete]
func (ctrl *EditorController) Discard(c *gin.Context) {
	if err := ctrl.editor.Discard(c.Param("id")); err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, nil)
}

// Submit 提交
// @Summary 提交商品
// @Tags Editor
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} dto.SubmitResp
// @Failure 422 {object} map[string]interface{}
// @Router /api/admin/edits/{id}/submit [post]
func (ctrl *EditorController) Submit(c *gin.Context) {
	res, err := ctrl.editor.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, res)
}

// ==================== 主图 ====================

// UploadMainImage 上传主图
// @Summary 上传主图
// @Tags Editor
// @Accept multipart/form-data
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param image formData file true "图片 (jpeg/png/webp, <= 700KB)"
// @Success 200 {object} dto.EditSessionResp
// @Router /api/admin/edits/{id}/main-image [put]
func (ctrl *EditorController) UploadMainImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "请上传图片文件")
		return
	}
	file, err := readUpload(fh)
	if err != nil {
		fail(c, http.StatusBadRequest, "读取文件失败: "+err.Error())
		return
	}

	sess, err := ctrl.editor.SelectMainImage(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		writeError(c, err, sess)
		return
	}
	ok(c, sess)
}

// RemoveMainImage 清空主图
// @Summary 删除主图
// @Tags Editor
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} dto.EditSessionResp
// @Router /api/admin/edits/{id}/main-image [delete]
func (ctrl *EditorController) RemoveMainImage(c *gin.Context) {
	sess, err := ctrl.editor.RemoveMainImage(c.Param("id"))
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, sess)
}

// ==================== 图集 ====================

// UploadImages 批量上传图集
// @Summary 批量上传图集
// @Tags Editor
// @Accept multipart/form-data
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param images formData file true "图片，可多选"
// @Success 200 {object} dto.EditSessionResp
// @Failure 409 {object} map[string]interface{} "超出容量"
// @Router /api/admin/edits/{id}/images [post]
func (ctrl *EditorController) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "请上传图片文件")
		return
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		fail(c, http.StatusBadRequest, "请上传图片文件")
		return
	}

	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh)
		if err != nil {
			fail(c, http.StatusBadRequest, "读取文件失败: "+err.Error())
			return
		}
		files = append(files, f)
	}

	sess, err := ctrl.editor.AddImages(c.Request.Context(), c.Param("id"), files)
	if err != nil {
		writeError(c, err, sess)
		return
	}
	ok(c, sess)
}

// RemoveImage 删除图集中的一张
// @Summary 删除图集图片
// @Tags Editor
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param index path int true "位置，从 0 开始"
// @Success 200 {object} dto.EditSessionResp
// @Router /api/admin/edits/{id}/images/{index} [delete]
func (ctrl *EditorController) RemoveImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, http.StatusBadRequest, "无效的图片位置")
		return
	}

	sess, err := ctrl.editor.RemoveImage(c.Param("id"), index)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, sess)
}

// ReorderImages 拖拽排序
// @Summary 图集排序
// @Tags Editor
// @Accept json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param body body dto.ReorderImagesReq true "source 移到 destination，destination 为空表示取消"
// @Success 200 {object} dto.EditSessionResp
// @Router /api/admin/edits/{id}/images/reorder [post]
func (ctrl *EditorController) ReorderImages(c *gin.Context) {
	var req dto.ReorderImagesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFail(c, err)
		return
	}

	sess, err := ctrl.editor.ReorderImages(c.Param("id"), *req.Source, req.Destination)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	ok(c, sess)
}
