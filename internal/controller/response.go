package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"laptop_catalog/internal/filter"
	"laptop_catalog/internal/gallery"
	"laptop_catalog/internal/media"
	"laptop_catalog/internal/repository"
	"laptop_catalog/internal/service"
	"laptop_catalog/internal/shell"
)

// ==================== 统一响应 ====================

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"code": status, "message": msg})
}

func failWithData(c *gin.Context, status int, msg string, data interface{}) {
	c.JSON(status, gin.H{"code": status, "message": msg, "data": data})
}

// bindFail 参数绑定失败，校验错误按字段返回
func bindFail(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		failWithData(c, http.StatusBadRequest, "参数错误", gin.H{"fields": fields})
		return
	}
	fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
}

// writeError 业务错误 -> HTTP 状态码
// data 不为空时一并返回，例如上传失败后的会话快照
func writeError(c *gin.Context, err error, data interface{}) {
	_ = c.Error(err)

	var formErr *service.FormError
	var fileErr *media.FileError
	var capErr *gallery.CapacityError

	switch {
	case errors.As(err, &formErr):
		failWithData(c, http.StatusUnprocessableEntity, err.Error(), gin.H{"fields": formErr.Fields})
	case errors.As(err, &fileErr):
		failWithData(c, http.StatusUnprocessableEntity, err.Error(), gin.H{
			"index":   fileErr.Index,
			"name":    fileErr.Name,
			"rule":    fileErr.Rule,
			"session": data,
		})
	case errors.As(err, &capErr):
		failWithData(c, http.StatusConflict, err.Error(), gin.H{
			"max":       capErr.Max,
			"current":   capErr.Current,
			"reserved":  capErr.Reserved,
			"requested": capErr.Requested,
		})
	case errors.Is(err, service.ErrUploadInProgress), errors.Is(err, gallery.ErrSuperseded):
		failWithData(c, http.StatusConflict, err.Error(), data)
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, repository.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, gallery.ErrIndexOutOfRange),
		errors.Is(err, filter.ErrUnknownDimension),
		errors.Is(err, filter.ErrUnknownFlag),
		errors.Is(err, shell.ErrUnknownFlag),
		errors.Is(err, shell.ErrUnknownAction):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		// 存储或上传服务失败
		failWithData(c, http.StatusBadGateway, err.Error(), data)
	}
}

// ==================== 上传文件读取 ====================

// maxUploadRead 单个文件读取上限，超出部分不读，由校验器报告大小错误
const maxUploadRead = 8 << 20

func readUpload(fh *multipart.FileHeader) (media.File, error) {
	f, err := fh.Open()
	if err != nil {
		return media.File{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadRead))
	if err != nil {
		return media.File{}, err
	}
	return media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
