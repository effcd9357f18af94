package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"laptop_catalog/internal/api/dto"
	"laptop_catalog/internal/gallery"
	"laptop_catalog/internal/media"
	"laptop_catalog/internal/notify"
	"laptop_catalog/internal/repository"
	"laptop_catalog/pkg/utils"
)

// ==================== 错误定义 ====================

var (
	ErrSessionNotFound  = errors.New("edit session not found or expired")
	ErrUploadInProgress = errors.New("images are still uploading")
	ErrMainImageMissing = errors.New("main image is required")
)

// FormError 提交时表单校验失败，Fields 为 字段 -> 原因
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "表单不完整: " + strings.Join(parts, "; ")
}

// ==================== 编辑会话 ====================

// EditSession 一次商品编辑
// 表单持有最终值，主图和图集通过 OnChange 回写
type EditSession struct {
	ID        string
	ProductID int64
	CreatedAt time.Time

	mu        sync.Mutex
	form      dto.ProductForm
	mainImage string
	images    []string

	main    *gallery.Slot
	gallery *gallery.Gallery
}

func (s *EditSession) view() *dto.EditSessionResp {
	s.mu.Lock()
	form := s.form
	s.mu.Unlock()

	asset := s.main.Asset()
	return &dto.EditSessionResp{
		ID:                s.ID,
		ProductID:         s.ProductID,
		Form:              form,
		MainImage:         asset,
		MainImageDisplay:  asset.Display(),
		MainImageProgress: s.main.Progress(),
		Images:            s.gallery.Items(),
		Previews:          s.gallery.Previews(),
		MaxImages:         s.gallery.Cap(),
		ImagesProgress:    s.gallery.Progress(),
	}
}

// ==================== EditorService ====================

// EditorConfig 编辑器配置
type EditorConfig struct {
	MaxImages     int
	MaxFileSize   int64
	ProgressReset time.Duration
	SessionTTL    time.Duration
}

// EditorService 后台商品编辑
type EditorService struct {
	store    repository.ProductStore
	uploader media.Uploader
	facets   *FacetService
	notifier notify.Notifier
	cfg      EditorConfig

	sessions *utils.TTLCache[*EditSession]
	validate *validator.Validate
}

// NewEditorService 创建编辑服务，facets 可为空
func NewEditorService(store repository.ProductStore, uploader media.Uploader, facets *FacetService, notifier notify.Notifier, cfg EditorConfig) *EditorService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = gallery.DefaultMaxImages
	}
	return &EditorService{
		store:    store,
		uploader: uploader,
		facets:   facets,
		notifier: notifier,
		cfg:      cfg,
		sessions: utils.NewTTLCache[*EditSession](cfg.SessionTTL),
		validate: newFormValidator(),
	}
}

// newFormValidator 错误字段名使用 json 标签
func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Open 打开编辑会话，productID 为 0 时新建空白表单
func (s *EditorService) Open(ctx context.Context, productID int64) (*dto.EditSessionResp, error) {
	form := dto.ProductForm{Published: true}
	var mainImage string
	var images []string

	if productID > 0 {
		p, err := s.store.GetByID(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("加载商品失败: %w", err)
		}
		form = dto.FormFromProduct(p)
		mainImage = p.MainImage
		images = p.ImageURLs()
	}

	sess, err := s.newSession(productID, form, mainImage, images)
	if err != nil {
		return nil, err
	}
	s.sessions.Set(sess.ID, sess)

	zap.L().Info("打开编辑会话",
		zap.String("session", sess.ID),
		zap.Int64("product_id", productID),
		zap.Int("images", len(images)))
	return sess.view(), nil
}

func (s *EditorService) newSession(productID int64, form dto.ProductForm, mainImage string, images []string) (*EditSession, error) {
	maxImages := s.cfg.MaxImages
	if len(images) > maxImages {
		// 历史数据超过当前上限时按现有数量放宽，避免商品无法编辑
		zap.L().Warn("商品图片数超过上限",
			zap.Int64("product_id", productID),
			zap.Int("images", len(images)),
			zap.Int("max", maxImages))
		maxImages = len(images)
	}

	opts := gallery.Options{
		MaxImages:     maxImages,
		Validator:     media.NewValidator(s.cfg.MaxFileSize),
		Uploader:      s.uploader,
		Notifier:      s.notifier,
		ProgressReset: s.cfg.ProgressReset,
	}

	main, err := gallery.NewSlot(opts, mainImage)
	if err != nil {
		return nil, err
	}
	g, err := gallery.New(opts, images)
	if err != nil {
		return nil, err
	}

	sess := &EditSession{
		ID:        uuid.NewString(),
		ProductID: productID,
		CreatedAt: time.Now(),
		form:      form,
		mainImage: mainImage,
		images:    g.Items(),
		main:      main,
		gallery:   g,
	}

	main.OnChange(func(a gallery.Asset) {
		sess.mu.Lock()
		sess.mainImage = a.Committed
		sess.mu.Unlock()
	})
	g.OnChange(func(items []string) {
		sess.mu.Lock()
		sess.images = items
		sess.mu.Unlock()
	})
	return sess, nil
}

// session 取会话并续期
func (s *EditorService) session(id string) (*EditSession, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.sessions.Touch(id)
	return sess, nil
}

// Get 会话快照
func (s *EditorService) Get(id string) (*dto.EditSessionResp, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// UpdateForm 局部更新表单字段
func (s *EditorService) UpdateForm(id string, req dto.UpdateFormReq) (*dto.EditSessionResp, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.form = req.Apply(sess.form)
	sess.mu.Unlock()

	return sess.view(), nil
}

// ==================== 图片操作 ====================

// SelectMainImage 上传主图
func (s *EditorService) SelectMainImage(ctx context.Context, id string, f media.File) (*dto.EditSessionResp, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if err := sess.main.SelectFile(ctx, f); err != nil {
		return sess.view(), err
	}
	return sess.view(), nil
}

// RemoveMainImage 清空主图
func (s *EditorService) RemoveMainImage(id string) (*dto.EditSessionResp, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.main.Remove()
	return sess.view(), nil
}

// AddImages 批量上传图集
func (s *EditorService) AddImages(ctx context.Context, id string, files []media.File) (*dto.EditSessionResp, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if _, err := sess.gallery.SelectFiles(ctx, files); err != nil {
		return sess.view(), err
	}
	return sess.view(), nil
}

// RemoveImage 删除图集中的一张
func (s *EditorService) RemoveImage(id string, index int) (*dto.EditSessionResp, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if err := sess.gallery.RemoveAt(index); err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// ReorderImages 拖拽排序，destination 为空时不变
func (s *EditorService) ReorderImages(id string, source int, destination *int) (*dto.EditSessionResp, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if err := sess.gallery.Reorder(source, destination); err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// ==================== 提交 ====================

// Submit 校验后写入商品存储
// 成功后丢弃会话并使筛选项缓存失效；失败时会话保留，可修改后重试
func (s *EditorService) Submit(ctx context.Context, id string) (*dto.SubmitResp, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	if len(sess.gallery.Previews()) != sess.gallery.Len() || sess.main.Progress().Uploading {
		return nil, ErrUploadInProgress
	}

	sess.mu.Lock()
	form := sess.form
	mainImage := sess.mainImage
	images := append([]string{}, sess.images...)
	sess.mu.Unlock()

	if err := s.checkForm(form, mainImage); err != nil {
		s.notifier.Error(err.Error())
		return nil, err
	}

	product := form.ToProduct(mainImage, images)

	var saved = product
	created := sess.ProductID == 0
	if created {
		saved, err = s.store.Create(ctx, product)
	} else {
		saved, err = s.store.Update(ctx, sess.ProductID, product)
	}
	if err != nil {
		zap.L().Error("保存商品失败", zap.String("session", id), zap.Error(err))
		s.notifier.Error("保存商品失败: " + err.Error())
		return nil, fmt.Errorf("保存商品失败: %w", err)
	}

	s.sessions.Delete(id)
	if s.facets != nil {
		s.facets.Invalidate()
	}

	if created {
		s.notifier.Success(fmt.Sprintf("商品 %q 已创建", saved.Name))
	} else {
		s.notifier.Success(fmt.Sprintf("商品 %q 已更新", saved.Name))
	}
	zap.L().Info("编辑会话已提交",
		zap.String("session", id),
		zap.Int64("product_id", saved.ID),
		zap.Bool("created", created))

	return &dto.SubmitResp{ProductID: saved.ID, Created: created, Product: saved}, nil
}

func (s *EditorService) checkForm(form dto.ProductForm, mainImage string) error {
	fields := map[string]string{}

	var ve validator.ValidationErrors
	if err := s.validate.Struct(form); err != nil {
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve {
			fields[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
		}
	}
	if mainImage == "" {
		fields["main_image"] = ErrMainImageMissing.Error()
	}

	if len(fields) > 0 {
		return &FormError{Fields: fields}
	}
	return nil
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "必填"
	case "max":
		return "不能超过 " + param
	case "gte":
		return "不能小于 " + param
	case "oneof":
		return "取值须为 " + param + " 之一"
	default:
		return "取值无效"
	}
}

// Discard 丢弃会话，已上传的图片不回收
func (s *EditorService) Discard(id string) error {
	if _, ok := s.sessions.Get(id); !ok {
		return ErrSessionNotFound
	}
	s.sessions.Delete(id)
	return nil
}

// SweepSessions 清理过期会话
func (s *EditorService) SweepSessions() int {
	return s.sessions.Sweep()
}
