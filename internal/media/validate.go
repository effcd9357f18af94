package media

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ==================== 上传校验 ====================

// DefaultMaxFileSize 单张图片上限 700 KiB
const DefaultMaxFileSize int64 = 700 * 1024

// AllowedContentTypes 允许的图片类型
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrFileTooLarge    = errors.New("image exceeds size limit")
)

// Rule 校验规则
type Rule string

const (
	RuleType Rule = "type"
	RuleSize Rule = "size"
)

// File 待上传文件
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size 文件字节数
func (f File) Size() int64 {
	return int64(len(f.Data))
}

// DetectedType 声明的类型为空时从内容嗅探
func (f File) DetectedType() string {
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" && len(f.Data) > 0 {
		ct = mimetype.Detect(f.Data).String()
	}
	return ct
}

// FileError 单个文件校验失败
type FileError struct {
	Index int
	Name  string
	Rule  Rule
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file #%d %q failed %s rule: %v", e.Index+1, e.Name, e.Rule, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Validator 上传前校验
type Validator struct {
	MaxFileSize int64
}

// NewValidator maxFileSize <= 0 时使用默认上限
func NewValidator(maxFileSize int64) Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return Validator{MaxFileSize: maxFileSize}
}

// Validate 先校验类型，再校验大小
func (v Validator) Validate(f File) error {
	return v.validateAt(0, f)
}

// ValidateBatch 任一文件不合法则整批失败，返回第一个错误
func (v Validator) ValidateBatch(files []File) error {
	for i, f := range files {
		if err := v.validateAt(i, f); err != nil {
			return err
		}
	}
	return nil
}

func (v Validator) validateAt(i int, f File) error {
	ct := f.DetectedType()
	if !AllowedContentTypes[ct] {
		return &FileError{
			Index: i,
			Name:  f.Name,
			Rule:  RuleType,
			Err:   fmt.Errorf("%w: %q", ErrUnsupportedType, ct),
		}
	}
	if f.Size() > v.MaxFileSize {
		return &FileError{
			Index: i,
			Name:  f.Name,
			Rule:  RuleSize,
			Err:   fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, f.Size(), v.MaxFileSize),
		}
	}
	return nil
}
