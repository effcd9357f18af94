package media

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"laptop_catalog/internal/config"
)

// ==================== 接口定义 ====================

// StorageProvider 存储提供者接口
type StorageProvider interface {
	// Upload 上传文件，返回公开访问URL
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url string, err error)

	// Delete 删除文件
	Delete(ctx context.Context, url string) error
}

// ==================== 工厂方法 ====================

// NewStorageProvider 按配置创建存储
// fs 仅 local 使用，传 nil 时落到操作系统文件系统
func NewStorageProvider(ctx context.Context, cfg config.StorageConfig, fs afero.Fs) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(ctx, cfg)
	case "cos":
		return NewCOSStorage(ctx, cfg)
	case "local":
		if fs == nil {
			fs = afero.NewOsFs()
		}
		return NewLocalStorage(cfg, fs), nil
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== S3 / COS 实现 ====================

// ObjectStorage S3 协议对象存储，腾讯云 COS 走同一实现
type ObjectStorage struct {
	client     *s3.Client
	bucket     string
	basePath   string
	publicBase string
}

// NewS3Storage 创建 AWS S3 存储
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*ObjectStorage, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %w", err)
	}

	publicBase := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	return newObjectStorage(s3.NewFromConfig(awsCfg), cfg, publicBase), nil
}

// NewCOSStorage 创建腾讯云 COS 存储 (兼容 S3 协议)
func NewCOSStorage(ctx context.Context, cfg config.StorageConfig) (*ObjectStorage, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://cos.%s.myqcloud.com", cfg.Region)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("加载COS配置失败: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	publicBase := fmt.Sprintf("https://%s.cos.%s.myqcloud.com", cfg.Bucket, cfg.Region)
	return newObjectStorage(client, cfg, publicBase), nil
}

func loadAWSConfig(ctx context.Context, cfg config.StorageConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func newObjectStorage(client *s3.Client, cfg config.StorageConfig, publicBase string) *ObjectStorage {
	if cfg.CDNDomain != "" {
		publicBase = "https://" + strings.TrimPrefix(strings.TrimPrefix(cfg.CDNDomain, "https://"), "http://")
	}
	return &ObjectStorage{
		client:     client,
		bucket:     cfg.Bucket,
		basePath:   cfg.BasePath,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (s *ObjectStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	key := generateKey(s.basePath, filename)

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传对象存储失败: %w", err)
	}

	return s.publicBase + "/" + key, nil
}

func (s *ObjectStorage) Delete(ctx context.Context, url string) error {
	key := extractKey(s.publicBase, url)
	if key == "" {
		return fmt.Errorf("无法解析文件路径: %s", url)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// ==================== 本地存储 ====================

// LocalStorage 本地文件存储 (开发环境)
// 文件写到 fs 的 root 目录下，通过 baseURL 对外访问
type LocalStorage struct {
	fs      afero.Fs
	root    string
	baseURL string
}

// NewLocalStorage 创建本地存储
func NewLocalStorage(cfg config.StorageConfig, fs afero.Fs) *LocalStorage {
	root := cfg.BasePath
	if root == "" {
		root = "./uploads"
	}
	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = "http://localhost:8080/uploads"
	}

	return &LocalStorage{
		fs:      fs,
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := generateKey("", filename)
	full := filepath.Join(s.root, filepath.FromSlash(key))

	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}
	if err := afero.WriteFile(s.fs, full, data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	key := extractKey(s.baseURL, url)
	if key == "" {
		return fmt.Errorf("无法解析文件路径: %s", url)
	}

	err := s.fs.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// HTTPFileSystem 用于挂载静态文件路由
func (s *LocalStorage) HTTPFileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs).Dir(s.root)
}

// ==================== 工具函数 ====================

// generateKey 生成 basePath/yyyy/mm/dd/uuid.ext
func generateKey(basePath, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext

	datePath := time.Now().Format("2006/01/02")
	if basePath != "" {
		return path.Join(strings.Trim(basePath, "/"), datePath, name)
	}
	return path.Join(datePath, name)
}

func extractKey(publicBase, url string) string {
	prefix := publicBase + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
