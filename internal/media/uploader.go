package media

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Uploaded 上传结果
type Uploaded struct {
	URL string `json:"url"`
}

// ProgressFunc 批量上传进度回调，done 为已完成数量
type ProgressFunc func(done, total int)

// Uploader 图片上传服务
type Uploader interface {
	Upload(ctx context.Context, f File) (Uploaded, error)
	// UploadBatch 结果顺序与输入一致
	UploadBatch(ctx context.Context, files []File, onProgress ProgressFunc) ([]Uploaded, error)
}

// StorageUploader 基于 StorageProvider 的上传实现
type StorageUploader struct {
	provider    StorageProvider
	concurrency int
}

// NewStorageUploader concurrency <= 0 时默认 4
func NewStorageUploader(provider StorageProvider, concurrency int) *StorageUploader {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &StorageUploader{provider: provider, concurrency: concurrency}
}

func (u *StorageUploader) Upload(ctx context.Context, f File) (Uploaded, error) {
	url, err := u.provider.Upload(ctx, f.Data, f.Name, f.DetectedType())
	if err != nil {
		return Uploaded{}, fmt.Errorf("上传 %q 失败: %w", f.Name, err)
	}
	return Uploaded{URL: url}, nil
}

// UploadBatch 并发上传整批文件
// 任一失败则取消其余上传，并尽力删除本批已上传的对象
func (u *StorageUploader) UploadBatch(ctx context.Context, files []File, onProgress ProgressFunc) ([]Uploaded, error) {
	results := make([]Uploaded, len(files))
	if len(files) == 0 {
		return results, nil
	}

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)

	for i := range files {
		g.Go(func() error {
			res, err := u.Upload(gctx, files[i])
			if err != nil {
				return err
			}
			results[i] = res

			// 回调在锁内执行，保证 done 单调递增
			mu.Lock()
			defer mu.Unlock()
			done++
			if onProgress != nil {
				onProgress(done, len(files))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		u.cleanup(context.WithoutCancel(ctx), results)
		return nil, err
	}
	return results, nil
}

func (u *StorageUploader) cleanup(ctx context.Context, results []Uploaded) {
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if err := u.provider.Delete(ctx, r.URL); err != nil {
			zap.L().Warn("清理批量上传残留失败", zap.String("url", r.URL), zap.Error(err))
		}
	}
}
