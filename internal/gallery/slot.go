package gallery

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"laptop_catalog/internal/media"
	"laptop_catalog/internal/notify"
)

// ErrSuperseded 上传完成前已有更新的选择或已被移除
var ErrSuperseded = errors.New("selection superseded")

// Asset 单图的两阶段取值
// Local 为选择后立即生成的本地预览，Committed 为上传成功后的远程地址
type Asset struct {
	Local     string `json:"local,omitempty"`
	Committed string `json:"committed,omitempty"`
}

// Display 优先展示已提交地址
func (a Asset) Display() string {
	if a.Committed != "" {
		return a.Committed
	}
	return a.Local
}

// IsZero 两个阶段都为空
func (a Asset) IsZero() bool { return a.Local == "" && a.Committed == "" }

// Slot 单图位，例如商品主图
type Slot struct {
	mu       sync.Mutex
	asset    Asset
	seq      uint64
	onChange func(Asset)

	validator media.Validator
	uploader  media.Uploader
	notifier  notify.Notifier
	progress  *progressTracker
}

// NewSlot committed 为已保存的地址，可为空
func NewSlot(opts Options, committed string) (*Slot, error) {
	opts.normalize()
	if opts.Uploader == nil {
		return nil, errors.New("gallery: uploader is required")
	}
	return &Slot{
		asset:     Asset{Committed: committed},
		validator: opts.Validator,
		uploader:  opts.Uploader,
		notifier:  opts.Notifier,
		progress:  newProgressTracker(opts.ProgressReset),
	}, nil
}

// OnChange Committed 变化后回调
func (s *Slot) OnChange(fn func(Asset)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// SelectFile 校验后先写入本地预览，再上传
// 上传失败时保留本地预览，Committed 不变
// 上传期间若有新的选择或被移除，本次结果作废并返回 ErrSuperseded
func (s *Slot) SelectFile(ctx context.Context, f media.File) error {
	if err := s.validator.Validate(f); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	preview := media.Preview(f)
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.asset.Local = preview
	s.mu.Unlock()

	gen := s.progress.start()
	res, err := s.uploader.Upload(ctx, f)
	s.progress.update(gen, 1, 1)
	s.progress.finish(gen)

	if err != nil {
		zap.L().Warn("单图上传失败", zap.String("file", f.Name), zap.Error(err))
		s.notifier.Error("图片上传失败: " + err.Error())
		return err
	}

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		zap.L().Info("单图上传结果已过期", zap.String("url", res.URL))
		return ErrSuperseded
	}
	s.asset.Committed = res.URL
	snapshot, cb := s.asset, s.onChange
	s.mu.Unlock()

	s.notifier.Success("图片上传成功")
	if cb != nil {
		cb(snapshot)
	}
	return nil
}

// Remove 清空两个阶段
func (s *Slot) Remove() {
	s.mu.Lock()
	s.seq++
	s.asset = Asset{}
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(Asset{})
	}
}

// Asset 当前取值
func (s *Slot) Asset() Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asset
}

// Progress 当前上传进度
func (s *Slot) Progress() Progress { return s.progress.get() }
