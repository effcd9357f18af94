package gallery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"laptop_catalog/internal/media"
	"laptop_catalog/internal/notify"
)

// DefaultMaxImages 图集默认容量
const DefaultMaxImages = 10

var (
	ErrCapacityExceeded = errors.New("gallery capacity exceeded")
	ErrIndexOutOfRange  = errors.New("gallery index out of range")
)

// CapacityError 选中的文件超出剩余容量
type CapacityError struct {
	Max       int
	Current   int
	Reserved  int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("最多上传 %d 张图片 (已有 %d，上传中 %d，本次 %d)",
		e.Max, e.Current, e.Reserved, e.Requested)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// Options 图集和单图位的公共依赖
type Options struct {
	MaxImages     int
	Validator     media.Validator
	Uploader      media.Uploader
	Notifier      notify.Notifier
	ProgressReset time.Duration
}

func (o *Options) normalize() {
	if o.MaxImages <= 0 {
		o.MaxImages = DefaultMaxImages
	}
	if o.Validator.MaxFileSize <= 0 {
		o.Validator = media.NewValidator(0)
	}
	if o.Notifier == nil {
		o.Notifier = notify.Nop{}
	}
}

type pendingBatch struct {
	id       uint64
	previews []string
}

// Gallery 有容量上限的有序图集
// 锁只保护状态切换，上传期间不持锁；在途批次预占容量
type Gallery struct {
	mu       sync.Mutex
	max      int
	items    []string
	pending  []pendingBatch
	reserved int
	nextID   uint64
	onChange func([]string)

	validator media.Validator
	uploader  media.Uploader
	notifier  notify.Notifier
	progress  *progressTracker
}

// New 创建图集，initial 为商品已保存的图片
func New(opts Options, initial []string) (*Gallery, error) {
	opts.normalize()
	if opts.Uploader == nil {
		return nil, errors.New("gallery: uploader is required")
	}
	if len(initial) > opts.MaxImages {
		return nil, &CapacityError{Max: opts.MaxImages, Requested: len(initial)}
	}

	return &Gallery{
		max:       opts.MaxImages,
		items:     slices.Clone(initial),
		validator: opts.Validator,
		uploader:  opts.Uploader,
		notifier:  opts.Notifier,
		progress:  newProgressTracker(opts.ProgressReset),
	}, nil
}

// OnChange 每次已提交列表变化后回调，参数为列表副本
func (g *Gallery) OnChange(fn func(items []string)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onChange = fn
}

// ==================== 选择与上传 ====================

// SelectFiles 校验并上传一批文件，成功后按返回顺序追加
// 容量和校验错误在任何 I/O 之前返回；上传失败时列表保持不变
func (g *Gallery) SelectFiles(ctx context.Context, files []media.File) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	if err := g.reserve(len(files)); err != nil {
		g.notifier.Error(err.Error())
		return nil, err
	}

	if err := g.validator.ValidateBatch(files); err != nil {
		g.release(0, len(files))
		g.notifier.Error(err.Error())
		return nil, err
	}

	previews := media.PreviewAll(files)

	g.mu.Lock()
	g.nextID++
	id := g.nextID
	g.pending = append(g.pending, pendingBatch{id: id, previews: previews})
	g.mu.Unlock()

	gen := g.progress.start()
	results, err := g.uploader.UploadBatch(ctx, files, func(done, total int) {
		g.progress.update(gen, done, total)
	})
	g.progress.finish(gen)

	if err != nil {
		g.release(id, len(files))
		zap.L().Warn("图集上传失败", zap.Int("files", len(files)), zap.Error(err))
		g.notifier.Error("图片上传失败: " + err.Error())
		return nil, err
	}

	urls := make([]string, len(results))
	for i, r := range results {
		urls[i] = r.URL
	}

	g.mu.Lock()
	g.dropPending(id)
	g.reserved -= len(files)
	g.items = append(g.items, urls...)
	snapshot, cb := slices.Clone(g.items), g.onChange
	g.mu.Unlock()

	g.notifier.Success(fmt.Sprintf("已上传 %d 张图片", len(urls)))
	if cb != nil {
		cb(snapshot)
	}
	return urls, nil
}

func (g *Gallery) reserve(n int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.items)+g.reserved+n > g.max {
		return &CapacityError{
			Max:       g.max,
			Current:   len(g.items),
			Reserved:  g.reserved,
			Requested: n,
		}
	}
	g.reserved += n
	return nil
}

// release 归还预占容量，id 非零时一并丢弃该批预览
func (g *Gallery) release(id uint64, n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id != 0 {
		g.dropPending(id)
	}
	g.reserved -= n
}

func (g *Gallery) dropPending(id uint64) {
	g.pending = slices.DeleteFunc(g.pending, func(b pendingBatch) bool {
		return b.id == id
	})
}

// ==================== 列表变更 ====================

// RemoveAt 删除指定位置，后续元素前移
func (g *Gallery) RemoveAt(index int) error {
	g.mu.Lock()
	if index < 0 || index >= len(g.items) {
		n := len(g.items)
		g.mu.Unlock()
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, n)
	}
	g.items = slices.Delete(g.items, index, index+1)
	snapshot, cb := slices.Clone(g.items), g.onChange
	g.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
	return nil
}

// Reorder 把 source 处的元素移到 destination
// 先删除再插入，destination 为空表示拖拽取消
func (g *Gallery) Reorder(source int, destination *int) error {
	if destination == nil {
		return nil
	}
	dst := *destination

	g.mu.Lock()
	n := len(g.items)
	if source < 0 || source >= n || dst < 0 || dst >= n {
		g.mu.Unlock()
		return fmt.Errorf("%w: move %d -> %d (len %d)", ErrIndexOutOfRange, source, dst, n)
	}
	if source == dst {
		g.mu.Unlock()
		return nil
	}
	moved := g.items[source]
	g.items = slices.Delete(g.items, source, source+1)
	g.items = slices.Insert(g.items, dst, moved)
	snapshot, cb := slices.Clone(g.items), g.onChange
	g.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
	return nil
}

// ==================== 查询 ====================

// Items 已提交的图片列表副本
func (g *Gallery) Items() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.items)
}

// Previews 展示用列表：已提交图片在前，在途批次的本地预览按选择顺序在后
func (g *Gallery) Previews() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := slices.Clone(g.items)
	for _, b := range g.pending {
		out = append(out, b.previews...)
	}
	return out
}

func (g *Gallery) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.items)
}

func (g *Gallery) Cap() int { return g.max }

// Progress 当前上传进度
func (g *Gallery) Progress() Progress { return g.progress.get() }
