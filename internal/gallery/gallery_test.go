package gallery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptop_catalog/internal/media"
)

// ==================== 测试替身 ====================

type fakeUploader struct {
	mu      sync.Mutex
	fail    error
	gate    chan struct{}
	started chan struct{}
	calls   int
}

func (u *fakeUploader) wait(ctx context.Context) error {
	if u.started != nil {
		u.started <- struct{}{}
	}
	if u.gate != nil {
		select {
		case <-u.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (u *fakeUploader) Upload(ctx context.Context, f media.File) (media.Uploaded, error) {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()

	if err := u.wait(ctx); err != nil {
		return media.Uploaded{}, err
	}
	if u.fail != nil {
		return media.Uploaded{}, u.fail
	}
	return media.Uploaded{URL: "https://cdn.test/" + f.Name}, nil
}

func (u *fakeUploader) UploadBatch(ctx context.Context, files []media.File, onProgress media.ProgressFunc) ([]media.Uploaded, error) {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()

	if err := u.wait(ctx); err != nil {
		return nil, err
	}
	if u.fail != nil {
		return nil, u.fail
	}
	out := make([]media.Uploaded, len(files))
	for i, f := range files {
		out[i] = media.Uploaded{URL: "https://cdn.test/" + f.Name}
		if onProgress != nil {
			onProgress(i+1, len(files))
		}
	}
	return out, nil
}

func (u *fakeUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errs      []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, msg)
}

func pngFiles(n int) []media.File {
	files := make([]media.File, n)
	for i := range files {
		files[i] = media.File{Name: fmt.Sprintf("p%d.png", i), ContentType: "image/png", Data: []byte{byte(i + 1)}}
	}
	return files
}

func newGallery(t *testing.T, max int, initial []string, up *fakeUploader, n *recordingNotifier) *Gallery {
	t.Helper()
	g, err := New(Options{
		MaxImages: max,
		Validator: media.NewValidator(0),
		Uploader:  up,
		Notifier:  n,
	}, initial)
	require.NoError(t, err)
	return g
}

func intp(i int) *int { return &i }

// ==================== 容量 ====================

func TestGallery_SelectFilesCapacity(t *testing.T) {
	up := &fakeUploader{}
	n := &recordingNotifier{}
	g := newGallery(t, 8, []string{"a", "b", "c"}, up, n)

	urls, err := g.SelectFiles(context.Background(), pngFiles(6))
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Nil(t, urls)
	assert.Equal(t, 8, capErr.Max)
	assert.Equal(t, []string{"a", "b", "c"}, g.Items())
	assert.Zero(t, up.callCount(), "容量不足时不应发起上传")
	assert.Len(t, n.errs, 1)

	urls, err = g.SelectFiles(context.Background(), pngFiles(5))
	require.NoError(t, err)
	assert.Len(t, urls, 5)
	assert.Equal(t, 8, g.Len())
	assert.Equal(t, []string{"a", "b", "c",
		"https://cdn.test/p0.png", "https://cdn.test/p1.png", "https://cdn.test/p2.png",
		"https://cdn.test/p3.png", "https://cdn.test/p4.png"}, g.Items())
	assert.Len(t, n.successes, 1)
}

func TestGallery_SelectFilesEmptyBatch(t *testing.T) {
	up := &fakeUploader{}
	g := newGallery(t, 3, nil, up, &recordingNotifier{})

	urls, err := g.SelectFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, urls)
	assert.Zero(t, up.callCount())
}

func TestGallery_NewRejectsOversizedInitial(t *testing.T) {
	_, err := New(Options{MaxImages: 2, Uploader: &fakeUploader{}}, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = New(Options{MaxImages: 2}, nil)
	assert.Error(t, err)
}

func TestGallery_DefaultCapacity(t *testing.T) {
	g, err := New(Options{Uploader: &fakeUploader{}}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxImages, g.Cap())
}

// ==================== 校验与失败回滚 ====================

func TestGallery_ValidationFailureReleasesCapacity(t *testing.T) {
	up := &fakeUploader{}
	g := newGallery(t, 3, nil, up, &recordingNotifier{})

	files := pngFiles(3)
	files[1] = media.File{Name: "anim.gif", ContentType: "image/gif", Data: []byte{1}}

	_, err := g.SelectFiles(context.Background(), files)
	var fe *media.FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 1, fe.Index)
	assert.ErrorIs(t, err, media.ErrUnsupportedType)
	assert.Zero(t, up.callCount())
	assert.Empty(t, g.Items())

	// 预占已归还，满额批次仍可上传
	_, err = g.SelectFiles(context.Background(), pngFiles(3))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
}

func TestGallery_UploadFailureLeavesListUnchanged(t *testing.T) {
	up := &fakeUploader{fail: errors.New("storage unavailable")}
	n := &recordingNotifier{}
	g := newGallery(t, 5, []string{"a"}, up, n)

	changed := false
	g.OnChange(func([]string) { changed = true })

	_, err := g.SelectFiles(context.Background(), pngFiles(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage unavailable")
	assert.Equal(t, []string{"a"}, g.Items())
	assert.Equal(t, []string{"a"}, g.Previews())
	assert.False(t, changed)
	require.Len(t, n.errs, 1)
	assert.Contains(t, n.errs[0], "storage unavailable")

	// 失败后的预占也已归还
	up.fail = nil
	_, err = g.SelectFiles(context.Background(), pngFiles(4))
	require.NoError(t, err)
	assert.Equal(t, 5, g.Len())
}

// ==================== 在途批次 ====================

func TestGallery_PendingPreviewsAndReservation(t *testing.T) {
	up := &fakeUploader{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	g := newGallery(t, 8, []string{"a", "b", "c"}, up, &recordingNotifier{})

	done := make(chan error, 1)
	go func() {
		_, err := g.SelectFiles(context.Background(), pngFiles(2))
		done <- err
	}()
	<-up.started

	previews := g.Previews()
	require.Len(t, previews, 5)
	assert.Equal(t, []string{"a", "b", "c"}, previews[:3])
	for _, p := range previews[3:] {
		assert.True(t, strings.HasPrefix(p, "data:image/png;base64,"))
	}
	assert.Equal(t, 3, g.Len())
	assert.True(t, g.Progress().Uploading)

	// 3 + 2 (在途) + 4 > 8
	_, err := g.SelectFiles(context.Background(), pngFiles(4))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	close(up.gate)
	require.NoError(t, <-done)
	assert.Equal(t, g.Items(), g.Previews())
	assert.Equal(t, 5, g.Len())
}

// ==================== 排序与删除 ====================

func TestGallery_Reorder(t *testing.T) {
	g := newGallery(t, 10, []string{"a", "b", "c", "d"}, &fakeUploader{}, &recordingNotifier{})

	var got []string
	g.OnChange(func(items []string) { got = items })

	require.NoError(t, g.Reorder(0, intp(2)))
	assert.Equal(t, []string{"b", "c", "a", "d"}, g.Items())
	assert.Equal(t, []string{"b", "c", "a", "d"}, got)

	require.NoError(t, g.Reorder(2, intp(0)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, g.Items())
}

func TestGallery_ReorderNoop(t *testing.T) {
	g := newGallery(t, 10, []string{"a", "b", "c"}, &fakeUploader{}, &recordingNotifier{})

	calls := 0
	g.OnChange(func([]string) { calls++ })

	require.NoError(t, g.Reorder(1, nil))
	require.NoError(t, g.Reorder(1, intp(1)))
	assert.Equal(t, []string{"a", "b", "c"}, g.Items())
	assert.Zero(t, calls)
}

func TestGallery_ReorderInverse(t *testing.T) {
	orig := []string{"a", "b", "c", "d", "e"}
	for i := range orig {
		for j := range orig {
			g := newGallery(t, 10, orig, &fakeUploader{}, &recordingNotifier{})

			require.NoError(t, g.Reorder(i, intp(j)))
			moved := g.Items()
			assert.ElementsMatch(t, orig, moved)
			assert.Equal(t, orig[i], moved[j])

			require.NoError(t, g.Reorder(j, intp(i)))
			assert.Equal(t, orig, g.Items(), "reorder(%d,%d) 再 reorder(%d,%d)", i, j, j, i)
		}
	}
}

func TestGallery_ReorderOutOfRange(t *testing.T) {
	g := newGallery(t, 10, []string{"a", "b"}, &fakeUploader{}, &recordingNotifier{})

	assert.ErrorIs(t, g.Reorder(-1, intp(0)), ErrIndexOutOfRange)
	assert.ErrorIs(t, g.Reorder(0, intp(2)), ErrIndexOutOfRange)
	assert.ErrorIs(t, g.Reorder(2, intp(0)), ErrIndexOutOfRange)
	assert.Equal(t, []string{"a", "b"}, g.Items())
}

func TestGallery_RemoveAt(t *testing.T) {
	g := newGallery(t, 10, []string{"a", "b", "c", "d"}, &fakeUploader{}, &recordingNotifier{})

	var got []string
	g.OnChange(func(items []string) { got = items })

	require.NoError(t, g.RemoveAt(1))
	assert.Equal(t, []string{"a", "c", "d"}, g.Items())
	assert.Equal(t, []string{"a", "c", "d"}, got)

	assert.ErrorIs(t, g.RemoveAt(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, g.RemoveAt(-1), ErrIndexOutOfRange)
	assert.Equal(t, 3, g.Len())
}

func TestGallery_ItemsIsCopy(t *testing.T) {
	g := newGallery(t, 10, []string{"a", "b"}, &fakeUploader{}, &recordingNotifier{})

	items := g.Items()
	items[0] = "z"
	assert.True(t, slices.Equal([]string{"a", "b"}, g.Items()))
}

// ==================== 进度 ====================

func TestGallery_ProgressResets(t *testing.T) {
	g, err := New(Options{
		MaxImages:     5,
		Uploader:      &fakeUploader{},
		ProgressReset: 20 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	_, err = g.SelectFiles(context.Background(), pngFiles(2))
	require.NoError(t, err)
	assert.Equal(t, Progress{Uploading: false, Percent: 100}, g.Progress())

	assert.Eventually(t, func() bool {
		return g.Progress() == Progress{}
	}, time.Second, 5*time.Millisecond)
}

func TestProgressTracker_StaleGeneration(t *testing.T) {
	p := newProgressTracker(time.Hour)

	first := p.start()
	second := p.start()

	p.update(first, 1, 1)
	assert.Equal(t, Progress{Uploading: true}, p.get())

	p.finish(first)
	assert.True(t, p.get().Uploading)

	p.update(second, 1, 2)
	assert.Equal(t, Progress{Uploading: true, Percent: 50}, p.get())

	p.finish(second)
	assert.Equal(t, Progress{Percent: 100}, p.get())
}

func TestProgressTracker_ImmediateReset(t *testing.T) {
	p := newProgressTracker(0)
	gen := p.start()
	p.update(gen, 3, 4)
	assert.Equal(t, 75, p.get().Percent)

	p.finish(gen)
	assert.Equal(t, Progress{}, p.get())
}
