package gallery

import (
	"sync"
	"time"
)

// Progress 上传进度
type Progress struct {
	Uploading bool `json:"uploading"`
	Percent   int  `json:"percent"`
}

// progressTracker 记录最近一次上传的进度
// 完成后延迟 resetAfter 复位为 {false, 0}；新一轮上传开始时旧一轮的更新和复位都作废
type progressTracker struct {
	mu         sync.Mutex
	state      Progress
	gen        uint64
	resetAfter time.Duration
	timer      *time.Timer
}

func newProgressTracker(resetAfter time.Duration) *progressTracker {
	return &progressTracker{resetAfter: resetAfter}
}

func (p *progressTracker) start() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
	p.state = Progress{Uploading: true}
	return p.gen
}

func (p *progressTracker) update(gen uint64, done, total int) {
	if total <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen || !p.state.Uploading {
		return
	}
	pct := done * 100 / total
	if pct > 100 {
		pct = 100
	}
	if pct > p.state.Percent {
		p.state.Percent = pct
	}
}

func (p *progressTracker) finish(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return
	}
	p.state = Progress{Uploading: false, Percent: 100}

	if p.resetAfter <= 0 {
		p.state = Progress{}
		return
	}
	p.timer = time.AfterFunc(p.resetAfter, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if gen == p.gen {
			p.state = Progress{}
			p.timer = nil
		}
	})
}

func (p *progressTracker) get() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
