package shell

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownFlag   = errors.New("unknown ui flag")
	ErrUnknownAction = errors.New("unknown ui action")
)

// Flag 界面开关名
type Flag string

const (
	FlagMenu        Flag = "menu"
	FlagCart        Flag = "cart"
	FlagSearch      Flag = "search"
	FlagFilterPanel Flag = "filterPanel"
	FlagLoginModal  Flag = "loginModal"
)

// KnownFlags 所有开关，初始均为关闭
var KnownFlags = []Flag{FlagMenu, FlagCart, FlagSearch, FlagFilterPanel, FlagLoginModal}

// Action 对开关的操作
type Action string

const (
	ActionOpen   Action = "open"
	ActionClose  Action = "close"
	ActionToggle Action = "toggle"
)

// UIState 菜单/弹窗的打开状态
// 由 main 创建后注入需要的组件，不持久化
type UIState struct {
	mu    sync.RWMutex
	flags map[Flag]bool
}

// NewUIState 所有已知开关置为关闭
func NewUIState() *UIState {
	flags := make(map[Flag]bool, len(KnownFlags))
	for _, f := range KnownFlags {
		flags[f] = false
	}
	return &UIState{flags: flags}
}

// Apply 执行操作，返回操作后的状态
func (u *UIState) Apply(flag Flag, action Action) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	cur, ok := u.flags[flag]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownFlag, flag)
	}

	switch action {
	case ActionOpen:
		cur = true
	case ActionClose:
		cur = false
	case ActionToggle:
		cur = !cur
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	u.flags[flag] = cur
	return cur, nil
}

func (u *UIState) Open(flag Flag) error {
	_, err := u.Apply(flag, ActionOpen)
	return err
}

func (u *UIState) Close(flag Flag) error {
	_, err := u.Apply(flag, ActionClose)
	return err
}

func (u *UIState) Toggle(flag Flag) (bool, error) {
	return u.Apply(flag, ActionToggle)
}

// IsOpen 未知开关视为关闭
func (u *UIState) IsOpen(flag Flag) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.flags[flag]
}

// Snapshot 当前所有开关的副本
func (u *UIState) Snapshot() map[string]bool {
	u.mu.RLock()
	defer u.mu.RUnlock()

	out := make(map[string]bool, len(u.flags))
	for k, v := range u.flags {
		out[string(k)] = v
	}
	return out
}

// CloseAll 关闭所有开关
func (u *UIState) CloseAll() {
	u.mu.Lock()
	defer u.mu.Unlock()
	for k := range u.flags {
		u.flags[k] = false
	}
}
