package service

import (
	"context"
	"edusync_backend/internal/util"
	"sync"
)

type ViewPhase string

const (
	ViewIdle    ViewPhase = "idle"
	ViewLoading ViewPhase = "loading"
	ViewReady   ViewPhase = "ready"
	ViewFailed  ViewPhase = "error"
)

// ViewState Idle -> Loading -> Ready | Failed
type ViewState struct {
	Phase      ViewPhase    `json:"phase"`
	UserOnly   bool         `json:"userOnly"`
	Rows       []DisplayRow `json:"rows,omitempty"`
	Error      string       `json:"error,omitempty"`
	Generation uint64       `json:"generation"`
}

type ViewLoader func(ctx context.Context, caller *CallerContext, userOnly bool) ([]DisplayRow, error)

// ViewSession 单个请求方的成绩视图状态。新的 Load 会取消仍在进行的旧 Load，
// 旧 Load 的结果不会写入状态。
type ViewSession struct {
	mu         sync.Mutex
	load       ViewLoader
	generation uint64
	cancel     context.CancelFunc
	state      ViewState
}

func NewViewSession(load ViewLoader) *ViewSession {
	return &ViewSession{
		load:  load,
		state: ViewState{Phase: ViewIdle},
	}
}

// Load 被更新的请求取代时返回 util.ErrViewSuperseded
func (s *ViewSession) Load(ctx context.Context, caller *CallerContext, userOnly bool) (ViewState, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = ViewState{Phase: ViewLoading, UserOnly: userOnly, Generation: gen}
	s.mu.Unlock()

	rows, err := s.load(loadCtx, caller, userOnly)

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel()
	if gen != s.generation {
		return ViewState{}, util.ErrViewSuperseded
	}
	s.cancel = nil

	if err != nil {
		s.state = ViewState{
			Phase:      ViewFailed,
			UserOnly:   userOnly,
			Error:      util.ResultsUnavailableMessage,
			Generation: gen,
		}
		return s.state, err
	}

	s.state = ViewState{
		Phase:      ViewReady,
		UserOnly:   userOnly,
		Rows:       rows,
		Generation: gen,
	}
	return s.state, nil
}

func (s *ViewSession) Snapshot() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ViewSessions 按用户 ID 管理视图会话
type ViewSessions struct {
	mu       sync.Mutex
	load     ViewLoader
	sessions map[string]*ViewSession
}

func NewViewSessions(load ViewLoader) *ViewSessions {
	return &ViewSessions{
		load:     load,
		sessions: make(map[string]*ViewSession),
	}
}

func (v *ViewSessions) Get(userID string) *ViewSession {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.sessions[userID]
	if !ok {
		s = NewViewSession(v.load)
		v.sessions[userID] = s
	}
	return s
}

// Lookup 不创建新会话
func (v *ViewSessions) Lookup(userID string) (*ViewSession, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.sessions[userID]
	return s, ok
}
