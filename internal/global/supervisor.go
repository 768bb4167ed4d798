package global

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"sync"
	"time"
)

// Supervisor 远程聚合服务的启动与健康检查能力
type Supervisor interface {
	// Healthcheck 服务可用时返回 nil
	Healthcheck(ctx context.Context) error
	// Start 尝试在后台启动服务，不等待服务就绪
	Start() error
}

// Status 远程服务状态
type Status string

const (
	StatusOnline   Status = "online"
	StatusStarting Status = "starting"
	StatusOffline  Status = "offline"
)

// startingWindow 启动后在此时间内仍视为 starting
const startingWindow = 30 * time.Second

// ProcessSupervisorOptions 进程管理配置
type ProcessSupervisorOptions struct {
	BaseURL       string
	HealthTimeout time.Duration
	Command       string
	Args          []string
	Dir           string
}

// ProcessSupervisor 通过 HTTP 健康检查探测服务，通过子进程启动服务
type ProcessSupervisor struct {
	opts   ProcessSupervisorOptions
	client *http.Client

	mu        sync.Mutex
	cmd       *exec.Cmd
	running   bool
	startedAt time.Time
}

// NewProcessSupervisor 创建进程管理器
func NewProcessSupervisor(opts ProcessSupervisorOptions) *ProcessSupervisor {
	if opts.HealthTimeout <= 0 {
		opts.HealthTimeout = 2 * time.Second
	}
	return &ProcessSupervisor{
		opts:   opts,
		client: &http.Client{Timeout: opts.HealthTimeout},
	}
}

// Healthcheck GET {baseURL}/healthcheck，期望 200
func (s *ProcessSupervisor) Healthcheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.BaseURL+"/healthcheck", nil)
	if err != nil {
		return fmt.Errorf("create healthcheck request failed: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

// Start 启动远程服务进程，进程仍在运行时不重复启动
func (s *ProcessSupervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.Command == "" {
		return fmt.Errorf("no command configured for search service")
	}
	if s.running {
		return nil
	}

	cmd := exec.Command(s.opts.Command, s.opts.Args...)
	cmd.Dir = s.opts.Dir
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start search service failed: %w", err)
	}

	s.cmd = cmd
	s.running = true
	s.startedAt = time.Now()
	log.Printf("🚀 Search service started (pid=%d): %s %v", cmd.Process.Pid, s.opts.Command, s.opts.Args)

	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		log.Printf("🔴 Search service exited: %v", err)
	}()
	return nil
}

// Status 综合健康检查结果与启动时间给出服务状态
func (s *ProcessSupervisor) Status(ctx context.Context) Status {
	if err := s.Healthcheck(ctx); err == nil {
		return StatusOnline
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && time.Since(s.startedAt) < startingWindow {
		return StatusStarting
	}
	return StatusOffline
}

// Stop 结束由本进程启动的服务
func (s *ProcessSupervisor) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	return s.cmd.Process.Kill()
}
