// Package server 提供新闻搜索 HTTP API 与 MCP 端点。
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/catlover7211/news-aggregator/internal/config"
	"github.com/catlover7211/news-aggregator/internal/global"
	"github.com/catlover7211/news-aggregator/internal/history"
	"github.com/catlover7211/news-aggregator/internal/mcp"
	"github.com/catlover7211/news-aggregator/internal/news"
)

// Searcher 聚合搜索
type Searcher interface {
	Aggregate(ctx context.Context, req news.SearchRequest) news.SearchResponse
}

// StatusReporter 远程搜索服务状态
type StatusReporter interface {
	Status(ctx context.Context) global.Status
}

// TrendSource 热门搜索
type TrendSource interface {
	Trending(ctx context.Context, window time.Duration, limit int) ([]history.Trend, error)
}

// Deps 服务器依赖，Status 与 Trends 可以为 nil
type Deps struct {
	Searcher Searcher
	Status   StatusReporter
	Trends   TrendSource
	Sources  []string
}

// Server 新闻搜索 HTTP 服务器
type Server struct {
	config     *config.Config
	deps       Deps
	mcpHandler *mcp.Handler
	sessions   map[string]*Session
	sessionsMu sync.RWMutex
	httpServer *http.Server
}

// Session MCP 会话信息
type Session struct {
	ID        string
	CreatedAt time.Time
}

// New 创建新的服务器实例
func New(cfg *config.Config, deps Deps) *Server {
	info := mcp.ServerInfo{Name: cfg.MCP.ServerName, Version: cfg.MCP.ServerVersion}
	return &Server{
		config:     cfg,
		deps:       deps,
		mcpHandler: mcp.NewHandler(info, cfg.MCP.ToolName, deps.Searcher),
		sessions:   make(map[string]*Session),
	}
}

// Handler 组装路由与中间件
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()

	search := http.Handler(http.HandlerFunc(s.handleSearch))
	if s.config.Server.RateLimit.Enabled {
		rl := s.config.Server.RateLimit
		search = RateLimit(ctx, rl.RequestsPerMin, rl.Burst)(search)
	}

	mux.Handle("/search", search)
	mux.HandleFunc("/trending", s.handleTrending)
	mux.HandleFunc("/search-service-status", s.handleServiceStatus)
	mux.HandleFunc("/mcp", s.handleMCP)
	mux.HandleFunc("/health", s.handleHealth)

	var handler http.Handler = mux
	if s.config.IsEnableCORS() {
		c := cors.New(cors.Options{
			AllowedOrigins:   []string{s.config.GetCORSOrigin()},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "mcp-session-id", RequestIDHeader},
			ExposedHeaders:   []string{RequestIDHeader, "mcp-session-id"},
			AllowCredentials: true,
		})
		handler = c.Handler(handler)
	}

	return RequestID(handler)
}

// Start 启动 HTTP 服务器，阻塞直到服务器关闭
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.GetAddr()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 Starting news aggregator on %s", addr)
	log.Printf("🔍 Search endpoint: POST http://%s/search", addr)
	log.Printf("📡 MCP endpoint: http://%s/mcp", addr)
	log.Printf("❤️ Health check: http://%s/health", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// searchBody POST /search 请求体
type searchBody struct {
	Keyword    string `json:"keyword"`
	SearchType string `json:"search_type"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
}

// searchResult POST /search 响应体
type searchResult struct {
	Success      bool           `json:"success"`
	Keyword      string         `json:"keyword"`
	SearchType   news.Scope     `json:"search_type"`
	TotalResults int            `json:"total_results"`
	Page         int            `json:"page"`
	PerPage      int            `json:"per_page"`
	TotalPages   int            `json:"total_pages"`
	Results      []news.Article `json:"results"`
	Message      string         `json:"message,omitempty"`
	Simulated    bool           `json:"simulated,omitempty"`
	GeneratedAt  *time.Time     `json:"generated_at,omitempty"`
}

type errorResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// handleSearch 处理聚合搜索
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResult{Error: "invalid request body: " + err.Error()})
		return
	}

	req := news.SearchRequest{Keyword: body.Keyword, Page: body.Page, PerPage: body.PerPage}.Normalize()
	if req.Keyword == "" {
		writeJSON(w, http.StatusBadRequest, errorResult{Error: news.ErrKeywordRequired.Error()})
		return
	}

	scope, err := news.ParseScope(body.SearchType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResult{Error: err.Error()})
		return
	}
	req.Scope = scope

	resp := s.deps.Searcher.Aggregate(r.Context(), req)
	if !resp.Success {
		writeJSON(w, http.StatusInternalServerError, errorResult{Error: resp.Message})
		return
	}

	out := searchResult{
		Success:      true,
		Keyword:      req.Keyword,
		SearchType:   scope,
		TotalResults: resp.Pagination.TotalResults,
		Page:         resp.Pagination.Page,
		PerPage:      resp.Pagination.PerPage,
		TotalPages:   resp.Pagination.TotalPages,
		Results:      resp.Results,
		Message:      resp.Message,
		Simulated:    resp.Simulated,
	}
	if !resp.GeneratedAt.IsZero() {
		out.GeneratedAt = &resp.GeneratedAt
	}
	writeJSON(w, http.StatusOK, out)
}

// handleTrending 热门搜索，?hours= 统计窗口，?limit= 数量
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.deps.Trends == nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "trending": []history.Trend{}})
		return
	}

	hours := queryInt(r, "hours", 24)
	limit := queryInt(r, "limit", 10)

	trends, err := s.deps.Trends.Trending(r.Context(), time.Duration(hours)*time.Hour, limit)
	if err != nil {
		log.Printf("❌ Trending query failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResult{Error: "trending unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "trending": trends})
}

// handleServiceStatus 远程搜索服务状态
func (s *Server) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	status := global.StatusOffline
	if s.deps.Status != nil {
		status = s.deps.Status.Status(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

// handleHealth 健康检查端点
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": s.config.MCP.ServerName,
		"version": s.config.MCP.ServerVersion,
		"sources": s.deps.Sources,
	})
}

// handleMCP 处理 MCP 请求
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleMCPPost(w, r)
	case http.MethodDelete:
		s.handleMCPDelete(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleMCPPost 处理 MCP POST 请求
func (s *Server) handleMCPPost(w http.ResponseWriter, r *http.Request) {
	var req mcp.JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, mcp.JSONRPCResponse{
			JSONRPC: "2.0",
			Error:   &mcp.RPCError{Code: mcp.CodeParseError, Message: "Parse error: " + err.Error()},
		})
		return
	}

	sessionID := r.Header.Get("mcp-session-id")

	// 初始化请求创建新会话
	if req.Method == "initialize" && sessionID == "" {
		sessionID = uuid.New().String()
		s.sessionsMu.Lock()
		s.sessions[sessionID] = &Session{ID: sessionID, CreatedAt: time.Now()}
		s.sessionsMu.Unlock()
		w.Header().Set("mcp-session-id", sessionID)
		log.Printf("📝 Created new session: %s", sessionID)
	}

	resp := s.mcpHandler.HandleRequest(r.Context(), req)

	if req.Method == "notifications/initialized" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleMCPDelete 关闭会话
func (s *Server) handleMCPDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("mcp-session-id")
	if sessionID == "" {
		http.Error(w, "Missing session ID", http.StatusBadRequest)
		return
	}

	s.sessionsMu.Lock()
	_, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.sessionsMu.Unlock()

	if !exists {
		http.Error(w, "Invalid session ID", http.StatusNotFound)
		return
	}

	log.Printf("🗑️ Deleted session: %s", sessionID)
	w.WriteHeader(http.StatusOK)
}

// SessionCount 当前 MCP 会话数
func (s *Server) SessionCount() int {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	return len(s.sessions)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
