// Package mcp 通过 MCP JSON-RPC 协议暴露新闻搜索工具。
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/catlover7211/news-aggregator/internal/news"
)

const (
	MCPVersion = "2024-11-05"
)

// Searcher 聚合搜索
type Searcher interface {
	Aggregate(ctx context.Context, req news.SearchRequest) news.SearchResponse
}

// Handler MCP 请求处理器
type Handler struct {
	info     ServerInfo
	toolName string
	searcher Searcher
}

// NewHandler 创建 MCP 处理器
func NewHandler(info ServerInfo, toolName string, searcher Searcher) *Handler {
	return &Handler{
		info:     info,
		toolName: toolName,
		searcher: searcher,
	}
}

// HandleRequest 处理 MCP JSON-RPC 请求
func (h *Handler) HandleRequest(ctx context.Context, req JSONRPCRequest) JSONRPCResponse {
	log.Printf("📥 MCP Request: method=%s, id=%v", req.Method, req.ID)

	var result any
	var err error

	switch req.Method {
	case "initialize":
		result = h.handleInitialize()
	case "notifications/initialized":
		// 通知类型，不需要返回结果
		return JSONRPCResponse{}
	case "tools/list":
		result = ListToolsResult{Tools: GetTools(h.toolName)}
	case "tools/call":
		result, err = h.handleToolsCall(ctx, req.Params)
	case "resources/list":
		result = ListResourcesResult{Resources: []any{}}
	case "prompts/list":
		result = ListPromptsResult{Prompts: []any{}}
	default:
		return JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown method: %s", req.Method)},
		}
	}

	if err != nil {
		log.Printf("❌ MCP Error: %v", err)
		return JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: CodeInternalError, Message: err.Error()},
		}
	}

	return JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}
}

// handleInitialize 处理初始化请求
func (h *Handler) handleInitialize() InitializeResult {
	return InitializeResult{
		ProtocolVersion: MCPVersion,
		Capabilities: Capability{
			Tools: ToolCapability{ListChanged: false},
		},
		ServerInfo: h.info,
	}
}

// handleToolsCall 处理工具调用请求
func (h *Handler) handleToolsCall(ctx context.Context, params any) (*CallToolResult, error) {
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var callParams CallToolParams
	if err := json.Unmarshal(paramsBytes, &callParams); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params: %w", err)
	}

	log.Printf("🔧 Tool call: name=%s, args=%v", callParams.Name, callParams.Arguments)

	if callParams.Name != h.toolName {
		return textResult(fmt.Sprintf("Unknown tool: %s", callParams.Name), true), nil
	}
	return h.handleSearch(ctx, callParams.Arguments), nil
}

// handleSearch 执行新闻搜索工具
func (h *Handler) handleSearch(ctx context.Context, args map[string]any) *CallToolResult {
	keyword, _ := args["keyword"].(string)

	scopeArg, _ := args["search_type"].(string)
	scope, err := news.ParseScope(scopeArg)
	if err != nil {
		return textResult(err.Error(), true)
	}

	req := news.SearchRequest{
		Keyword: keyword,
		Scope:   scope,
		Page:    intArg(args, "page"),
		PerPage: intArg(args, "per_page"),
	}

	resp := h.searcher.Aggregate(ctx, req)
	if !resp.Success {
		return textResult(fmt.Sprintf("Search failed: %s", resp.Message), true)
	}

	resultJSON, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return textResult(fmt.Sprintf("Failed to format results: %v", err), true)
	}
	return textResult(string(resultJSON), false)
}

// intArg JSON 数字解码为 float64，也接受数字字符串
func intArg(args map[string]any, name string) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

func textResult(text string, isError bool) *CallToolResult {
	return &CallToolResult{
		Content: []ContentItem{{Type: "text", Text: text}},
		IsError: isError,
	}
}
