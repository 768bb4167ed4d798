package mcp

import (
	"github.com/catlover7211/news-aggregator/internal/news"
)

// ToolDescription 新闻搜索工具描述
const ToolDescription = "Search news articles from Taiwanese news sites and global sources, merged and sorted by date"

func intPtr(v int) *int { return &v }

// GetTools 获取所有 MCP 工具定义
func GetTools(toolName string) []Tool {
	return []Tool{
		{
			Name:        toolName,
			Description: ToolDescription,
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"keyword": {
						Type:        "string",
						Description: "The news search keyword",
					},
					"search_type": {
						Type:        "string",
						Description: "local: Taiwanese sites only, global: remote aggregation only, all: both (default)",
						Enum:        []string{string(news.ScopeLocal), string(news.ScopeGlobal), string(news.ScopeAll)},
						Default:     string(news.ScopeAll),
					},
					"page": {
						Type:        "number",
						Description: "Page number starting from 1",
						Default:     1,
						Minimum:     intPtr(1),
					},
					"per_page": {
						Type:        "number",
						Description: "Results per page (default: 10)",
						Default:     news.DefaultPerPage,
						Minimum:     intPtr(1),
					},
				},
				Required: []string{"keyword"},
			},
		},
	}
}
