package news

import "errors"

var (
	// ErrSourceFetch 单个本地来源抓取失败，只在 LocalFetcher 内部使用
	ErrSourceFetch = errors.New("source fetch failed")
	// ErrRemoteService 远程聚合服务不可用或返回失败
	ErrRemoteService = errors.New("remote service error")
	// ErrKeywordRequired 关键字为空
	ErrKeywordRequired = errors.New("keyword required")
	// ErrCatastrophic 兜底路径内的意外错误
	ErrCatastrophic = errors.New("unexpected failure")
)
