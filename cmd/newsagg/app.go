package main

import (
	"fmt"
	"log"

	"github.com/catlover7211/news-aggregator/internal/aggregator"
	"github.com/catlover7211/news-aggregator/internal/config"
	"github.com/catlover7211/news-aggregator/internal/engine"
	"github.com/catlover7211/news-aggregator/internal/global"
	"github.com/catlover7211/news-aggregator/internal/history"
	"github.com/catlover7211/news-aggregator/internal/simulate"
	"github.com/catlover7211/news-aggregator/internal/source"
)

// app 组装好的运行时组件
type app struct {
	registry   *source.Registry
	local      *engine.Fetcher
	global     *global.Fetcher
	supervisor *global.ProcessSupervisor
	history    *history.Store
	browser    *engine.BrowserRenderer
	aggregator *aggregator.Aggregator
}

// buildApp 按配置创建全部组件，withHistory 为 false 时不打开搜索历史数据库
func buildApp(cfg *config.Config, withHistory bool) (*app, error) {
	registry, errs := source.NewRegistry(cfg.Sources)
	for _, err := range errs {
		log.Printf("⚠️ Skipping source: %v", err)
	}
	if registry.Len() == 0 {
		return nil, fmt.Errorf("no valid sources configured")
	}

	a := &app{registry: registry}

	opts := engine.Options{
		Timeout:      cfg.Local.Timeout,
		MaxPerSource: cfg.Local.MaxPerSource,
		UserAgent:    cfg.Local.UserAgent,
		ProxyURL:     cfg.GetProxyURL(),
	}
	if cfg.IsBrowserEnabled() {
		a.browser = engine.NewBrowserRenderer(engine.BrowserOptions{
			Headless:  cfg.IsBrowserHeadless(),
			ProxyURL:  cfg.GetProxyURL(),
			UserAgent: cfg.Local.UserAgent,
			Timeout:   cfg.Browser.Timeout,
		})
		opts.Renderer = a.browser
	}
	a.local = engine.NewFetcher(registry, opts)

	a.supervisor = global.NewProcessSupervisor(global.ProcessSupervisorOptions{
		BaseURL:       cfg.Remote.BaseURL,
		HealthTimeout: cfg.Remote.HealthTimeout,
		Command:       cfg.Remote.Command,
		Args:          cfg.Remote.Args,
		Dir:           cfg.Remote.Dir,
	})

	a.global = global.NewFetcher(global.Options{
		BaseURL:            cfg.Remote.BaseURL,
		RequestTimeout:     cfg.Remote.RequestTimeout,
		MaxAttempts:        cfg.Remote.MaxAttempts,
		RetryInterval:      cfg.Remote.RetryInterval,
		CacheThreshold:     cfg.Cache.Threshold,
		BreakerMaxFailures: cfg.Remote.BreakerMaxFailures,
		BreakerTimeout:     cfg.Remote.BreakerTimeout,
	}, global.NewCache(cfg.Cache.Capacity), a.supervisor, simulate.NewGenerator())

	var recorder aggregator.Recorder
	if withHistory && cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			log.Printf("⚠️ Search history disabled: %v", err)
		} else {
			a.history = store
			recorder = store
		}
	}

	a.aggregator = aggregator.New(a.local, a.global, recorder, aggregator.Options{
		Limit:  cfg.Remote.Limit,
		Lang:   cfg.Remote.Lang,
		Region: cfg.Remote.Region,
	})
	return a, nil
}

// Close 释放浏览器、数据库与子进程
func (a *app) Close() {
	if a.browser != nil {
		a.browser.Close()
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			log.Printf("⚠️ Failed to close history db: %v", err)
		}
	}
	if a.supervisor != nil {
		if err := a.supervisor.Stop(); err != nil {
			log.Printf("⚠️ Failed to stop search service: %v", err)
		}
	}
}
