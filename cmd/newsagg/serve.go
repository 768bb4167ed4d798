package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/catlover7211/news-aggregator/internal/server"
)

// historyRetention 启动时清理早于此时间的搜索记录
const historyRetention = 30 * 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP search API and MCP endpoint",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Println("📰 Starting news aggregator...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := buildApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{
		Searcher: a.aggregator,
		Status:   a.supervisor,
		Sources:  a.registry.Names(),
	}
	if a.history != nil {
		deps.Trends = a.history
		if n, err := a.history.Prune(ctx, historyRetention); err != nil {
			log.Printf("⚠️ %v", err)
		} else if n > 0 {
			log.Printf("🧹 Pruned %d old search records", n)
		}
	}

	if err := a.supervisor.Healthcheck(ctx); err != nil {
		log.Printf("⚠️ Search service not reachable, starting it: %v", err)
		if err := a.supervisor.Start(); err != nil {
			log.Printf("❌ %v", err)
		}
	}

	srv := server.New(cfg, deps)

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("❌ Shutdown failed: %v", err)
		}
	}()

	return srv.Start(ctx)
}
