package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrChromeNotFound 未找到可用的 Chrome/Chromium
var ErrChromeNotFound = errors.New("chrome/chromium not found")

// BrowserOptions 无头浏览器配置
type BrowserOptions struct {
	Headless  bool
	ProxyURL  string
	UserAgent string
	// Timeout 单个页面的渲染超时
	Timeout time.Duration
	// ExecPath 为空时自动查找
	ExecPath string
}

// BrowserRenderer 基于 chromedp 的页面渲染器
// 浏览器在第一次渲染时启动，之后每个页面使用独立的标签页
type BrowserRenderer struct {
	opts BrowserOptions

	mu          sync.Mutex
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancelFunc  context.CancelFunc
	initialized bool
}

// NewBrowserRenderer 创建渲染器，不会立即启动浏览器
func NewBrowserRenderer(opts BrowserOptions) *BrowserRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &BrowserRenderer{opts: opts}
}

// findChromePath 查找 Chrome 可执行文件路径
func findChromePath() string {
	var paths []string

	switch runtime.GOOS {
	case "darwin":
		paths = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "linux":
		paths = []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	case "windows":
		paths = []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			os.Getenv("LOCALAPPDATA") + `\Google\Chrome\Application\chrome.exe`,
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// start 启动浏览器，调用方需持有锁
func (br *BrowserRenderer) start() error {
	if br.initialized {
		return nil
	}

	chromePath := br.opts.ExecPath
	if chromePath == "" {
		chromePath = findChromePath()
	}
	if chromePath == "" {
		return ErrChromeNotFound
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(chromePath),
		chromedp.Flag("headless", br.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", "zh-TW"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(br.opts.UserAgent),
	)
	if br.opts.ProxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(br.opts.ProxyURL))
		log.Printf("🌐 Browser using proxy: %s", br.opts.ProxyURL)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))

	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	br.allocCancel = allocCancel
	br.browserCtx = browserCtx
	br.cancelFunc = cancel
	br.initialized = true
	log.Printf("✅ Browser initialized (headless=%v, path=%s)", br.opts.Headless, chromePath)
	return nil
}

// newTab 创建新的标签页上下文
func (br *BrowserRenderer) newTab() (context.Context, context.CancelFunc, error) {
	br.mu.Lock()
	defer br.mu.Unlock()

	if err := br.start(); err != nil {
		return nil, nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(br.browserCtx)
	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, br.opts.Timeout)
	return timeoutCtx, func() {
		timeoutCancel()
		tabCancel()
	}, nil
}

// Render 打开页面，等待 body 就绪后返回渲染后的 HTML
func (br *BrowserRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	tabCtx, cancel, err := br.newTab()
	if err != nil {
		return "", err
	}
	defer cancel()

	// 调用方超时同样作用于标签页
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s failed: %w", pageURL, err)
	}
	return html, nil
}

// Close 关闭浏览器
func (br *BrowserRenderer) Close() {
	br.mu.Lock()
	defer br.mu.Unlock()

	if !br.initialized {
		return
	}
	br.cancelFunc()
	br.allocCancel()
	br.initialized = false
	log.Printf("🔴 Browser closed")
}
