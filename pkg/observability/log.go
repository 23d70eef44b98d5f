package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, errors at warn.
// It implements all three hook interfaces.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, or to log.Default() if nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Install registers h for pipeline, cache and HTTP events.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnComputeStart(_ context.Context, moduleURL string) {
	h.Logger.Debug("compute start", "module", moduleURL)
}

func (h *LogHooks) OnComputeComplete(_ context.Context, moduleURL string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("compute failed", "module", moduleURL, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("compute done", "module", moduleURL, "nodes", nodeCount, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.Logger.Debug("render start", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "format", format, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("render done", "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnCacheEvict(_ context.Context, key string, size int) {
	h.Logger.Debug("cache evict", "key", key, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
