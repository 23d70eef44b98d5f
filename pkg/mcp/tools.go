// Package mcp exposes module graph tools over the Model Context Protocol.
//
//	s := mcp.NewServer(runner)
//	server.ServeStdio(s)
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cloudydeno/module-visualizer/pkg/buildinfo"
	"github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/pipeline"
	"github.com/cloudydeno/module-visualizer/pkg/registry"
	"github.com/cloudydeno/module-visualizer/pkg/render"
)

// Executor produces serialized module graphs.
type Executor interface {
	Execute(ctx context.Context, moduleURL string, opts pipeline.Options) (*pipeline.Result, error)
}

// NewServer creates an MCP server with every tool registered.
func NewServer(exec Executor) *server.MCPServer {
	s := server.NewMCPServer(
		"modviz",
		buildinfo.Version,
		server.WithToolCapabilities(true),
	)
	RegisterTools(s, exec)
	return s
}

// RegisterTools adds the module graph tools to s.
func RegisterTools(s *server.MCPServer, exec Executor) {
	s.AddTool(moduleGraphTool(), moduleGraphHandler(exec))
	s.AddTool(classifyURLTool(), classifyURLHandler())
	s.AddTool(registryKeyTool(), registryKeyHandler())
}

// --- module_graph ---

func moduleGraphTool() mcp.Tool {
	return mcp.NewTool("module_graph",
		mcp.WithDescription("Compute the package-level dependency graph of a Deno module URL. Returns Graphviz DOT or JSON where every node is a package (registry module, npm package, local directory) with its file count and total size."),
		mcp.WithString("url",
			mcp.Description("Module URL, e.g. https://deno.land/x/oak/mod.ts"),
			mcp.Required(),
		),
		mcp.WithString("format",
			mcp.Description("Output format (default dot)"),
			mcp.Enum(render.TextFormats...),
		),
		mcp.WithBoolean("isolate_std",
			mcp.Description("Give each deno.land/std folder its own node instead of one node per std version"),
		),
		mcp.WithBoolean("isolate_files",
			mcp.Description("Give each local file its own node instead of grouping by directory"),
		),
		mcp.WithString("rankdir",
			mcp.Description("Graphviz rank direction for DOT output: TB, LR, BT or RL"),
		),
	)
}

func moduleGraphHandler(exec Executor) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		moduleURL := req.GetString("url", "")
		if moduleURL == "" {
			return toolError(fmt.Errorf("url is required"))
		}
		opts := pipeline.Options{
			Format:       req.GetString("format", render.FormatDOT),
			IsolateStd:   req.GetBool("isolate_std", false),
			IsolateFiles: req.GetBool("isolate_files", false),
			RankDir:      req.GetString("rankdir", ""),
		}
		if err := render.CheckFormat(opts.Format); err != nil {
			return toolError(err)
		}

		res, err := exec.Execute(ctx, moduleURL, opts)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(res.Output)), nil
	}
}

// --- classify_url ---

// Classification describes how one URL is grouped and displayed.
type Classification struct {
	URL      string            `json:"url"`
	Registry string            `json:"registry"`
	Identity string            `json:"identity"`
	Label    []string          `json:"label"`
	Attrs    map[string]string `json:"attrs"`
}

// Classify groups a single URL as if it were the only file of its package.
func Classify(rawURL string, opts registry.Options) Classification {
	id := registry.Identity(rawURL, opts)
	m := registry.Module{Base: id, Files: []string{rawURL}}
	return Classification{
		URL:      rawURL,
		Registry: registry.Classify(rawURL).String(),
		Identity: id,
		Label:    registry.Label(m, opts),
		Attrs:    registry.AttrsOf(m).Map(),
	}
}

func classifyURLTool() mcp.Tool {
	return mcp.NewTool("classify_url",
		mcp.WithDescription("Show which package a module URL belongs to, and the label and color it gets in graphs."),
		mcp.WithString("url",
			mcp.Description("Any module URL"),
			mcp.Required(),
		),
		mcp.WithBoolean("isolate_std",
			mcp.Description("Classify deno.land/std folders separately"),
		),
	)
}

func classifyURLHandler() server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawURL := req.GetString("url", "")
		if err := errors.ValidateModuleURL(rawURL); err != nil {
			return toolError(err)
		}
		c := Classify(rawURL, registry.Options{IsolateStd: req.GetBool("isolate_std", false)})
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// --- registry_key ---

func registryKeyTool() mcp.Tool {
	return mcp.NewTool("registry_key",
		mcp.WithDescription("List the node fill colors used for each module registry and category."),
	)
}

func registryKeyHandler() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var sb strings.Builder
		for _, e := range registry.ColorKey {
			fmt.Fprintf(&sb, "%-28s %s\n", e.Key, e.Color)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
