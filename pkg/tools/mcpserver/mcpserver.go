// Package mcpserver exposes a ToolBox over the Model Context Protocol so
// other MCP clients can call the same tools the executor runs.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/germanamz/pairloop/pkg/tools/toolbox"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server serves the tools of a ToolBox over MCP.
type Server struct {
	server *mcp.Server
	tools  *toolbox.ToolBox
	log    *slog.Logger
}

// New creates a Server advertising every tool registered in tb.
func New(name, version string, tb *toolbox.ToolBox, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		tools:  tb,
		log:    log,
	}

	for _, t := range tb.Tools() {
		s.server.AddTool(&mcp.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}, s.handler(t.Name))
	}

	return s
}

// Serve reads MCP requests from in and writes responses to out until ctx is
// cancelled or the transport closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return s.run(ctx, &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	})
}

func (s *Server) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// handler dispatches through the ToolBox so MCP callers get the same
// structured error payloads as the executor.
func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args json.RawMessage
		if req.Params != nil {
			args = req.Params.Arguments
		}

		out, err := s.tools.Dispatch(ctx, name, args)
		if err != nil {
			return nil, err
		}

		if out.IsError {
			s.log.WarnContext(ctx, "mcp tool call failed", "tool", name, "error", out.Err)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: out.Content}},
			IsError: out.IsError,
		}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
