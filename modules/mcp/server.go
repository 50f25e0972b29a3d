package mcp

// In this file: MCP server construction and transport management.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	appErrors "smart-schedule/core/errors"
	"smart-schedule/core/metrics"
	"smart-schedule/modules/meeting/service"
)

const (
	serverName    = "smart-schedule"
	serverVersion = "1.0.0"
)

// Transport selects how the MCP server communicates with its client.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// Server exposes the scheduling operations as MCP tools.
type Server struct {
	mcp      *mcpsrv.MCPServer
	meetings service.MeetingServiceInterface
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a server with every tool registered. m may be nil; operations
// executed by the meeting service are measured there, m only sees calls
// rejected here before reaching it.
func New(meetings service.MeetingServiceInterface, m *metrics.Metrics, lg *slog.Logger) *Server {
	if lg == nil {
		lg = slog.Default()
	}
	s := &Server{
		meetings: meetings,
		metrics:  m,
		logger:   lg,
	}

	mcpServer := mcpsrv.NewMCPServer(
		serverName,
		serverVersion,
		mcpsrv.WithToolCapabilities(false),
		mcpsrv.WithRecovery(),
		mcpsrv.WithInstructions(instructions),
	)
	for _, t := range s.tools() {
		mcpServer.AddTool(t.Tool, t.Handler)
	}

	s.mcp = mcpServer
	return s
}

const instructions = `You are connected to a meeting scheduling server.

Tools let you:
- Find optimal meeting slots for a group of participants over a date range
- Detect scheduling conflicts for one user in a time window
- Create a meeting
- List users and meetings

Date ranges use "YYYY-MM-DD to YYYY-MM-DD". Time ranges use two ISO-8601
timestamps joined by " to ". Timestamps without an offset are read in the
server's configured time zone. Slots are proposed on the hour between 09:00
and 16:00 on weekdays and must end by 17:00.
`

// ServeStdio runs the server over in/out until ctx is cancelled or the input
// is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	s.logger.InfoContext(ctx, "mcp server listening on stdio")
	if err := srv.Listen(ctx, in, out); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// ServeHTTP runs the Streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpSrv := &http.Server{Addr: addr}
	streamSrv := mcpsrv.NewStreamableHTTPServer(s.mcp,
		mcpsrv.WithStreamableHTTPServer(httpSrv),
	)

	s.logger.InfoContext(ctx, "mcp server listening on http", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := streamSrv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("mcp http server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "mcp server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("mcp http server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Serve picks the transport by name.
func (s *Server) Serve(ctx context.Context, transport Transport, addr string, in io.Reader, out io.Writer) error {
	switch transport {
	case TransportHTTP:
		return s.ServeHTTP(ctx, addr)
	case TransportStdio, "":
		return s.ServeStdio(ctx, in, out)
	default:
		return fmt.Errorf("unknown mcp transport %q", transport)
	}
}

func (s *Server) tools() []mcpsrv.ServerTool {
	return []mcpsrv.ServerTool{
		s.toolFindOptimalSlots(),
		s.toolDetectSchedulingConflicts(),
		s.toolCheckAvailability(),
		s.toolCreateMeeting(),
		s.toolListUsers(),
		s.toolListMeetings(),
	}
}

// failure is the body of every error result.
type failure struct {
	Success bool                `json:"success"`
	Code    appErrors.ErrorCode `json:"code"`
	Error   string              `json:"error"`
}

// resultErr wraps an application error in a CallToolResult with IsError=true.
func resultErr(appErr *appErrors.AppError) *mcplib.CallToolResult {
	body, err := json.Marshal(failure{Success: false, Code: appErr.Code, Error: appErr.Message})
	if err != nil {
		body = []byte(appErr.Message)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(body))},
		IsError: true,
	}
}

// rejected reports a call refused before it reached the meeting service.
func (s *Server) rejected(tool, message string) *mcplib.CallToolResult {
	s.metrics.ObserveTool(tool, true, 0)
	s.logger.Warn("mcp: invalid arguments", "tool", tool, "error", message)
	return resultErr(appErrors.NewAppError(appErrors.ErrInvalidInput, message, nil))
}

func resultJSON(v any) *mcplib.CallToolResult {
	result, err := mcplib.NewToolResultJSON(v)
	if err != nil {
		return resultErr(appErrors.NewAppError(appErrors.ErrInternalServer, "serialise result: "+err.Error(), err))
	}
	return result
}

// stringArg extracts a named string argument. Returns ("", false) if it is
// absent or not a string.
func stringArg(req mcplib.CallToolRequest, name string) (string, bool) {
	args := req.GetArguments()
	if args == nil {
		return "", false
	}
	v, ok := args[name].(string)
	return strings.TrimSpace(v), ok
}

// intArg extracts a named integer argument. JSON numbers arrive as float64;
// fractional values and values outside the int32 range are rejected.
func intArg(req mcplib.CallToolRequest, name string) (int, bool) {
	args := req.GetArguments()
	if args == nil {
		return 0, false
	}
	switch n := args[name].(type) {
	case float64:
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case int:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return n, true
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(n), 10, 32)
		if err != nil {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

// stringsArg extracts a list of strings. A single comma-separated string is
// split.
func stringsArg(req mcplib.CallToolRequest, name string) []string {
	args := req.GetArguments()
	if args == nil {
		return nil
	}
	var out []string
	switch v := args[name].(type) {
	case []any:
		for _, item := range v {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				out = append(out, strings.TrimSpace(str))
			}
		}
	case []string:
		for _, str := range v {
			if strings.TrimSpace(str) != "" {
				out = append(out, strings.TrimSpace(str))
			}
		}
	case string:
		for _, str := range strings.Split(v, ",") {
			if strings.TrimSpace(str) != "" {
				out = append(out, strings.TrimSpace(str))
			}
		}
	}
	return out
}
