package server

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPServer exposes the agent as an MCP tool so editor and chat
// clients can run queries directly.
func NewMCPServer(a QueryAgent, version string) *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(
		"octoscout",
		version,
		mcpserver.WithToolCapabilities(true),
	)

	queryTool := mcplib.NewTool("octoscout_query",
		mcplib.WithDescription("Answer a natural-language question about the user's Gmail inbox and GitHub repositories. The agent plans the required mail and repository lookups, runs them, and returns a narrated answer."),
		mcplib.WithString("query",
			mcplib.Required(),
			mcplib.Description("The question to answer, e.g. \"check my repos mentioned in recent GitHub emails for security alerts\""),
		),
	)

	srv.AddTool(queryTool, func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		query := request.GetString("query", "")
		if query == "" {
			return mcplib.NewToolResultError("missing 'query' argument"), nil
		}

		result, err := a.ProcessQuery(ctx, query)
		if err != nil {
			return mcplib.NewToolResultError(fmt.Sprintf("Error processing query: %v", err)), nil
		}

		payload, err := json.Marshal(map[string]any{
			"response":      result.Response,
			"actions_taken": result.ActionsTaken,
		})
		if err != nil {
			return mcplib.NewToolResultText(result.Response), nil
		}
		return mcplib.NewToolResultText(string(payload)), nil
	})

	return srv
}

// ServeMCPStdio runs the MCP server over stdin/stdout.
func ServeMCPStdio(srv *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(srv)
}
