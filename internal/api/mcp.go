package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mazurko/prospekt/internal/convert"
	"github.com/mazurko/prospekt/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store *storage.Store
	// MaxAttempts caps retries for enqueued conversion jobs. Zero keeps
	// the queue default.
	MaxAttempts int
}

// NewMCPServer creates an MCP server with all prospekt tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"prospekt",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("prospekt converts consultant profile decks stored in SharePoint into normalized JSON profile documents."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("submit_conversion",
			mcp.WithDescription("Queue a SharePoint document for conversion into a normalized profile document."),
			mcp.WithString("url", mcp.Description("Microsoft Graph drive item URL of the source document"), mcp.Required()),
			mcp.WithString("ref", mcp.Description("Optional SharePoint path recorded on the resulting profile")),
		),
		mcpSubmitConversion(deps),
	)

	s.AddTool(
		mcp.NewTool("get_conversion",
			mcp.WithDescription("Look up the status of a conversion."),
			mcp.WithString("id", mcp.Description("Conversion ID"), mcp.Required()),
		),
		mcpGetConversion(deps),
	)

	s.AddTool(
		mcp.NewTool("get_profile",
			mcp.WithDescription("Return a converted profile with its normalized document."),
			mcp.WithString("id", mcp.Description("Profile ID"), mcp.Required()),
		),
		mcpGetProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("list_profiles",
			mcp.WithDescription("List recently converted profiles, newest first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		),
		mcpListProfiles(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"profiles://recent",
			"Recent Profiles",
			mcp.WithResourceDescription("Last 10 converted profiles (metadata only)"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecentProfiles(deps),
	)

	return s
}

func mcpSubmitConversion(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		itemURL, err := req.RequireString("url")
		if err != nil {
			return mcpError("url is required"), nil
		}
		ref := req.GetString("ref", "")

		convID := uuid.New().String()
		conv := storage.Conversion{
			ID:        convID,
			SourceURL: itemURL,
			SourceRef: ref,
			CreatedAt: time.Now().UTC(),
		}
		if err := deps.Store.CreateConversion(conv); err != nil {
			return mcpError(fmt.Sprintf("failed to create conversion: %v", err)), nil
		}

		payload, err := json.Marshal(map[string]string{"conversion_id": convID})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal job payload: %v", err)), nil
		}
		job := storage.Job{
			ID:          uuid.New().String(),
			Type:        convert.JobType,
			PayloadJSON: string(payload),
			MaxAttempts: deps.MaxAttempts,
		}
		if err := deps.Store.EnqueueJob(job); err != nil {
			return mcpError(fmt.Sprintf("created conversion but failed to queue work: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Queued conversion %s", convID)), nil
	}
}

func mcpGetConversion(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		conv, err := deps.Store.GetConversion(id)
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError("conversion not found"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get conversion: %v", err)), nil
		}

		b, err := json.Marshal(toConversionResponse(conv))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal conversion: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		p, err := deps.Store.GetProfile(id)
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError("profile not found"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get profile: %v", err)), nil
		}

		b, err := json.Marshal(toProfileResponse(p))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListProfiles(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > 50 {
			limit = 50
		}

		profiles, err := deps.Store.ListProfiles(limit, 0)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list profiles: %v", err)), nil
		}

		if len(profiles) == 0 {
			return mcpText("[]"), nil
		}

		summaries := make([]profileSummary, len(profiles))
		for i, p := range profiles {
			summaries[i] = toProfileSummary(p)
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profiles: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceRecentProfiles(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		profiles, err := deps.Store.ListProfiles(10, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to list profiles: %w", err)
		}

		summaries := make([]profileSummary, len(profiles))
		for i, p := range profiles {
			summaries[i] = toProfileSummary(p)
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profiles: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
