package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mazurko/prospekt/internal/storage"
)

// --- helpers ---

func newTestMCPDeps(t *testing.T) (MCPDeps, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return MCPDeps{Store: store}, store
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

// --- tests ---

func TestMCPTool_SubmitConversion(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	handler := mcpSubmitConversion(deps)

	req := makeCallToolRequest("submit_conversion", map[string]interface{}{
		"url": "https://graph.microsoft.com/v1.0/drives/d1/items/i1",
		"ref": "sites/ops/profiles/a-smith.pdf",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	text := toolText(t, result)
	if !strings.HasPrefix(text, "Queued conversion ") {
		t.Fatalf("unexpected response: %s", text)
	}
	convID := strings.TrimPrefix(text, "Queued conversion ")

	conv, err := store.GetConversion(convID)
	if err != nil {
		t.Fatalf("GetConversion(%q): %v", convID, err)
	}
	if conv.Status != "queued" {
		t.Fatalf("status = %q, want queued", conv.Status)
	}
	if conv.SourceRef != "sites/ops/profiles/a-smith.pdf" {
		t.Fatalf("SourceRef = %q", conv.SourceRef)
	}

	job, err := store.ClaimNextJob([]string{"profile_convert"})
	if err != nil {
		t.Fatalf("ClaimNextJob: %v", err)
	}
	if job == nil {
		t.Fatal("no job enqueued")
	}
	if !strings.Contains(job.PayloadJSON, convID) {
		t.Fatalf("payload %q does not reference conversion", job.PayloadJSON)
	}
}

func TestMCPTool_SubmitConversion_MissingURL(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	handler := mcpSubmitConversion(deps)

	req := makeCallToolRequest("submit_conversion", map[string]interface{}{
		"ref": "sites/ops/profiles/a-smith.pdf",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result when url is missing")
	}
}

func TestMCPTool_GetConversion(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	handler := mcpGetConversion(deps)

	conv := storage.Conversion{
		ID:        "conv-mcp-1",
		SourceURL: "https://graph.microsoft.com/v1.0/drives/d1/items/i1",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateConversion(conv); err != nil {
		t.Fatalf("CreateConversion: %v", err)
	}

	req := makeCallToolRequest("get_conversion", map[string]interface{}{"id": "conv-mcp-1"})
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var got conversionResponse
	if err := json.Unmarshal([]byte(toolText(t, result)), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.ID != "conv-mcp-1" {
		t.Fatalf("ID = %q, want conv-mcp-1", got.ID)
	}
	if got.Status != "queued" {
		t.Fatalf("Status = %q, want queued", got.Status)
	}
}

func TestMCPTool_GetConversion_NotFound(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	handler := mcpGetConversion(deps)

	req := makeCallToolRequest("get_conversion", map[string]interface{}{"id": "nonexistent"})
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unknown conversion")
	}
}

func TestMCPTool_GetProfile(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	handler := mcpGetProfile(deps)

	p := storage.Profile{
		ID:           "prof-mcp-1",
		ConversionID: "conv-mcp-1",
		DocumentJSON: `{"sharePointRef":null,"sections":[{"section_name":"Name","section_content":"A. Smith"}]}`,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	req := makeCallToolRequest("get_profile", map[string]interface{}{"id": "prof-mcp-1"})
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var got profileResponse
	if err := json.Unmarshal([]byte(toolText(t, result)), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.ID != "prof-mcp-1" {
		t.Fatalf("ID = %q, want prof-mcp-1", got.ID)
	}
	if !strings.Contains(string(got.Document), `"A. Smith"`) {
		t.Fatalf("document missing section content: %s", got.Document)
	}
}

func TestMCPTool_ListProfiles_Empty(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	handler := mcpListProfiles(deps)

	req := makeCallToolRequest("list_profiles", map[string]interface{}{})
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	if text := toolText(t, result); text != "[]" {
		t.Fatalf("expected empty array, got: %s", text)
	}
}

func TestMCPTool_ListProfiles(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	handler := mcpListProfiles(deps)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		p := storage.Profile{
			ID:           fmt.Sprintf("prof-%d", i),
			ConversionID: fmt.Sprintf("conv-%d", i),
			DocumentJSON: `{"sharePointRef":null,"sections":[]}`,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.SaveProfile(p); err != nil {
			t.Fatalf("SaveProfile(%d): %v", i, err)
		}
	}

	req := makeCallToolRequest("list_profiles", map[string]interface{}{"limit": 2})
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var got []profileSummary
	if err := json.Unmarshal([]byte(toolText(t, result)), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d profiles, want 2", len(got))
	}
	if got[0].ID != "prof-2" {
		t.Fatalf("first ID = %q, want newest (prof-2)", got[0].ID)
	}
}

func TestMCPResource_RecentProfiles(t *testing.T) {
	deps, store := newTestMCPDeps(t)

	p := storage.Profile{
		ID:           "prof-recent-1",
		ConversionID: "conv-recent-1",
		SourceRef:    "sites/ops/profiles/a-smith.pdf",
		DocumentJSON: `{"sharePointRef":null,"sections":[]}`,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	handler := mcpResourceRecentProfiles(deps)
	req := makeReadResourceRequest("profiles://recent")

	contents, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}

	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	if tc.URI != "profiles://recent" {
		t.Fatalf("URI = %q", tc.URI)
	}

	var summaries []profileSummary
	if err := json.Unmarshal([]byte(tc.Text), &summaries); err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(summaries))
	}
	if summaries[0].SourceRef != "sites/ops/profiles/a-smith.pdf" {
		t.Fatalf("SourceRef = %q", summaries[0].SourceRef)
	}
}

func TestMCPServer_ConcurrentSubmits(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	handler := mcpSubmitConversion(deps)

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := makeCallToolRequest("submit_conversion", map[string]interface{}{
				"url": fmt.Sprintf("https://graph.microsoft.com/v1.0/drives/d1/items/i%d", i),
			})
			result, err := handler(context.Background(), req)
			if err != nil {
				errs <- err
				return
			}
			if result.IsError {
				errs <- fmt.Errorf("tool error: %s", result.Content)
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent submit failed: %v", err)
	}

	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM conversions`).Scan(&count); err != nil {
		t.Fatalf("count conversions: %v", err)
	}
	if count != 10 {
		t.Fatalf("created %d conversions, want 10", count)
	}
}
