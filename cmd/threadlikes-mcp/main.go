package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// likesResponse mirrors the /api/likes envelope.
type likesResponse struct {
	Error      string  `json:"error"`
	Likes      *int    `json:"likes"`
	PostText   *string `json:"postText"`
	HTMLLength *int    `json:"htmlLength"`
	Timestamp  string  `json:"timestamp"`
}

func main() {
	apiURL := os.Getenv("THREADLIKES_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	s := server.NewMCPServer(
		"threadlikes",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	getLikesTool := mcp.NewTool("get_likes",
		mcp.WithDescription("Return the current like count and caption of the tracked Threads post, scraped live from the post page."),
	)
	s.AddTool(getLikesTool, handleGetLikes(apiURL))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleGetLikes(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}
	endpoint := strings.TrimRight(apiURL, "/") + "/api/likes"

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var likesResp likesResponse
		if err := json.Unmarshal(respBody, &likesResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response (HTTP %d): %v", resp.StatusCode, err)), nil
		}

		return renderLikes(resp.StatusCode, &likesResp), nil
	}
}

// renderLikes turns an envelope into a tool result.
func renderLikes(status int, r *likesResponse) *mcp.CallToolResult {
	if r.Error != "" || r.Likes == nil {
		msg := r.Error
		if msg == "" {
			msg = "no like count in response"
		}
		msg = fmt.Sprintf("[HTTP %d] %s", status, msg)
		if r.HTMLLength != nil {
			msg += fmt.Sprintf(" (page length %d)", *r.HTMLLength)
		}
		return mcp.NewToolResultError(msg)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Likes: %d\n", *r.Likes)
	if r.PostText != nil {
		fmt.Fprintf(&sb, "Post: %s\n", *r.PostText)
	}
	fmt.Fprintf(&sb, "Fetched: %s", r.Timestamp)
	return mcp.NewToolResultText(sb.String())
}
