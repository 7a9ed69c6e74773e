package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/tractorguru/models"
)

func newAPIClient(apiURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// apiGet calls a tractorguru API route and decodes the JSON body into out,
// whatever the status code. Every response carries a success flag.
func apiGet(ctx context.Context, client *resty.Client, route string, query map[string]string, out any) error {
	res, err := client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(route)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	if err := json.Unmarshal(res.Body(), out); err != nil {
		return fmt.Errorf("parse response (HTTP %d): %w", res.StatusCode(), err)
	}
	return nil
}

func errorText(fallback string, detail *models.ErrorDetail) string {
	if detail == nil {
		return fallback
	}
	return fmt.Sprintf("[%s] %s", detail.Code, detail.Message)
}

func handleListBrands(client *resty.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var resp models.BrandsResponse
		if err := apiGet(ctx, client, "/api/v1/brands", nil, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText("listing brands failed", resp.Error)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Found %d brands:\n\n", resp.Total)
		for _, b := range resp.Brands {
			fmt.Fprintf(&sb, "- %s (%s)\n", b.Name, b.Path)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleListBrandModels(client *resty.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || strings.TrimSpace(path) == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		var resp models.ModelsResponse
		if err := apiGet(ctx, client, "/api/v1/models", map[string]string{"path": path}, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(errorText("listing models failed", resp.Error)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Brand %s: %d models\n\n", resp.BrandPath, resp.Total)
		for _, m := range resp.Models {
			fmt.Fprintf(&sb, "- %s (%s)", m.Name, m.Path)
			if m.Price != "" {
				fmt.Fprintf(&sb, " %s", m.Price)
			}
			sb.WriteString("\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleGetModelDetails(client *resty.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || strings.TrimSpace(path) == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		var resp models.ModelDetailResponse
		if err := apiGet(ctx, client, "/api/v1/model", map[string]string{"path": path}, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success || resp.Model == nil {
			return mcp.NewToolResultError(errorText("fetching model details failed", resp.Error)), nil
		}

		d := resp.Model
		var sb strings.Builder
		fmt.Fprintf(&sb, "Title: %s\nSource: %s\n", d.Title, d.URL)
		if d.Specs != nil && d.Specs.Len() > 0 {
			sb.WriteString("\nSpecifications:\n")
			for pair := d.Specs.Oldest(); pair != nil; pair = pair.Next() {
				fmt.Fprintf(&sb, "- %s: %s\n", pair.Key, pair.Value)
			}
		}
		if len(d.Images) > 0 {
			sb.WriteString("\nImages:\n")
			for _, img := range d.Images {
				sb.WriteString(img + "\n")
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
