package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	apiURL := os.Getenv("TRACTORGURU_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	s := newServer(newAPIClient(apiURL, 60*time.Second))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(client *resty.Client) *server.MCPServer {
	s := server.NewMCPServer(
		"tractorguru",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	listBrandsTool := mcp.NewTool("list_brands",
		mcp.WithDescription("List every tractor brand on TractorGuru with its site path. Use a brand path with list_brand_models."),
	)
	s.AddTool(listBrandsTool, handleListBrands(client))

	listModelsTool := mcp.NewTool("list_brand_models",
		mcp.WithDescription("List the tractor models of one brand, with price snippets and thumbnails when the listing shows them."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Brand page path (e.g. '/tractor-brands/mahindra') or full TractorGuru URL"),
		),
	)
	s.AddTool(listModelsTool, handleListBrandModels(client))

	modelDetailsTool := mcp.NewTool("get_model_details",
		mcp.WithDescription("Get the title, specification table and image URLs of one tractor model page."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Model page path (e.g. '/tractor/mahindra-575-di') or full TractorGuru URL"),
		),
	)
	s.AddTool(modelDetailsTool, handleGetModelDetails(client))

	return s
}
