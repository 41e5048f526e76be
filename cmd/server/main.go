package main

import (
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wayfarerhq/places-mcp/internal/cache"
	"github.com/wayfarerhq/places-mcp/internal/config"
	"github.com/wayfarerhq/places-mcp/internal/logger"
	"github.com/wayfarerhq/places-mcp/internal/places"
	"github.com/wayfarerhq/places-mcp/internal/tools"
	"github.com/wayfarerhq/places-mcp/internal/web"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting Places MCP server")

	cfg, err := config.ServerFromEnv()
	if err != nil {
		logger.Errorf("config: %v", err)
		panic(err)
	}

	// Connect to cache daemon; start it if needed, then connect.
	logger.Infof("Attempting to connect to cache daemon at %s", cfg.CacheSocket)
	client, err := connectCache(cfg.CacheSocket)
	if err != nil {
		logger.Warnf("Failed to connect to cache daemon: %v, attempting to start daemon", err)
		if startErr := startCacheDaemon(); startErr != nil {
			logger.Errorf("Failed to start cache daemon: %v", startErr)
		} else {
			logger.Infof("Cache daemon started successfully")
		}
		// wait for socket to appear
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if c2, err2 := connectCache(cfg.CacheSocket); err2 == nil {
				client = c2
				err = nil
				break
			}
			time.Sleep(200 * time.Millisecond)
		}
		if client == nil {
			logger.Errorf("Failed to connect to cache daemon after startup attempt: %v", err)
			panic(err)
		}
	}
	logger.Infof("Successfully connected to cache daemon")

	placesClient := places.NewClient(client, places.Options{
		Endpoint:  cfg.Endpoint,
		APIKey:    cfg.APIKey,
		SearchTTL: cfg.SearchTTL,
		PhotoTTL:  cfg.PhotoTTL,
	})
	fetcher := web.NewFetcher(client, cfg.PageTTL)
	logger.Infof("Initialized places client and page fetcher with cache client")

	s := server.NewMCPServer(
		"Places MCP",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	toolSearch := mcp.NewTool("place-search",
		mcp.WithDescription(multiline(
			"Searches for places matching a free-text travel query",
			"\nFunctionality:",
			"- Takes a query like a destination, attraction, or venue name",
			"- Returns matching places with names, addresses, and websites",
			"\nUsage notes:",
			"- Queries differing only in case or surrounding whitespace share one cached result",
			"- Results are cached for 24 hours; repeated queries are served locally",
		)),
		mcp.WithString("query", mcp.Required(), mcp.Description("The place search query")),
	)
	s.AddTool(toolSearch, tools.PlaceSearchHandler(placesClient))
	logger.Infof("Registered place-search tool")

	toolPhoto := mcp.NewTool("place-photo",
		mcp.WithDescription(multiline(
			"Returns the photo reference for the best match of a location",
			"\nFunctionality:",
			"- Resolves the location to its first matching place",
			"- Returns that place's first photo resource name",
			"- Falls back to a stock placeholder when the place has no photos",
			"\nUsage notes:",
			"- Photo references are cached for 30 days under their own category",
		)),
		mcp.WithString("location", mcp.Required(), mcp.Description("The location to look up")),
	)
	s.AddTool(toolPhoto, tools.PlacePhotoHandler(placesClient))
	logger.Infof("Registered place-photo tool")

	toolPage := mcp.NewTool("place-page",
		mcp.WithDescription(multiline(
			"Fetches and summarizes the website of a location's best match",
			"\nFunctionality:",
			"- Resolves the location, then fetches the matched place's website",
			"- Returns the page title, description, links, and body as markdown",
			"\nUsage notes:",
			"- Page summaries use a short 15-minute cache",
			"- This tool is read-only and does not modify any files",
		)),
		mcp.WithString("location", mcp.Required(), mcp.Description("The location whose website to summarize")),
	)
	s.AddTool(toolPage, tools.PlacePageHandler(placesClient, fetcher))
	logger.Infof("Registered place-page tool")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }

func connectCache(sock string) (cache.KV, error) {
	// quick probe
	conn, err := net.DialTimeout("unix", sock, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	_ = conn.Close()
	return cache.NewClient(sock), nil
}

func startCacheDaemon() error {
	// 1) Try cache binary next to this server executable (works with absolute invocation)
	if exePath, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exePath), "places-mcp-cache")
		if _, statErr := os.Stat(sibling); statErr == nil {
			return startDetached(sibling)
		}
	}

	// 2) Try PATH binary
	if path, err := exec.LookPath("places-mcp-cache"); err == nil {
		return startDetached(path)
	}

	// 3) Try local binary in current working directory (best-effort)
	if _, err := os.Stat("./places-mcp-cache"); err == nil {
		return startDetached("./places-mcp-cache")
	}

	return exec.ErrNotFound
}

func startDetached(path string) error {
	cmd := exec.Command(path)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Env = os.Environ()
	return cmd.Start()
}
