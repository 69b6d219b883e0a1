package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/immortal-reincarnation/game/service"
)

const instructions = `My Immortal Reincarnation - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Cultivate. Every spiritual cultivation gathers qi scaled by your spiritual tier;
every vessel cultivation gathers one unit of qi. Save often.

AVAILABLE TOOLS:
- cultivator_state: Current tiers, qualities and qi
- cultivate_spirit: Gather spiritual qi (optionally many times at once)
- cultivate_vessel: Gather vessel qi (optionally many times at once)
- save_game: Persist the cultivator
- load_game: Restore the saved cultivator
- tier_table: Every tier with its multiplier
- game_instructions: Full rules`

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"My Immortal Reincarnation",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	timesProperty := map[string]interface{}{
		"type":        "integer",
		"minimum":     1,
		"maximum":     service.MaxIncrementsPerCall,
		"description": "How many times to cultivate (default 1)",
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cultivator_state",
		Description: "Get the current cultivator: tiers, qualities and qi",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleCultivatorState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cultivate_spirit",
		Description: "Cultivate the spirit, gathering qi scaled by the current spiritual tier",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"times": timesProperty,
			},
		},
	}, c.handleCultivateSpirit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cultivate_vessel",
		Description: "Temper the vessel, gathering one unit of qi per cultivation",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"times": timesProperty,
			},
		},
	}, c.handleCultivateVessel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_game",
		Description: "Save the cultivator",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleSave)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "load_game",
		Description: "Restore the saved cultivator. A missing or corrupt save starts a fresh one.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleLoad)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tier_table",
		Description: "List every spiritual tier, vessel stage and quality grade",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleTierTable)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of cultivation",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler answers single JSON-RPC messages posted to it
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 501 still carries an action result
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotImplemented {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// timesArgument reads the optional times argument; JSON numbers arrive as float64
func timesArgument(request mcp.CallToolRequest) (int, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	raw, ok := args["times"]
	if !ok || raw == nil {
		return 1, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("times must be a whole number, got %v", v)
		}
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("times must be a number, got %T", raw)
	}
}

// Tool handlers

func (c *Client) handleCultivatorState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var view service.StatusView
	if err := c.apiCall(ctx, "GET", "/api/cultivator", nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStatus(&view)), nil
}

func (c *Client) handleCultivateSpirit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.cultivate(ctx, request, "spirit")
}

func (c *Client) handleCultivateVessel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.cultivate(ctx, request, "vessel")
}

func (c *Client) cultivate(ctx context.Context, request mcp.CallToolRequest, track string) (*mcp.CallToolResult, error) {
	times, err := timesArgument(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	query.Set("times", strconv.Itoa(times))

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", "/api/cultivate/"+track+"?"+query.Encode(), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", "/api/save", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleLoad(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", "/api/load", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleTierTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var tiers service.TierTableInfo
	if err := c.apiCall(ctx, "GET", "/api/tiers", nil, &tiers); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTierTable(&tiers)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := `MY IMMORTAL REINCARNATION - RULES

TRACKS:
- Spiritual cultivation: each cultivation adds qi equal to the multiplier of your
  spiritual tier. A Mortal gathers 0.01 qi; a Sovereign Empyrean gathers 100.
- Vessel cultivation: each cultivation adds exactly 1 qi, whatever your stage.

TIERS:
Tiers do not advance by cultivating. They only change when a saved cultivator is
loaded. Use tier_table to see every tier and multiplier.

SAVING:
save_game writes the cultivator to storage. load_game restores it. A missing or
unreadable save gives you a fresh Mortal cultivator; the result says "recovered".

BATCHING:
cultivate_spirit and cultivate_vessel accept times (1..` + strconv.Itoa(service.MaxIncrementsPerCall) + `) to cultivate
many times in one call.`

	return mcp.NewToolResultText(text), nil
}

// Formatting

func formatStatus(view *service.StatusView) string {
	var b strings.Builder
	b.WriteString("CULTIVATOR:\n")
	for _, line := range view.Lines {
		b.WriteString("  " + line + "\n")
	}
	fmt.Fprintf(&b, "\nSpiritual qi per cultivation: %g\n", view.SpiritualRate)
	if view.NextSpiritualTier != "" {
		fmt.Fprintf(&b, "Next spiritual tier: %s\n", view.NextSpiritualTier)
	} else {
		b.WriteString("Next spiritual tier: none (peak reached)\n")
	}
	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	fmt.Fprintf(&b, "Status: %s\n", result.Status)
	if result.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", result.Error)
	}
	if result.StatusView != nil {
		b.WriteString("\n")
		b.WriteString(formatStatus(result.StatusView))
	}
	return b.String()
}

func formatTierTable(tiers *service.TierTableInfo) string {
	var b strings.Builder
	b.WriteString("SPIRITUAL TIERS (qi per cultivation):\n")
	for _, t := range tiers.Spiritual {
		fmt.Fprintf(&b, "  %2d. %-26s %g\n", t.Ordinal, t.Label, multiplier(t))
	}
	b.WriteString("\nVESSEL STAGES:\n")
	for _, t := range tiers.Physical {
		fmt.Fprintf(&b, "  %2d. %s\n", t.Ordinal, t.Label)
	}
	b.WriteString("\nQUALITY GRADES:\n")
	for _, t := range tiers.Quality {
		fmt.Fprintf(&b, "  %2d. %-26s %g\n", t.Ordinal, t.Label, multiplier(t))
	}
	return b.String()
}

func multiplier(t service.TierInfo) float64 {
	if t.Multiplier == nil {
		return 0
	}
	return *t.Multiplier
}
