package mcp

// ToolsListResponse represents the result of the tools/list method
type ToolsListResponse struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// Tool represents a single tool in the tools/list response
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema is the JSON Schema for tool parameters, kept whole so that
// keywords such as $defs and additionalProperties reach the converted tool
type InputSchema map[string]interface{}
