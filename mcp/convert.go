// Package mcp converts Model Context Protocol tool listings into
// create-tool requests.
package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"

	"github.com/mattt/tooldef/api"
)

// listEnvelope accepts either a bare tools/list result or a full JSON-RPC response
type listEnvelope struct {
	ToolsListResponse
	Result *ToolsListResponse `json:"result"`
}

// DecodeToolsList reads a tools/list result, or a JSON-RPC response wrapping one
func DecodeToolsList(r io.Reader) (*ToolsListResponse, error) {
	var env listEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("error decoding tools/list response: %w", err)
	}
	if env.Result != nil {
		return env.Result, nil
	}
	return &env.ToolsListResponse, nil
}

// ToCreateToolRequest converts an MCP tool into a function tool.
// The input schema is copied as is; a missing type defaults to "object".
func ToCreateToolRequest(tool Tool) (*api.CreateToolRequest, error) {
	params := api.FunctionParameters(maps.Clone(tool.InputSchema))
	if params == nil {
		params = api.FunctionParameters{}
	}
	if _, ok := params["type"]; !ok {
		params["type"] = "object"
	}

	req := api.NewFunctionTool(tool.Name, tool.Description, params)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("tool %q: %w", tool.Name, err)
	}
	return req, nil
}

// ToCreateToolRequests converts every tool in the listing, stopping at the first invalid one
func ToCreateToolRequests(list *ToolsListResponse) ([]*api.CreateToolRequest, error) {
	reqs := make([]*api.CreateToolRequest, 0, len(list.Tools))
	for _, tool := range list.Tools {
		req, err := ToCreateToolRequest(tool)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
