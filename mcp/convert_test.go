package mcp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattt/tooldef/api"
)

func TestDecodeToolsList(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "bare result",
			input: `{"tools": [{"name": "listPets", "inputSchema": {"type": "object"}}]}`,
		},
		{
			name:  "json-rpc response",
			input: `{"jsonrpc": "2.0", "id": 1, "result": {"tools": [{"name": "listPets", "inputSchema": {"type": "object"}}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := DecodeToolsList(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, list.Tools, 1)
			assert.Equal(t, "listPets", list.Tools[0].Name)
		})
	}

	_, err := DecodeToolsList(strings.NewReader(`{"tools": `))
	assert.Error(t, err)
}

func TestToCreateToolRequest(t *testing.T) {
	tool := Tool{
		Name:        "createPet",
		Description: "Creates a new pet in the system",
		InputSchema: InputSchema{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{"type": "string"},
				"age":  map[string]interface{}{"type": "integer"},
			},
			"required": []string{"name"},
		},
	}

	req, err := ToCreateToolRequest(tool)
	require.NoError(t, err)

	assert.Equal(t, api.CreateToolRequestTypeFunction, req.Type)
	assert.Equal(t, "createPet", req.Function.GetName())
	require.NotNil(t, req.Function.Description)
	assert.Equal(t, "Creates a new pet in the system", *req.Function.Description)
	assert.Equal(t, []string{"name"}, req.Function.Parameters["required"])

	assert.NoError(t, req.Function.ValidateArguments(map[string]any{"name": "Whiskers", "age": float64(5)}))
	assert.Error(t, req.Function.ValidateArguments(map[string]any{"age": float64(5)}))
}

func TestToCreateToolRequest_Defaults(t *testing.T) {
	req, err := ToCreateToolRequest(Tool{Name: "ping"})
	require.NoError(t, err)

	assert.Nil(t, req.Function.Description)
	assert.Equal(t, api.FunctionParameters{"type": "object"}, req.Function.Parameters)
}

func TestToCreateToolRequest_KeepsSchemaKeywords(t *testing.T) {
	list, err := DecodeToolsList(strings.NewReader(`{"tools": [{
		"name": "createOrder",
		"inputSchema": {
			"type": "object",
			"$defs": {"item": {"type": "object", "properties": {"sku": {"type": "string"}}, "required": ["sku"]}},
			"properties": {"items": {"type": "array", "items": {"$ref": "#/$defs/item"}}},
			"required": ["items"],
			"additionalProperties": false
		}
	}]}`))
	require.NoError(t, err)
	require.Len(t, list.Tools, 1)

	tool := list.Tools[0]
	req, err := ToCreateToolRequest(tool)
	require.NoError(t, err)

	params := req.Function.Parameters
	assert.Contains(t, params, "$defs")
	assert.Equal(t, false, params["additionalProperties"])

	assert.NoError(t, req.Function.ValidateArguments(map[string]any{
		"items": []any{map[string]any{"sku": "A-1"}},
	}))
	assert.Error(t, req.Function.ValidateArguments(map[string]any{
		"items": []any{map[string]any{"sku": "A-1"}},
		"note":  "leave at door",
	}))
	assert.Error(t, req.Function.ValidateArguments(map[string]any{
		"items": []any{map[string]any{}},
	}))

	params["type"] = "array"
	assert.Equal(t, "object", tool.InputSchema["type"])
}

func TestToCreateToolRequests(t *testing.T) {
	list := &ToolsListResponse{Tools: []Tool{
		{Name: "listPets", InputSchema: InputSchema{"type": "object"}},
		{Name: "GET /pets/{id}", InputSchema: InputSchema{"type": "object"}},
	}}

	_, err := ToCreateToolRequests(list)
	assert.ErrorIs(t, err, api.ErrInvalidName)
	assert.Contains(t, err.Error(), `tool "GET /pets/{id}"`)

	reqs, err := ToCreateToolRequests(&ToolsListResponse{Tools: list.Tools[:1]})
	require.NoError(t, err)
	assert.Len(t, reqs, 1)
}
