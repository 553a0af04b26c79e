package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefinition = `openapi: 3.0.0
info:
  title: Agents API
  version: 0.3.0
paths: {}
components:
  schemas:
    FunctionDef:
      type: object
      properties:
        name: {type: string}
        description: {type: string}
        parameters: {type: object, additionalProperties: {}}
      required: [parameters]
    CreateToolRequest:
      type: object
      properties:
        type: {type: string, enum: [function, webhook]}
        function: {$ref: '#/components/schemas/FunctionDef'}
      required: [type, function]
`

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate(t *testing.T) {
	yamlTool := writeFile(t, "hello.yaml", `type: function
function:
  name: hello_world1
  description: A function that prints hello world
  parameters:
    type: object
    properties: {}
`)
	jsonList := writeFile(t, "tools.json", `[
  {"type": "function", "function": {"name": "a", "parameters": {"type": "object"}}},
  {"type": "webhook", "function": {"name": "b", "parameters": {"type": "object"}}}
]`)

	stdout, stderr, err := run(t, "", "validate", yamlTool, jsonList)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{
		"type": "function",
		"function": {
			"name": "hello_world1",
			"description": "A function that prints hello world",
			"parameters": {"type": "object", "properties": {}}
		}
	}`, lines[0])

	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &list))
	assert.Len(t, list, 2)
}

func TestValidate_Failures(t *testing.T) {
	good := writeFile(t, "good.json", `{"type": "function", "function": {"name": "a", "parameters": {"type": "object"}}}`)
	bad := writeFile(t, "bad.json", `[
  {"type": "function", "function": {"name": "a", "parameters": {"type": "object"}}},
  {"type": "api_call", "function": {"name": "b", "parameters": {"type": "object"}}}
]`)

	stdout, stderr, err := run(t, "", "validate", good, bad, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 files failed validation")
	assert.Contains(t, stderr, `1.type: expected one of "function", "webhook", got "api_call"`)
	assert.Contains(t, stderr, "missing.json")
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(stdout), "\n")+1)
}

func TestValidate_ConfigOptions(t *testing.T) {
	tool := `{"name": "hello_world1", "type": "function", "function": {"name": "hello_world1", "parameters": {"type": "object"}}}`

	_, _, err := run(t, tool, "validate", "-")
	require.Error(t, err)

	configPath := writeFile(t, "tooldef.yaml", "unrecognizedKeys: passthrough\n")
	stdout, _, err := run(t, tool, "--config", configPath, "validate", "-")
	require.NoError(t, err)
	assert.JSONEq(t, tool, stdout)
}

func TestValidate_UnnamedFunction(t *testing.T) {
	fixture := `{"function": {"description": "A function that prints hello world", "parameters": {"type": "object", "properties": {}}}, "name": "hello_world1", "type": "function"}`

	_, stderr, err := run(t, fixture, "validate", "-")
	require.Error(t, err)
	assert.Contains(t, stderr, "name: unexpected key")
	assert.NotContains(t, stderr, "function.name")

	configPath := writeFile(t, "tooldef.yaml", "unrecognizedKeys: strip\n")
	stdout, _, err := run(t, fixture, "--config", configPath, "validate", "-")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "function",
		"function": {
			"description": "A function that prints hello world",
			"parameters": {"type": "object", "properties": {}}
		}
	}`, stdout)
}

func TestSchema(t *testing.T) {
	stdout, _, err := run(t, "", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Equal(t, "CreateToolRequest", schema["title"])

	stdout, _, err = run(t, "", "schema", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "title: CreateToolRequest")

	_, _, err = run(t, "", "schema", "--format", "toml")
	assert.Error(t, err)
}

func TestCheck_File(t *testing.T) {
	path := writeFile(t, "openapi.yaml", testDefinition)

	_, _, err := run(t, "", "check", path)
	assert.NoError(t, err)

	drifted := writeFile(t, "drifted.yaml", strings.Replace(testDefinition, "required: [type, function]", "required: [type]", 1))
	stdout, _, err := run(t, "", "check", drifted)
	require.Error(t, err)
	assert.Contains(t, stdout, "CreateToolRequest.function: binding requires the property but the definition does not")
}

func TestCheck_Errors(t *testing.T) {
	_, _, err := run(t, "", "check")
	assert.ErrorContains(t, err, "no OpenAPI definition given")

	_, _, err = run(t, "", "check", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "definition file does not exist")

	_, _, err = run(t, "", "check", t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestCheck_URL(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write([]byte(testDefinition))
	}))
	defer ts.Close()

	_, _, err := run(t, "", "--retries", "0", "check", "--auth", "Bearer token123", ts.URL+"/openapi.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Bearer token123", gotAuth)

	_, _, err = run(t, "", "--retries", "0", "--rps", "10", "check", ts.URL+"/openapi.yaml")
	assert.NoError(t, err)

	_, _, err = run(t, "", "--retries", "0", "check", ts.URL+"/missing.yaml")
	assert.ErrorContains(t, err, "404")
}

func TestRateLimitedBackoff(t *testing.T) {
	backoff := rateLimitedBackoff(2)
	assert.Equal(t, 500*time.Millisecond, backoff(0, time.Minute, 0, nil))
	assert.Equal(t, time.Second, backoff(0, time.Minute, 1, nil))
	assert.Equal(t, 2*time.Second, backoff(2*time.Second, time.Minute, 0, nil))
	assert.Equal(t, 3*time.Second, backoff(0, 3*time.Second, 5, nil))
}

func TestCheck_ConfigDefinition(t *testing.T) {
	definition := writeFile(t, "openapi.yaml", testDefinition)
	configPath := writeFile(t, "tooldef.json", `{"definition": "`+definition+`"}`)

	_, _, err := run(t, "", "--config", configPath, "check")
	assert.NoError(t, err)
}

func TestImportMCP(t *testing.T) {
	listing := `{"jsonrpc": "2.0", "id": 1, "result": {"tools": [
		{"name": "listPets", "description": "List all pets", "inputSchema": {"type": "object", "properties": {"limit": {"type": "integer"}}}},
		{"name": "createPet", "inputSchema": {"type": "object", "properties": {"name": {"type": "string"}}, "required": ["name"]}}
	]}}`

	stdout, _, err := run(t, listing, "import-mcp", "-")
	require.NoError(t, err)

	var reqs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &reqs))
	require.Len(t, reqs, 2)
	assert.Equal(t, "function", reqs[0]["type"])

	fn, ok := reqs[1]["function"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "createPet", fn["name"])
	assert.NotContains(t, fn, "description")

	_, _, err = run(t, `{"tools": [{"name": "GET /pets", "inputSchema": {"type": "object"}}]}`, "import-mcp", "-")
	assert.Error(t, err)
}
