package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	want := map[string][]string{
		"tiles_layout":  {"path", "count", "columns", "rows"},
		"tiles_preview": {"path", "count", "columns", "rows", "show_labels", "color"},
		"tiles_slice":   {"path", "count", "columns", "rows", "dir", "prefix", "format", "quality"},
		"tiles_join":    {"dir", "output", "format", "width", "height", "columns", "rows", "infer_grid"},
	}
	if len(tools) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(tools))
	}

	for _, tool := range tools {
		params, ok := want[tool.Name]
		if !ok {
			t.Errorf("unexpected tool %s", tool.Name)
			continue
		}
		props, ok := tool.InputSchema["properties"].(map[string]interface{})
		if !ok {
			t.Errorf("%s: properties should be a map", tool.Name)
			continue
		}
		for _, p := range params {
			if _, ok := props[p]; !ok {
				t.Errorf("%s: missing parameter %s", tool.Name, p)
			}
		}
		if len(props) != len(params) {
			t.Errorf("%s: got %d parameters, want %d", tool.Name, len(props), len(params))
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}
			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) == 0 {
				t.Fatalf("InputSchema should list required parameters, got %v", tool.InputSchema["required"])
			}
			props := tool.InputSchema["properties"].(map[string]interface{})
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %s is not defined", r)
				}
			}
		})
	}
}

func TestToolDefinitions_SharedPropertiesNotAliased(t *testing.T) {
	// Each tool builds its own property map; adding slice-only options must
	// not leak into the layout tool.
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "tiles_layout" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		if _, ok := props["dir"]; ok {
			t.Error("tiles_layout should not have a dir parameter")
		}
	}
}

func TestToolDefinitions_JSON(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions())
	if err != nil {
		t.Fatalf("Failed to marshal tool definitions: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal tool definitions: %v", err)
	}
	for _, tool := range decoded {
		if _, ok := tool["inputSchema"]; !ok {
			t.Errorf("%v: inputSchema key missing from JSON", tool["name"])
		}
	}
}
