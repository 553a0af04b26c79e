package internal

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SplitDocuments decodes a JSON or YAML file holding one object or a list
// of objects and returns each as JSON. list reports whether the file was a list.
func SplitDocuments(data []byte) (docs []json.RawMessage, list bool, err error) {
	var value interface{}
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, false, fmt.Errorf("error parsing document: %w", err)
	}
	if value == nil {
		return nil, false, fmt.Errorf("document is empty")
	}

	items, list := value.([]interface{})
	if !list {
		items = []interface{}{value}
	}

	docs = make([]json.RawMessage, 0, len(items))
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, list, fmt.Errorf("error encoding item %d as JSON: %w", i, err)
		}
		docs = append(docs, data)
	}
	return docs, list, nil
}
