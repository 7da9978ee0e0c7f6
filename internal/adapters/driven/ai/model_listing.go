package ai

import (
	"bytes"
	"encoding/json"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// modelIDKeys are tried in order on object elements
var modelIDKeys = []string{"id", "model", "name"}

// DecodeModelListing normalizes a model listing body into {id} records.
//
// Accepted shapes, in order: an object with a "data" array (the OpenAI
// listing), an object with a "models" array (Ollama and others), or a bare
// array. Elements may be strings or objects carrying id, model or name.
// Elements without an id are dropped; any other shape yields an empty list.
func DecodeModelListing(body []byte) []domain.ModelDescriptor {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return []domain.ModelDescriptor{}
	}

	var items []interface{}
	switch v := raw.(type) {
	case map[string]interface{}:
		if list, ok := v["data"].([]interface{}); ok {
			items = list
		} else if list, ok := v["models"].([]interface{}); ok {
			items = list
		}
	case []interface{}:
		items = v
	}

	models := make([]domain.ModelDescriptor, 0, len(items))
	for _, item := range items {
		if id := modelID(item); id != "" {
			models = append(models, domain.ModelDescriptor{ID: id})
		}
	}
	return models
}

func modelID(item interface{}) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]interface{}:
		for _, key := range modelIDKeys {
			if id := scalarString(v[key]); id != "" {
				return id
			}
		}
	}
	return ""
}

func scalarString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		if s.String() == "0" {
			return ""
		}
		return s.String()
	default:
		return ""
	}
}
