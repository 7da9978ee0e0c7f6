package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

func TestDecodeModelListing(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "openai listing object",
			body: `{"object":"list","data":[{"id":"gpt-4o","object":"model"},{"id":"gpt-4o-mini"}]}`,
			want: []string{"gpt-4o", "gpt-4o-mini"},
		},
		{
			name: "models field",
			body: `{"models":[{"name":"llama3:8b","model":"llama3:8b"},{"name":"qwen2"}]}`,
			want: []string{"llama3:8b", "qwen2"},
		},
		{
			name: "data wins over models",
			body: `{"data":["a"],"models":["b"]}`,
			want: []string{"a"},
		},
		{
			name: "bare list of strings",
			body: `["deepseek-chat","deepseek-reasoner"]`,
			want: []string{"deepseek-chat", "deepseek-reasoner"},
		},
		{
			name: "key precedence and numbers",
			body: `[{"model":"m","name":"n"},{"name":"only-name"},{"id":42},{"id":"","model":"fallback"}]`,
			want: []string{"m", "only-name", "42", "fallback"},
		},
		{
			name: "elements without id are dropped",
			body: `{"data":[{"object":"model"},null,7,{"id":null},"",{"id":"keep"}]}`,
			want: []string{"keep"},
		},
		{
			name: "object without list field",
			body: `{"object":"list","items":[{"id":"x"}]}`,
			want: []string{},
		},
		{
			name: "scalar",
			body: `"gpt-4"`,
			want: []string{},
		},
		{
			name: "invalid json",
			body: `<html>`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeModelListing([]byte(tt.body))
			ids := make([]string, len(got))
			for i, m := range got {
				ids[i] = m.ID
			}
			assert.Equal(t, tt.want, ids)
			assert.NotNil(t, got)
		})
	}
}

func TestDecodeModelListing_Descriptors(t *testing.T) {
	got := DecodeModelListing([]byte(`{"data":[{"id":"a"}]}`))
	assert.Equal(t, []domain.ModelDescriptor{{ID: "a"}}, got)
}
