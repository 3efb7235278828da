package prompt

import (
	"testing"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/constant"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/llm"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_WithResource(t *testing.T) {
	builder := NewBuilder()

	history := []llm.Message{
		{Role: constant.MessageRoleUser, Content: "hello"},
		{Role: constant.MessageRoleAssistant, Content: "hi, how can I help"},
	}
	resource := &store.Resource{
		ID:       "abc",
		Filename: "checkup.mp3",
		Summary:  "routine checkup discussion",
		Score:    0.83,
	}

	messages := builder.Build(history, "what was discussed?", resource)

	require.Len(t, messages, 4)
	assert.Equal(t, constant.MessageRoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "checkup.mp3")
	assert.Contains(t, messages[0].Content, "routine checkup discussion")
	assert.Equal(t, history[0], messages[1])
	assert.Equal(t, history[1], messages[2])
	assert.Equal(t, llm.Message{Role: constant.MessageRoleUser, Content: "what was discussed?"}, messages[3])
}

func TestBuilder_WithoutResource(t *testing.T) {
	builder := NewBuilder()

	messages := builder.Build(nil, "general question", nil)

	require.Len(t, messages, 2)
	assert.Equal(t, constant.MessageRoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "No recording matched")
	assert.Equal(t, "general question", messages[1].Content)
}

func TestBuilder_QueryAlwaysLast(t *testing.T) {
	builder := NewBuilder()

	history := []llm.Message{
		{Role: constant.MessageRoleUser, Content: "first"},
		{Role: constant.MessageRoleAssistant, Content: "second"},
		{Role: constant.MessageRoleUser, Content: "third"},
	}

	messages := builder.Build(history, "the question", nil)

	last := messages[len(messages)-1]
	assert.Equal(t, constant.MessageRoleUser, last.Role)
	assert.Equal(t, "the question", last.Content)
}
