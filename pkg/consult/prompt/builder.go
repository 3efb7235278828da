package prompt

import (
	"fmt"
	"strings"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/constant"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/llm"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/store"
)

// Builder assembles the message list sent to the model for one turn.
type Builder struct {
	systemPrompt string
}

func NewBuilder() *Builder {
	return &Builder{
		systemPrompt: constant.ConsultationSystemPromptV1,
	}
}

// Build layers the system prompt, the optional retrieved recording, the
// conversation window, and the current query. When a resource is
// present the model is told to ground its answer in that recording;
// otherwise it is told to answer from the conversation alone.
func (b *Builder) Build(history []llm.Message, query string, resource *store.Resource) []llm.Message {
	var system strings.Builder
	system.WriteString(b.systemPrompt)

	if resource != nil {
		system.WriteString("\n\n")
		system.WriteString("A recording relevant to the consultation was found. ")
		system.WriteString("Ground your answer in its content and mention it naturally.\n")
		system.WriteString(fmt.Sprintf("Recording: %s\n", resource.Filename))
		system.WriteString(fmt.Sprintf("Summary: %s", resource.Summary))
	} else {
		system.WriteString("\n\n")
		system.WriteString("No recording matched this question. Answer from the conversation so far and general knowledge, and do not invent recordings.")
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    constant.MessageRoleSystem,
		Content: system.String(),
	})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role:    constant.MessageRoleUser,
		Content: query,
	})
	return messages
}
