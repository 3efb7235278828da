package transcribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/constant"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/llm"
)

// Processor turns a raw recording into the transcript and summary the
// retrieval corpus indexes.
type Processor struct {
	transcriber Transcriber
	llmProvider llm.LLMProvider
}

func NewProcessor(transcriber Transcriber, llmProvider llm.LLMProvider) *Processor {
	return &Processor{
		transcriber: transcriber,
		llmProvider: llmProvider,
	}
}

type Result struct {
	Transcription string
	Summary       string
}

// Process transcribes the file and condenses the transcript into a
// retrieval-friendly summary. An empty transcript short-circuits with
// an empty summary rather than burning an LLM call.
func (p *Processor) Process(ctx context.Context, filePath string) (*Result, error) {
	transcription, err := p.transcriber.Transcribe(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	if strings.TrimSpace(transcription) == "" {
		return &Result{Transcription: transcription}, nil
	}

	summaryPrompt := fmt.Sprintf(constant.AudioSummaryPromptV1, transcription)
	summary, err := p.llmProvider.Generate(ctx, summaryPrompt, llm.WithTemperature(0.3))
	if err != nil {
		return nil, fmt.Errorf("summarize transcript: %w", err)
	}

	return &Result{
		Transcription: transcription,
		Summary:       strings.TrimSpace(summary),
	}, nil
}
