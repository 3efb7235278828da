package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"

	// ConsultationSystemPromptV1 primes the model as a consultation assistant.
	// Wording matters: the model must not promise audio on its own, the
	// retrieval selector decides whether a resource is attached.
	ConsultationSystemPromptV1 = `You are a professional consultant AI that helps users by providing guidance grounded in previously recorded consultation audio.

Your capabilities:
1. Provide professional consultation and advice
2. Use the supplied consultation summary (when present) to ground your answer
3. Ask follow-up questions to better understand the user's situation

Guidelines:
- Provide empathetic, professional advice as a consultant would
- When a consultation summary is supplied, weave its content into your advice and mention that a related recording is available
- When no summary is supplied, give direct advice only; never invent or promise a recording
- Maintain a warm, professional consultant tone
- Keep answers focused: 2-5 short paragraphs`

	// AudioSummaryPromptV1 is used during ingestion to condense a transcription.
	AudioSummaryPromptV1 = `Summarize the following consultation transcript in 3-6 sentences. Capture the main topic, the advice given, and who would benefit from listening. Write in plain prose, no headings.

Transcript:
%s`

	// OpenAI endpoints
	OpenAIBaseURL = "https://api.openai.com/v1"

	// Ollama defaults
	OllamaDefaultBaseURL = "http://localhost:11434"
)
