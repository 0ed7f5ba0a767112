package gigachat

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reason constants
const (
	FinishReasonStop      = "stop"
	FinishReasonLength    = "length"
	FinishReasonBlacklist = "blacklist"
)

// Message is a single message in a conversation.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`
}

// Chat is a completion request. Zero-valued optional fields are omitted from
// the request body, leaving the choice to the server.
type Chat struct {
	// Model is the model identifier. When empty, the client's configured
	// default model is applied.
	Model string `json:"model,omitempty"`

	// Messages is the conversation history
	Messages []Message `json:"messages"`

	// Temperature controls sampling randomness
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP controls nucleus sampling
	TopP *float64 `json:"top_p,omitempty"`

	// MaxTokens caps the number of generated tokens
	MaxTokens *int64 `json:"max_tokens,omitempty"`

	// RepetitionPenalty penalizes repeated tokens
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty"`

	// UpdateInterval is the minimum delay in seconds between streamed chunks
	UpdateInterval *float64 `json:"update_interval,omitempty"`

	// Stream requests the streaming variant of the endpoint. Managed by the
	// client: Chat strips it, ChatStream forces it on.
	Stream *bool `json:"stream,omitempty"`
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CompletionTokens int32 `json:"completion_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
}

// Choice is one generated alternative in a completion response.
type Choice struct {
	// Message is the generated message
	Message Message `json:"message"`

	// Index is the position of this choice in the response
	Index int `json:"index"`

	// FinishReason indicates why generation stopped
	FinishReason string `json:"finish_reason"`
}

// ChatCompletion is a complete (non-streamed) completion response.
type ChatCompletion struct {
	Choices []Choice `json:"choices"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Usage   Usage    `json:"usage"`
	Object  string   `json:"object"`
}

// MessageDelta is the incremental message fragment carried by one chunk.
type MessageDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChunkChoice is one generated alternative inside a streamed chunk.
type ChunkChoice struct {
	// Delta is the incremental content of this chunk
	Delta MessageDelta `json:"delta"`

	// Index is the position of this choice in the response
	Index int `json:"index"`

	// FinishReason is set on the final content chunk
	FinishReason string `json:"finish_reason,omitempty"`
}

// ChatCompletionChunk is one incrementally-delivered unit of a streamed
// completion response.
type ChatCompletionChunk struct {
	Choices []ChunkChoice `json:"choices"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Object  string        `json:"object"`
}

// Model describes one available model.
type Model struct {
	// ID is the model identifier (e.g. "GigaChat", "GigaChat-Pro")
	ID string `json:"id"`

	// Object is the resource type, always "model"
	Object string `json:"object"`

	// OwnedBy is the owner of the model
	OwnedBy string `json:"owned_by"`
}

// Models is the model listing response.
type Models struct {
	// Object is the resource type, always "list"
	Object string `json:"object"`

	// Data holds the available models
	Data []Model `json:"data"`
}

// ThreadRunOptions tunes a thread run.
type ThreadRunOptions struct {
	// Model overrides the model used for the run
	Model string `json:"model,omitempty"`

	// Temperature controls sampling randomness
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens caps the number of generated tokens
	MaxTokens *int64 `json:"max_tokens,omitempty"`
}

// ThreadRunResponse reports the outcome of a thread run.
type ThreadRunResponse struct {
	// ThreadID is the thread the run belongs to
	ThreadID string `json:"thread_id"`

	// Status is the run state reported by the server
	Status string `json:"status"`

	// Created is the Unix timestamp the run was accepted at
	Created int64 `json:"created"`
}

// threadRunRequest is the wire body of a thread run: the options flattened
// together with the thread id.
type threadRunRequest struct {
	ThreadRunOptions
	ThreadID string `json:"thread_id"`
}
