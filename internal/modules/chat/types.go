package chat

import "errors"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	ModeRemote    = "remote"
	ModeRuleBased = "rule-based"

	defaultMaxTokens   = 300
	historyLimit       = 10
	promptSkillLimit   = 15
	promptProjectLimit = 10
)

// Turn is one message of the client-held conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatDTO struct {
	Message             string `json:"message" binding:"required"`
	ConversationHistory []Turn `json:"conversationHistory"`
}

// Reply is the responder's answer and the path that produced it.
type Reply struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
	Mode     string `json:"mode"`
}

type Status struct {
	RemoteConfigured bool         `json:"remoteConfigured"`
	Provider         string       `json:"provider,omitempty"`
	Model            string       `json:"model,omitempty"`
	Breaker          BreakerState `json:"breaker"`
	Mode             string       `json:"mode"`
}

const emptyCompletionReply = "I apologize, but I could not generate a response. Please try again."

var errMessageRequired = errors.New("message is required")
