// Package model defines the core data types shared across the chatbot
// service layers.
package model

// Document is a single knowledge base entry prepared for indexing.
type Document struct {
	// ID is the ordinal position of the entry in the knowledge file.
	ID int `json:"id"`

	Question string `json:"question"`
	Answer   string `json:"answer"`

	// Text is the indexed representation, "Q: <question>\nA: <answer>".
	Text string `json:"text"`
}

// Source describes one retrieved document with its similarity score.
type Source struct {
	ID       int     `json:"id"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Text     string  `json:"text"`
	Score    float32 `json:"score"`
}

// RetrievalResult is the outcome of a knowledge base lookup.
type RetrievalResult struct {
	// Context is the retrieved texts joined with "\n\n---\n\n".
	Context string `json:"context"`

	Sources []Source `json:"sources"`
}

// Timestamp records when a conversation turn happened, in IST wall-clock
// form as shown to users.
type Timestamp struct {
	Time string `json:"time"`
	Date string `json:"date"`
}

// Turn is one message in a conversation.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp Timestamp `json:"timestamp"`
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)
