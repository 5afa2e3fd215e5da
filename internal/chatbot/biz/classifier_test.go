package biz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/campus-chat/internal/chatbot/biz"
)

func TestIsCampusQuestion(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"What is SREC?", true},
		{"tell me about sree rama", true},
		{"Who is the PRINCIPAL?", true},
		{"how are the placements", true}, // substring match on "placement"
		{"hostel fees please", true},
		{"what is the weather like", false},
		{"tell me a joke", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, biz.IsCampusQuestion(tt.message), "message: %q", tt.message)
	}
}

func TestIsTimeQuestion(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"what time is it?", true},
		{"What's the time", true},
		{"current time in IST please", true},
		{"what is today's date", true},
		{"tell me about timetables", true}, // substring match on "time"
		{"hello there", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, biz.IsTimeQuestion(tt.message), "message: %q", tt.message)
	}
}
