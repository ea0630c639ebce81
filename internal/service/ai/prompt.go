package ai

import (
	"bytes"
	"log"
	"os"
)

// DefaultSystemPrompt keeps the assistant usable before a training
// prompt has been installed.
const DefaultSystemPrompt = "You are a helpful and empathetic assistant named A SEED."

func loadSystemPrompt(path string) string {
	if path == "" {
		return DefaultSystemPrompt
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[ai] system prompt file %s unavailable, using built-in default: %v", path, err)
		return DefaultSystemPrompt
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return DefaultSystemPrompt
	}
	return string(data)
}
