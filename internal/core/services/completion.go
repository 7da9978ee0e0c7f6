package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// ExtractContent returns the trimmed text of the first choice.
// Malformed results fail with domain.ErrEmptyChoices or domain.ErrEmptyContent;
// the raw result is logged for operators and never returned to the caller.
func ExtractContent(logger *slog.Logger, model string, result *domain.CompletionResult) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if result == nil || len(result.Choices) == 0 {
		logger.Error("completion has no choices", "model", model, "response", dumpResult(result))
		return "", domain.ErrEmptyChoices
	}

	msg := result.Choices[0].Message
	if msg == nil || msg.Content == nil || *msg.Content == "" {
		logger.Error("completion has empty content", "model", model, "response", dumpResult(result))
		return "", domain.ErrEmptyContent
	}

	return strings.TrimSpace(*msg.Content), nil
}

// dumpResult serializes a result for diagnostics, falling back to %+v
func dumpResult(result *domain.CompletionResult) string {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%+v", result)
	}
	return string(data)
}
