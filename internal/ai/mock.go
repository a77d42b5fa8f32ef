package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/roadside-plus/backend/internal/utils"
)

// MockAssistant answers without a model. Replies are derived from the prompt
// hash, so the same prompt always gets the same answer.
type MockAssistant struct {
	ModelVersion string
}

func (m MockAssistant) Ask(ctx context.Context, prompt string, history []ChatMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h := utils.HashStringToUint64(prompt)

	causes := []string{
		"A value was used before it was initialised.",
		"A network request failed and the error was not handled.",
		"The component received props in an unexpected shape.",
	}
	fixes := []string{
		"Add a guard for the missing value before using it.",
		"Wrap the call in error handling and surface a message to the user.",
		"Validate the input shape at the boundary.",
	}

	if strings.Contains(prompt, "Review the following") {
		return fmt.Sprintf(`## Summary
Offline review (%s). The code is readable; a few points need attention.

## Issues
- %s
- Error paths are not covered by tests.

## Suggestions
- %s

## Security
- No secrets found in the snippet.

## Performance
- No hot paths identified.`, m.ModelVersion, causes[int(h%3)], fixes[int(h/3%3)]), nil
	}

	return fmt.Sprintf(`## Root Cause
%s

## Fix
- %s

## Prevention
- Add a regression test that reproduces the error.`, causes[int(h%3)], fixes[int(h/3%3)]), nil
}
