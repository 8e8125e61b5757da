package llm

import "strings"

// ChatML sentinels used in composed prompts. Local inference consumes the
// raw prompt; the remote provider splits it back into chat messages.
const (
	sentinelStart = "<|im_start|>"
	sentinelEnd   = "<|im_end|>"
)

// ComposePrompt assembles a ChatML prompt from system and user content.
func ComposePrompt(system, user string) string {
	var b strings.Builder

	b.WriteString(sentinelStart)
	b.WriteString("system\n")
	b.WriteString(system)
	b.WriteString("\n")
	b.WriteString(sentinelEnd)
	b.WriteString("\n")

	b.WriteString(sentinelStart)
	b.WriteString("user\n")
	b.WriteString(user)
	b.WriteString("\n")
	b.WriteString(sentinelEnd)
	b.WriteString("\n")

	b.WriteString(sentinelStart)
	b.WriteString("assistant\n")

	return b.String()
}

// splitPrompt recovers the system and user segments from a ChatML prompt.
// A prompt without sentinels is treated as a bare user message.
func splitPrompt(prompt string) (system, user string) {
	if !strings.Contains(prompt, sentinelStart) {
		return "", strings.TrimSpace(prompt)
	}

	for _, segment := range strings.Split(prompt, sentinelStart) {
		segment = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(segment), sentinelEnd))
		if segment == "" {
			continue
		}

		role, content, found := strings.Cut(segment, "\n")
		if !found {
			continue
		}

		switch strings.TrimSpace(role) {
		case "system":
			system = strings.TrimSpace(content)
		case "user":
			user = strings.TrimSpace(content)
		}
	}

	return system, user
}
