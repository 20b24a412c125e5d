package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers set them once per invocation; everything below logs with ctx and
// gets guild, channel and command attached for free.
type LogFields struct {
	GuildID      *string // Discord guild the invocation belongs to
	ChannelID    *string // Channel the reply goes to
	InvocationID *string // Interaction id or generated id for text commands
	Command      *string // Task type, e.g. "role_overview"
	MessageID    *string // Redis stream message ID
	Component    string  // Component name, e.g. "rollcall.worker.processor"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.GuildID != nil {
		result.GuildID = new.GuildID
	}
	if new.ChannelID != nil {
		result.ChannelID = new.ChannelID
	}
	if new.InvocationID != nil {
		result.InvocationID = new.InvocationID
	}
	if new.Command != nil {
		result.Command = new.Command
	}
	if new.MessageID != nil {
		result.MessageID = new.MessageID
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{GuildID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens s to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
