package model

// MessageRef addresses a single message inside a guild.
type MessageRef struct {
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// Reaction is one emoji attached to a message.
type Reaction struct {
	// Emoji is the API name used to list reactors: the unicode character for
	// standard emoji, "name:id" for custom ones.
	Emoji string `json:"emoji"`
	Name  string `json:"name"`
}

type Message struct {
	Ref       MessageRef `json:"ref"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

// URL is the deep link Discord clients open for the message.
func (r MessageRef) URL() string {
	return "https://discord.com/channels/" + r.GuildID + "/" + r.ChannelID + "/" + r.MessageID
}
