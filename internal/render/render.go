// Package render turns report pages into Discord messages, either as embeds
// or as plain text for channels where embeds are unavailable.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"basegraph.app/rollcall/internal/report"
)

// Discord message limits.
const (
	MaxEmbedsPerMessage = 10
	MaxFieldsPerEmbed   = 25
	MaxEmbedChars       = 6000 // summed over all embeds of one message
)

const (
	ProgressRoleOverview = "⏳ Erstelle Rollenübersicht…"
	EmptyRoleOverview    = "Keine (nicht-Bot) Mitglieder mit Rollen gefunden."
)

type Mode string

const (
	ModeEmbed Mode = "embed"
	ModePlain Mode = "plain"
)

// Message is one outgoing Discord message.
type Message struct {
	Content string
	Embeds  []*discordgo.MessageEmbed
}

type Renderer struct {
	mode Mode
}

// New returns a renderer for mode. Anything but ModePlain renders embeds.
func New(mode Mode) *Renderer {
	if mode != ModePlain {
		mode = ModeEmbed
	}
	return &Renderer{mode: mode}
}

func (r *Renderer) Mode() Mode {
	return r.mode
}

// Notice is a single text reply.
func (r *Renderer) Notice(text string) []Message {
	return []Message{{Content: text}}
}

// Total is the closing line of a role overview.
func Total(n int) string {
	return fmt.Sprintf("**Gesamt:** %d Mitglieder", n)
}

// RoleOverview renders every role page followed by the total line.
func (r *Renderer) RoleOverview(rep *report.RoleReport) []Message {
	if rep == nil || len(rep.Pages) == 0 {
		return r.Notice(EmptyRoleOverview)
	}

	var msgs []Message
	if r.mode == ModePlain {
		var lines []string
		for _, p := range rep.Pages {
			lines = append(lines, "**"+p.Title+"**")
			lines = append(lines, strings.Split(p.Body, "\n")...)
			lines = append(lines, "_"+p.Footer+"_")
		}
		msgs = plainMessages(lines)
	} else {
		embeds := make([]*discordgo.MessageEmbed, len(rep.Pages))
		for i, p := range rep.Pages {
			embeds[i] = &discordgo.MessageEmbed{
				Title:       p.Title,
				Description: p.Body,
				Color:       p.Color,
				Footer:      &discordgo.MessageEmbedFooter{Text: p.Footer},
			}
		}
		msgs = embedMessages(embeds)
	}

	return append(msgs, Message{Content: Total(rep.TotalAssigned)})
}

func plainMessages(lines []string) []Message {
	pages := report.Chunk(lines, report.PlainTextLimits)
	msgs := make([]Message, 0, len(pages))
	for _, p := range pages {
		msgs = append(msgs, Message{Content: p.Text()})
	}
	return msgs
}

// embedMessages batches embeds into messages that respect both the per
// message embed count and the shared character budget.
func embedMessages(embeds []*discordgo.MessageEmbed) []Message {
	var (
		msgs    []Message
		current []*discordgo.MessageEmbed
		chars   int
	)
	for _, e := range embeds {
		n := EmbedChars(e)
		if len(current) > 0 && (len(current) >= MaxEmbedsPerMessage || chars+n > MaxEmbedChars) {
			msgs = append(msgs, Message{Embeds: current})
			current = nil
			chars = 0
		}
		current = append(current, e)
		chars += n
	}
	if len(current) > 0 {
		msgs = append(msgs, Message{Embeds: current})
	}
	return msgs
}

// EmbedChars counts the characters Discord charges against MaxEmbedChars.
func EmbedChars(e *discordgo.MessageEmbed) int {
	n := utf8.RuneCountInString(e.Title) + utf8.RuneCountInString(e.Description)
	if e.Footer != nil {
		n += utf8.RuneCountInString(e.Footer.Text)
	}
	for _, f := range e.Fields {
		n += utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)
	}
	return n
}
