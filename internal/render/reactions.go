package render

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"basegraph.app/rollcall/internal/model"
	"basegraph.app/rollcall/internal/report"
)

const (
	ReactionTitle = "Reaktions-Check (:white_check_mark: / :x:)"
	ReactionColor = 0x5865f2
)

// ReactionSummary is the outcome of one reaction check.
type ReactionSummary struct {
	Ref      model.MessageRef
	RoleName string // empty when every human member was targeted
	Result   report.Classification
}

// SummaryLines is the header block: where the poll is, who was asked and
// how many landed in each category. The conflict line only appears when
// someone voted both ways.
func SummaryLines(s ReactionSummary) []string {
	target := "**Zielgruppe:** Alle Menschen"
	if s.RoleName != "" {
		target = fmt.Sprintf("**Zielgruppe:** Rolle **%s**", s.RoleName)
	}

	lines := []string{
		fmt.Sprintf("**Kanal:** <#%s>", s.Ref.ChannelID),
		fmt.Sprintf("**Nachricht:** [Link](%s)", s.Ref.URL()),
		target,
		fmt.Sprintf("**%s:** %d", report.LabelYes, len(s.Result.Yes)),
		fmt.Sprintf("**%s:** %d", report.LabelNo, len(s.Result.No)),
	}
	if len(s.Result.Both) > 0 {
		lines = append(lines, fmt.Sprintf("**%s:** %d", report.LabelBoth, len(s.Result.Both)))
	}
	return append(lines, fmt.Sprintf("**%s:** %d", report.LabelNone, len(s.Result.None)))
}

// ReactionCheck renders the summary and the four member lists.
func (r *Renderer) ReactionCheck(s ReactionSummary) []Message {
	fields := s.Result.Fields()

	if r.mode == ModePlain {
		lines := append([]string{"**" + ReactionTitle + "**"}, SummaryLines(s)...)
		for _, f := range fields {
			lines = append(lines, "", "**"+f.Name+"**", f.Value)
		}
		return plainMessages(lines)
	}

	first := &discordgo.MessageEmbed{
		Title:       ReactionTitle,
		Description: strings.Join(SummaryLines(s), "\n"),
		Color:       ReactionColor,
	}
	embeds := []*discordgo.MessageEmbed{first}
	current := first
	chars := EmbedChars(first) + partSuffixReserve
	for _, f := range fields {
		field := &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value}
		n := EmbedChars(&discordgo.MessageEmbed{Fields: []*discordgo.MessageEmbedField{field}})
		if len(current.Fields) >= MaxFieldsPerEmbed || chars+n > MaxEmbedChars {
			current = &discordgo.MessageEmbed{Title: ReactionTitle, Color: ReactionColor}
			embeds = append(embeds, current)
			chars = EmbedChars(current) + partSuffixReserve
		}
		current.Fields = append(current.Fields, field)
		chars += n
	}

	if len(embeds) > 1 {
		for i, e := range embeds {
			e.Title = ReactionTitle + report.PartSuffix(i, len(embeds))
		}
	}
	return embedMessages(embeds)
}

// partSuffixReserve keeps room for the " (i/n)" title suffix added once the
// embeds are counted.
const partSuffixReserve = len(" (99/99)")
