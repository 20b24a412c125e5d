package command_test

import (
	"github.com/bwmarrin/discordgo"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/rollcall/internal/command"
	"basegraph.app/rollcall/internal/queue"
)

var _ = Describe("Parse", func() {
	DescribeTable("recognized commands",
		func(content string, want command.Invocation) {
			inv, ok, err := command.Parse(content)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(inv).To(Equal(want))
		},
		Entry("check", "!check", command.Invocation{TaskType: queue.TaskTypeRoleOverview}),
		Entry("check in any case with trailing words", "  !CHECK bitte", command.Invocation{TaskType: queue.TaskTypeRoleOverview}),
		Entry("reactcheck with id", "!reactcheck 123", command.Invocation{TaskType: queue.TaskTypeReactionCheck, MessageArg: "123"}),
		Entry("reactcheck with multi word role", "!ReactCheck https://discord.com/channels/1/2/3   Team  Rot",
			command.Invocation{TaskType: queue.TaskTypeReactionCheck, MessageArg: "https://discord.com/channels/1/2/3", RoleName: "Team Rot"}),
	)

	DescribeTable("ordinary chat",
		func(content string) {
			_, ok, err := command.Parse(content)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		},
		Entry("empty", ""),
		Entry("prefix of a longer word", "!checker"),
		Entry("not at the start", "bitte !check"),
		Entry("other command", "!help"),
	)

	It("asks for an argument when reactcheck has none", func() {
		_, ok, err := command.Parse("!reactcheck")
		Expect(ok).To(BeTrue())
		Expect(err).To(MatchError(command.ErrUsage))
	})
})

var _ = Describe("FromSlash", func() {
	str := func(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
		return &discordgo.ApplicationCommandInteractionDataOption{
			Name:  name,
			Type:  discordgo.ApplicationCommandOptionString,
			Value: value,
		}
	}

	It("maps the role overview", func() {
		inv, ok, err := command.FromSlash(discordgo.ApplicationCommandInteractionData{Name: command.SlashRoleOverview})
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(inv.TaskType).To(Equal(queue.TaskTypeRoleOverview))
	})

	It("maps the reaction check options", func() {
		inv, ok, err := command.FromSlash(discordgo.ApplicationCommandInteractionData{
			Name: command.SlashReactCheck,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				str(command.OptionMessage, " 123 "),
				str(command.OptionRole, "Team Rot"),
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(inv).To(Equal(command.Invocation{TaskType: queue.TaskTypeReactionCheck, MessageArg: "123", RoleName: "Team Rot"}))
	})

	It("rejects a reaction check without message", func() {
		_, ok, err := command.FromSlash(discordgo.ApplicationCommandInteractionData{Name: command.SlashReactCheck})
		Expect(ok).To(BeTrue())
		Expect(err).To(MatchError(command.ErrUsage))
	})

	It("ignores unknown commands", func() {
		_, ok, err := command.FromSlash(discordgo.ApplicationCommandInteractionData{Name: "ping"})
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("registers a required message option", func() {
		cmds := command.SlashCommands()
		Expect(cmds).To(HaveLen(2))
		Expect(cmds[1].Options[0].Name).To(Equal(command.OptionMessage))
		Expect(cmds[1].Options[0].Required).To(BeTrue())
	})
})
