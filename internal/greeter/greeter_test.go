package greeter_test

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/rollcall/internal/greeter"
)

const (
	guildID   = "100000000000000001"
	botID     = "100000000000000002"
	newUserID = "100000000000000003"
	welcomeCh = "200000000000000001"
	goodbyeCh = "200000000000000002"
	botRole   = "300000000000000001"
	newbie    = "300000000000000002"
	admins    = "300000000000000003"
)

var _ = Describe("Greeter", func() {
	var (
		ctx   context.Context
		api   *mockAPI
		cfg   greeter.Config
		roles []*discordgo.Role
	)

	BeforeEach(func() {
		ctx = context.Background()
		api = &mockAPI{}
		cfg = greeter.Config{
			WelcomeChannelID: welcomeCh,
			GoodbyeChannelID: goodbyeCh,
			WelcomeRoleIDs:   []string{newbie},
		}
		roles = []*discordgo.Role{
			{ID: guildID, Name: "@everyone", Position: 0},
			{ID: botRole, Name: "Bot", Position: 5, Permissions: discordgo.PermissionManageRoles},
			{ID: newbie, Name: "Neuling", Position: 1},
			{ID: admins, Name: "Admin", Position: 9},
		}
		api.guildRolesFn = func(string) ([]*discordgo.Role, error) { return roles, nil }
		api.guildMemberFn = func(_, userID string) (*discordgo.Member, error) {
			Expect(userID).To(Equal(botID))
			return &discordgo.Member{Roles: []string{botRole}}, nil
		}
	})

	newMember := func() *discordgo.Member {
		return &discordgo.Member{User: &discordgo.User{ID: newUserID, Username: "neo"}}
	}

	Describe("MemberJoined", func() {
		It("welcomes the member, mentioning only them, and grants the welcome role", func() {
			g := greeter.New(api, cfg, botID)

			Expect(g.MemberJoined(ctx, guildID, newMember())).To(Succeed())

			Expect(api.sent).To(HaveLen(1))
			Expect(api.sent[0].channelID).To(Equal(welcomeCh))
			Expect(api.sent[0].data.Content).To(Equal("🎉 Willkommen in der Familie, <@" + newUserID + ">!"))
			Expect(api.sent[0].data.AllowedMentions.Users).To(Equal([]string{newUserID}))
			Expect(api.granted).To(Equal([]string{newbie}))
		})

		It("skips roles ranked at or above the bot's highest role", func() {
			cfg.WelcomeRoleIDs = []string{admins, newbie}
			g := greeter.New(api, cfg, botID)

			Expect(g.MemberJoined(ctx, guildID, newMember())).To(Succeed())
			Expect(api.granted).To(Equal([]string{newbie}))
		})

		It("skips all roles without Manage Roles", func() {
			roles[1].Permissions = 0
			g := greeter.New(api, cfg, botID)

			Expect(g.MemberJoined(ctx, guildID, newMember())).To(Succeed())
			Expect(api.granted).To(BeEmpty())
		})

		It("accepts Administrator granted through @everyone", func() {
			roles[1].Permissions = 0
			roles[0].Permissions = discordgo.PermissionAdministrator
			g := greeter.New(api, cfg, botID)

			Expect(g.MemberJoined(ctx, guildID, newMember())).To(Succeed())
			Expect(api.granted).To(Equal([]string{newbie}))
		})

		It("ignores unknown welcome roles", func() {
			cfg.WelcomeRoleIDs = []string{"399999999999999999"}
			g := greeter.New(api, cfg, botID)

			Expect(g.MemberJoined(ctx, guildID, newMember())).To(Succeed())
			Expect(api.granted).To(BeEmpty())
		})

		It("still grants roles when the welcome post fails", func() {
			api.sendFn = func(string, *discordgo.MessageSend) (*discordgo.Message, error) {
				return nil, errors.New("boom")
			}
			g := greeter.New(api, cfg, botID)

			err := g.MemberJoined(ctx, guildID, newMember())
			Expect(err).To(MatchError(ContainSubstring("posting welcome")))
			Expect(api.granted).To(Equal([]string{newbie}))
		})

		It("does nothing when nothing is configured", func() {
			g := greeter.New(api, greeter.Config{}, botID)

			Expect(g.MemberJoined(ctx, guildID, newMember())).To(Succeed())
			Expect(api.sent).To(BeEmpty())
			Expect(api.granted).To(BeEmpty())
		})
	})

	Describe("MemberLeft", func() {
		It("posts the goodbye line with the user's tag", func() {
			g := greeter.New(api, cfg, botID)

			err := g.MemberLeft(ctx, &discordgo.User{ID: newUserID, Username: "neo", Discriminator: "0"})
			Expect(err).NotTo(HaveOccurred())
			Expect(api.sent).To(HaveLen(1))
			Expect(api.sent[0].channelID).To(Equal(goodbyeCh))
			Expect(api.sent[0].data.Content).To(Equal("🚪 **neo** hat seinen/ihren Bloodout bekommen."))
			Expect(api.sent[0].data.AllowedMentions.Parse).To(BeEmpty())
		})

		It("stays quiet without a goodbye channel", func() {
			cfg.GoodbyeChannelID = ""
			g := greeter.New(api, cfg, botID)

			Expect(g.MemberLeft(ctx, &discordgo.User{ID: newUserID, Username: "neo"})).To(Succeed())
			Expect(api.sent).To(BeEmpty())
		})
	})
})
