// Package greeter posts welcome and goodbye messages and grants the
// configured roles to new members.
package greeter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"basegraph.app/rollcall/internal/discord"
	"basegraph.app/rollcall/internal/model"
)

// API is the part of *discordgo.Session the greeter calls.
type API interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

var _ API = (*discordgo.Session)(nil)

type Config struct {
	WelcomeChannelID string
	GoodbyeChannelID string
	WelcomeRoleIDs   []string
}

type Greeter struct {
	api       API
	cfg       Config
	botUserID string
}

func New(api API, cfg Config, botUserID string) *Greeter {
	return &Greeter{api: api, cfg: cfg, botUserID: botUserID}
}

func WelcomeText(userID string) string {
	return fmt.Sprintf("🎉 Willkommen in der Familie, <@%s>!", userID)
}

func GoodbyeText(tag string) string {
	return fmt.Sprintf("🚪 **%s** hat seinen/ihren Bloodout bekommen.", tag)
}

// MemberLeft posts the goodbye line when a goodbye channel is configured.
func (g *Greeter) MemberLeft(ctx context.Context, user *discordgo.User) error {
	if g.cfg.GoodbyeChannelID == "" || user == nil {
		return nil
	}
	_, err := g.api.ChannelMessageSendComplex(g.cfg.GoodbyeChannelID, &discordgo.MessageSend{
		Content:         GoodbyeText(discord.Tag(user)),
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("posting goodbye: %w", err)
	}
	return nil
}

// MemberJoined welcomes the member and grants the welcome roles. Roles the
// bot may not grant are skipped with a warning.
func (g *Greeter) MemberJoined(ctx context.Context, guildID string, member *discordgo.Member) error {
	if member == nil || member.User == nil {
		return nil
	}

	var errs []error
	if g.cfg.WelcomeChannelID != "" {
		_, err := g.api.ChannelMessageSendComplex(g.cfg.WelcomeChannelID, &discordgo.MessageSend{
			Content:         WelcomeText(member.User.ID),
			AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{member.User.ID}},
		}, discordgo.WithContext(ctx))
		if err != nil {
			errs = append(errs, fmt.Errorf("posting welcome: %w", err))
		}
	}

	if len(g.cfg.WelcomeRoleIDs) > 0 {
		if err := g.grantWelcomeRoles(ctx, guildID, member.User.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *Greeter) grantWelcomeRoles(ctx context.Context, guildID, userID string) error {
	roles, err := g.api.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("listing roles: %w", err)
	}
	me, err := g.api.GuildMember(guildID, g.botUserID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("fetching bot member: %w", err)
	}

	byID := make(map[string]*discordgo.Role, len(roles))
	for _, r := range roles {
		byID[r.ID] = r
	}

	perms, highest := botStanding(guildID, me, byID)
	if perms&(discordgo.PermissionManageRoles|discordgo.PermissionAdministrator) == 0 {
		slog.WarnContext(ctx, "bot lacks Manage Roles, skipping welcome roles")
		return nil
	}

	for _, roleID := range g.cfg.WelcomeRoleIDs {
		role, ok := byID[roleID]
		if !ok {
			slog.WarnContext(ctx, "welcome role not found", "role_id", roleID)
			continue
		}
		if highest == nil || model.CompareRank(toModelRole(highest), toModelRole(role)) >= 0 {
			slog.WarnContext(ctx, "bot role is not above welcome role, check role order", "role", role.Name)
			continue
		}
		if err := g.api.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("granting role %s: %w", role.Name, err)
		}
		slog.InfoContext(ctx, "welcome role granted", "role", role.Name)
	}
	return nil
}

// botStanding returns the bot's guild permissions and its most senior role.
func botStanding(guildID string, me *discordgo.Member, roles map[string]*discordgo.Role) (int64, *discordgo.Role) {
	var (
		perms   int64
		highest *discordgo.Role
	)
	if everyone, ok := roles[guildID]; ok {
		perms |= everyone.Permissions
	}
	for _, id := range me.Roles {
		r, ok := roles[id]
		if !ok {
			continue
		}
		perms |= r.Permissions
		if highest == nil || model.CompareRank(toModelRole(r), toModelRole(highest)) < 0 {
			highest = r
		}
	}
	return perms, highest
}

func toModelRole(r *discordgo.Role) model.Role {
	return model.Role{ID: r.ID, Name: r.Name, Position: r.Position}
}
