package report_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/text/language"

	"basegraph.app/rollcall/internal/model"
	"basegraph.app/rollcall/internal/report"
)

const guildID = "100000000000000000"

func everyone() model.Role {
	return model.Role{ID: guildID, Name: "@everyone", Position: 0}
}

var _ = Describe("RoleAggregator", func() {
	var (
		admin, mod, member model.Role
		aggregator         *report.RoleAggregator
	)

	BeforeEach(func() {
		admin = model.Role{ID: "200000000000000001", Name: "Admin", Position: 3, Color: 0xff0000}
		mod = model.Role{ID: "200000000000000002", Name: "Mod", Position: 2}
		member = model.Role{ID: "200000000000000003", Name: "Member", Position: 1}
		aggregator = report.NewRoleAggregator(report.WithCompare(report.LocaleCompare(language.German)))
	})

	It("assigns a member to their highest role and annotates the others", func() {
		snapshot := &model.Snapshot{
			GuildID: guildID,
			Roles:   []model.Role{member, everyone(), admin, mod},
			Members: []model.Member{
				{ID: "1", DisplayName: "Mia", RoleIDs: []string{guildID, member.ID, mod.ID}},
				{ID: "2", DisplayName: "Ben", RoleIDs: []string{member.ID}},
				{ID: "3", DisplayName: "Ada", RoleIDs: []string{admin.ID}},
			},
		}

		result, err := aggregator.Aggregate(snapshot)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Buckets).To(HaveLen(3))

		Expect(result.Buckets[0].Role.Name).To(Equal("Admin"))
		Expect(result.Buckets[0].Lines).To(Equal([]string{"- Ada"}))

		Expect(result.Buckets[1].Role.Name).To(Equal("Mod"))
		Expect(result.Buckets[1].Lines).To(Equal([]string{"- Mia (weitere: Member)"}))

		Expect(result.Buckets[2].Role.Name).To(Equal("Member"))
		Expect(result.Buckets[2].Lines).To(Equal([]string{"- Ben"}))
		Expect(result.Buckets[2].MemberIDs).NotTo(ContainElement("1"))

		Expect(result.TotalAssigned).To(Equal(3))
	})

	It("lists other roles by descending rank", func() {
		snapshot := &model.Snapshot{
			GuildID: guildID,
			Roles:   []model.Role{everyone(), admin, mod, member},
			Members: []model.Member{
				{ID: "1", DisplayName: "Ada", RoleIDs: []string{member.ID, admin.ID, mod.ID}},
			},
		}

		result, err := aggregator.Aggregate(snapshot)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Buckets).To(HaveLen(1))
		Expect(result.Buckets[0].Lines).To(Equal([]string{"- Ada (weitere: Mod, Member)"}))
	})

	It("skips bots, the everyone role and empty buckets", func() {
		snapshot := &model.Snapshot{
			GuildID: guildID,
			Roles:   []model.Role{everyone(), admin, mod, member},
			Members: []model.Member{
				{ID: "1", DisplayName: "Robo", RoleIDs: []string{admin.ID}, Bot: true},
				{ID: "2", DisplayName: "Eve", RoleIDs: []string{guildID}},
				{ID: "3", DisplayName: "Max", RoleIDs: []string{member.ID}},
			},
		}

		result, err := aggregator.Aggregate(snapshot)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Buckets).To(HaveLen(1))
		Expect(result.Buckets[0].Role.Name).To(Equal("Member"))
		Expect(result.TotalAssigned).To(Equal(1))
		Expect(result.Pages).To(HaveLen(1))
	})

	It("sorts lines with the injected collation", func() {
		snapshot := &model.Snapshot{
			GuildID: guildID,
			Roles:   []model.Role{member},
			Members: []model.Member{
				{ID: "1", DisplayName: "Zoe", RoleIDs: []string{member.ID}},
				{ID: "2", DisplayName: "Ärger", RoleIDs: []string{member.ID}},
				{ID: "3", DisplayName: "anna", RoleIDs: []string{member.ID}},
				{ID: "4", DisplayName: "Bert", RoleIDs: []string{member.ID}},
			},
		}

		result, err := aggregator.Aggregate(snapshot)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Buckets[0].Lines).To(Equal([]string{"- anna", "- Ärger", "- Bert", "- Zoe"}))

		ordinal, err := report.NewRoleAggregator(report.WithCompare(report.Ordinal)).Aggregate(snapshot)
		Expect(err).NotTo(HaveOccurred())
		Expect(ordinal.Buckets[0].Lines).To(Equal([]string{"- Bert", "- Zoe", "- anna", "- Ärger"}))
	})

	It("renders titled, coloured pages with a footer", func() {
		snapshot := &model.Snapshot{
			GuildID: guildID,
			Roles:   []model.Role{admin, member},
			Members: []model.Member{
				{ID: "1", DisplayName: "Ada", RoleIDs: []string{admin.ID}},
				{ID: "2", DisplayName: "Ben", RoleIDs: []string{member.ID}},
			},
		}

		result, err := aggregator.Aggregate(snapshot)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Pages).To(Equal([]report.RolePage{
			{RoleID: admin.ID, Title: "Admin", Body: "- Ada", Color: 0xff0000, Footer: "Mitglieder in dieser Liste: 1"},
			{RoleID: member.ID, Title: "Member", Body: "- Ben", Color: report.DefaultRoleColor, Footer: "Mitglieder in dieser Liste: 1"},
		}))
	})

	It("splits a large bucket into numbered pages", func() {
		var members []model.Member
		for i := 0; i < 300; i++ {
			members = append(members, model.Member{
				ID:          fmt.Sprintf("%d", 1000+i),
				DisplayName: fmt.Sprintf("Mitglied mit langem Namen %03d", i),
				RoleIDs:     []string{member.ID},
			})
		}
		snapshot := &model.Snapshot{GuildID: guildID, Roles: []model.Role{member}, Members: members}

		result, err := aggregator.Aggregate(snapshot)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(result.Pages)).To(BeNumerically(">", 1))
		n := len(result.Pages)
		for i, p := range result.Pages {
			Expect(p.Title).To(Equal(fmt.Sprintf("Member (%d/%d)", i+1, n)))
			Expect(p.Footer).To(Equal("Mitglieder in dieser Liste: 300"))
			Expect(len([]rune(p.Body))).To(BeNumerically("<=", report.DescriptionLimits.MaxLength))
		}
	})

	It("breaks equal positions by the older role id", func() {
		older := model.Role{ID: "300000000000000001", Name: "Older", Position: 5}
		newer := model.Role{ID: "300000000000000002", Name: "Newer", Position: 5}
		snapshot := &model.Snapshot{
			GuildID: guildID,
			Roles:   []model.Role{newer, older},
			Members: []model.Member{
				{ID: "1", DisplayName: "Ada", RoleIDs: []string{newer.ID, older.ID}},
			},
		}

		result, err := aggregator.Aggregate(snapshot)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Buckets[0].Role.Name).To(Equal("Older"))
		Expect(result.Buckets[0].Lines).To(Equal([]string{"- Ada (weitere: Newer)"}))
	})

	It("accepts substituted filters", func() {
		onlyA := report.WithMemberFilter(func(m model.Member) bool { return m.DisplayName[0] == 'A' })
		noAdmin := report.WithRoleFilter(report.AllRoles(report.NotEveryone, func(_ string, r model.Role) bool {
			return r.Name != "Admin"
		}))
		snapshot := &model.Snapshot{
			GuildID: guildID,
			Roles:   []model.Role{admin, member},
			Members: []model.Member{
				{ID: "1", DisplayName: "Ada", RoleIDs: []string{admin.ID, member.ID}},
				{ID: "2", DisplayName: "Ben", RoleIDs: []string{member.ID}},
			},
		}

		result, err := report.NewRoleAggregator(onlyA, noAdmin).Aggregate(snapshot)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Buckets).To(HaveLen(1))
		Expect(result.Buckets[0].Lines).To(Equal([]string{"- Ada (weitere: Admin)"}))
	})

	It("reports an unavailable snapshot without output", func() {
		result, err := aggregator.Aggregate(nil)
		Expect(err).To(MatchError(report.ErrSnapshotUnavailable))
		Expect(result).To(BeNil())
	})

	It("keeps buckets disjoint for generated memberships", func() {
		roles := []model.Role{everyone(), admin, mod, member}
		for seed := 0; seed < 50; seed++ {
			var members []model.Member
			for i := 0; i < 40; i++ {
				var held []string
				for j, r := range roles {
					if (seed+i*7+j*3)%4 == 0 {
						held = append(held, r.ID)
					}
				}
				members = append(members, model.Member{
					ID:          fmt.Sprintf("%d-%d", seed, i),
					DisplayName: fmt.Sprintf("M%d", i),
					RoleIDs:     held,
					Bot:         i%9 == 0,
				})
			}
			snapshot := &model.Snapshot{GuildID: guildID, Roles: roles, Members: members}

			result, err := aggregator.Aggregate(snapshot)
			Expect(err).NotTo(HaveOccurred())

			seen := map[string]bool{}
			for _, b := range result.Buckets {
				for _, id := range b.MemberIDs {
					Expect(seen).NotTo(HaveKey(id))
					seen[id] = true
				}
			}
			Expect(seen).To(HaveLen(result.TotalAssigned))

			expected := 0
			for _, m := range members {
				if m.Bot {
					continue
				}
				for _, id := range m.RoleIDs {
					if id != guildID {
						expected++
						break
					}
				}
			}
			Expect(result.TotalAssigned).To(Equal(expected))
		}
	})
})

var _ = Describe("MemberLine", func() {
	It("omits the annotation when there are no other roles", func() {
		Expect(report.MemberLine("Ada", nil)).To(Equal("- Ada"))
	})

	It("joins other roles with commas", func() {
		Expect(report.MemberLine("Ada", []string{"Mod", "Member"})).To(Equal("- Ada (weitere: Mod, Member)"))
	})
})
