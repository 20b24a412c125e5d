package report_test

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/rollcall/internal/report"
)

func flatten(pages []report.Page) []string {
	var out []string
	for _, p := range pages {
		out = append(out, p.Items...)
	}
	return out
}

var _ = Describe("Chunk", func() {
	It("returns a single empty page for empty input", func() {
		pages := report.Chunk(nil, report.DescriptionLimits)
		Expect(pages).To(HaveLen(1))
		Expect(pages[0].Items).To(BeEmpty())
		Expect(pages[0].Text()).To(BeEmpty())
	})

	It("keeps 30 short names on one description page", func() {
		names := make([]string, 30)
		for i := range names {
			names[i] = fmt.Sprintf("- Mitglied %04d", i) // 15 chars
		}
		pages := report.Chunk(names, report.DescriptionLimits)
		Expect(pages).To(HaveLen(1))
		Expect(pages[0].Items).To(Equal(names))
	})

	It("counts one separator per item against the length limit", func() {
		limits := report.Limits{MaxLength: 10}
		// "aaaa" + "\n" = 5, two of them = 10 fits; a third does not.
		pages := report.Chunk([]string{"aaaa", "bbbb", "cccc"}, limits)
		Expect(pages).To(HaveLen(2))
		Expect(pages[0].Items).To(Equal([]string{"aaaa", "bbbb"}))
		Expect(pages[1].Items).To(Equal([]string{"cccc"}))
	})

	It("closes a page when the item limit is reached", func() {
		items := make([]string, 60)
		for i := range items {
			items[i] = "x"
		}
		pages := report.Chunk(items, report.FieldLimits)
		Expect(pages).To(HaveLen(3))
		Expect(pages[0].Items).To(HaveLen(25))
		Expect(pages[1].Items).To(HaveLen(25))
		Expect(pages[2].Items).To(HaveLen(10))
	})

	It("measures characters, not bytes", func() {
		limits := report.Limits{MaxLength: 6}
		pages := report.Chunk([]string{"ääää", "öö"}, limits)
		Expect(pages).To(HaveLen(2))

		pages = report.Chunk([]string{"ää", "öö"}, limits)
		Expect(pages).To(HaveLen(1))
	})

	It("gives an oversized item a page of its own without empty pages", func() {
		long := strings.Repeat("z", 50)
		pages := report.Chunk([]string{long, "a", "b"}, report.Limits{MaxLength: 10})
		Expect(pages).To(HaveLen(2))
		Expect(pages[0].Items).To(Equal([]string{long}))
		Expect(pages[1].Items).To(Equal([]string{"a", "b"}))

		pages = report.Chunk([]string{"a", long}, report.Limits{MaxLength: 10})
		Expect(pages).To(HaveLen(2))
		for _, p := range pages {
			Expect(p.Items).NotTo(BeEmpty())
		}
	})

	It("reproduces the input and respects both limits for random input", func() {
		rng := rand.New(rand.NewSource(42))
		for round := 0; round < 200; round++ {
			limits := report.Limits{
				MaxItems:  rng.Intn(30),
				MaxLength: 20 + rng.Intn(300),
			}
			items := make([]string, rng.Intn(200))
			for i := range items {
				items[i] = strings.Repeat("ab", 1+rng.Intn(10))
			}

			pages := report.Chunk(items, limits)
			Expect(pages).NotTo(BeEmpty())
			if len(items) == 0 {
				Expect(pages).To(HaveLen(1))
				continue
			}
			Expect(flatten(pages)).To(Equal(items))

			for _, p := range pages {
				Expect(p.Items).NotTo(BeEmpty())
				if limits.MaxItems > 0 {
					Expect(len(p.Items)).To(BeNumerically("<=", limits.MaxItems))
				}
				Expect(utf8.RuneCountInString(p.Text())).To(BeNumerically("<=", limits.MaxLength))
			}
		}
	})

	It("is deterministic", func() {
		items := []string{"one", "two", "three", "four", "five", "six"}
		limits := report.Limits{MaxItems: 4, MaxLength: 12}
		Expect(report.Chunk(items, limits)).To(Equal(report.Chunk(items, limits)))
	})
})

var _ = Describe("Sections", func() {
	It("renders an empty list as one placeholder section", func() {
		sections := report.Sections("Keine Stimme", nil, report.FieldLimits, report.Placeholder)
		Expect(sections).To(Equal([]report.Section{{Title: "Keine Stimme", Body: "—"}}))
	})

	It("numbers the parts of a split list", func() {
		items := make([]string, 30)
		for i := range items {
			items[i] = fmt.Sprintf("- Name %d", i)
		}
		sections := report.Sections("Ja", items, report.FieldLimits, report.Placeholder)
		Expect(sections).To(HaveLen(2))
		Expect(sections[0].Title).To(Equal("Ja (1/2)"))
		Expect(sections[1].Title).To(Equal("Ja (2/2)"))
		Expect(strings.Split(sections[1].Body, "\n")).To(HaveLen(5))
	})
})
