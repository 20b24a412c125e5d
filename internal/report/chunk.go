package report

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Placeholder is rendered for a section that has nothing to list.
const Placeholder = "—"

// Limits bounds a single page. MaxItems <= 0 leaves the item count unbounded.
type Limits struct {
	MaxItems  int
	MaxLength int
}

var (
	// DescriptionLimits fits the description of a Discord embed with headroom.
	DescriptionLimits = Limits{MaxLength: 3800}
	// FieldLimits fits a single embed field; Discord allows 25 fields per embed.
	FieldLimits = Limits{MaxItems: 25, MaxLength: 1000}
	// PlainTextLimits fits a plain message body (2000 chars) with room for a title.
	PlainTextLimits = Limits{MaxLength: 1900}
)

type Page struct {
	Items []string
}

// Text joins the page's items with line breaks.
func (p Page) Text() string {
	return strings.Join(p.Items, "\n")
}

// Chunk splits items into pages, greedily filling each page while it stays
// within both limits. Every item costs its length plus one line break. Items
// are never split; an item longer than MaxLength gets a page of its own.
// Empty input yields a single empty page.
func Chunk(items []string, limits Limits) []Page {
	if len(items) == 0 {
		return []Page{{}}
	}

	var (
		pages   []Page
		current []string
		length  int
	)
	for _, item := range items {
		addLen := utf8.RuneCountInString(item) + 1
		full := limits.MaxItems > 0 && len(current) >= limits.MaxItems
		if len(current) > 0 && (full || length+addLen > limits.MaxLength) {
			pages = append(pages, Page{Items: current})
			current = nil
			length = 0
		}
		current = append(current, item)
		length += addLen
	}
	return append(pages, Page{Items: current})
}

// Section is a titled page of a labelled list.
type Section struct {
	Title string
	Body  string
}

// Sections chunks items and titles each page with label, adding "(i/n)" when
// the list spans more than one page. An empty list renders as one section
// holding placeholder.
func Sections(label string, items []string, limits Limits, placeholder string) []Section {
	pages := Chunk(items, limits)
	sections := make([]Section, len(pages))
	for i, page := range pages {
		body := page.Text()
		if len(page.Items) == 0 {
			body = placeholder
		}
		sections[i] = Section{
			Title: label + PartSuffix(i, len(pages)),
			Body:  body,
		}
	}
	return sections
}

// PartSuffix returns " (i/n)" for multi-part output and "" otherwise.
func PartSuffix(index, total int) string {
	if total <= 1 {
		return ""
	}
	return fmt.Sprintf(" (%d/%d)", index+1, total)
}
