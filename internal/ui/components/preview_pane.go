package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyinv/internal/ui/theme"
)

// PreviewPane displays the compiled query, wrapped to the pane width
type PreviewPane struct {
	Width     int
	MaxHeight int
	Content   string // Raw content to display
	Title     string
	Problem   string // shown instead of the content when set

	// Scrolling
	scrollY      int
	contentLines []string // Wrapped content split into lines
	wrappedWidth int

	Theme theme.Theme
}

// NewPreviewPane creates a new preview pane
func NewPreviewPane(th theme.Theme) *PreviewPane {
	return &PreviewPane{
		Width:     60,
		MaxHeight: 6,
		Theme:     th,
	}
}

// SetContent sets the content to display
func (p *PreviewPane) SetContent(content, title string) {
	if p.Content == content && p.Title == title {
		return
	}

	p.Content = content
	p.Title = title
	p.scrollY = 0
	p.contentLines = nil
}

// formatContent wraps the raw content for display
func (p *PreviewPane) formatContent() {
	p.wrappedWidth = max(p.Width, 10)
	if p.Content == "" {
		p.contentLines = []string{}
		return
	}
	p.contentLines = wrapText(p.Content, p.wrappedWidth)
}

// wrapText wraps text to fit within maxWidth
func wrapText(text string, maxWidth int) []string {
	var result []string

	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= maxWidth {
			result = append(result, line)
			continue
		}

		var current strings.Builder
		currentWidth := 0
		for _, r := range line {
			rWidth := runewidth.RuneWidth(r)
			if currentWidth+rWidth > maxWidth {
				result = append(result, current.String())
				current.Reset()
				currentWidth = 0
			}
			current.WriteRune(r)
			currentWidth += rWidth
		}
		if current.Len() > 0 {
			result = append(result, current.String())
		}
	}

	return result
}

func (p *PreviewPane) lines() []string {
	if p.contentLines == nil || p.wrappedWidth != max(p.Width, 10) {
		p.formatContent()
	}
	return p.contentLines
}

// visibleLines is the number of content lines below the title
func (p *PreviewPane) visibleLines() int {
	return max(p.MaxHeight-1, 1)
}

// IsScrollable returns true if content exceeds visible area
func (p *PreviewPane) IsScrollable() bool {
	return len(p.lines()) > p.visibleLines()
}

// ScrollUp scrolls content up
func (p *PreviewPane) ScrollUp() {
	if p.scrollY > 0 {
		p.scrollY--
	}
}

// ScrollDown scrolls content down
func (p *PreviewPane) ScrollDown() {
	maxScroll := max(len(p.lines())-p.visibleLines(), 0)
	if p.scrollY < maxScroll {
		p.scrollY++
	}
}

// Height returns the number of lines View renders
func (p *PreviewPane) Height() int {
	if p.Problem != "" || p.Content == "" {
		return 2
	}
	return 1 + min(len(p.lines()), p.visibleLines())
}

// View renders the preview pane
func (p *PreviewPane) View() string {
	titleStyle := lipgloss.NewStyle().Foreground(p.Theme.Info).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(p.Theme.Muted).Italic(true)

	header := titleStyle.Render(p.Title)
	lines := p.lines()
	if p.IsScrollable() {
		header += mutedStyle.Render(" (pgup/pgdn)")
	}

	if p.Problem != "" {
		return header + "\n" + mutedStyle.Render(runewidth.Truncate(p.Problem, max(p.Width, 10), "…"))
	}
	if len(lines) == 0 {
		return header + "\n" + mutedStyle.Render("(none)")
	}

	p.scrollY = min(p.scrollY, max(len(lines)-p.visibleLines(), 0))
	end := min(p.scrollY+p.visibleLines(), len(lines))

	parts := []string{header}
	contentStyle := lipgloss.NewStyle().Foreground(p.Theme.Foreground)
	for _, line := range lines[p.scrollY:end] {
		parts = append(parts, contentStyle.Render(line))
	}
	return strings.Join(parts, "\n")
}
