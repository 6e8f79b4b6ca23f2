package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyinv/internal/ui/theme"
)

func TestPanel_NoSize(t *testing.T) {
	p := NewPanel("Facets", "tab", theme.DefaultTheme())
	if p.View() != "" {
		t.Error("expected an unsized panel to render nothing")
	}
}

func TestPanel_TitleAndHint(t *testing.T) {
	p := NewPanel("Facets", "tab: query", theme.DefaultTheme())
	p.Width = 40
	p.Height = 5
	p.Content = "source"

	view := p.View()
	for _, want := range []string{"Facets", "tab: query", "source"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if h := lipgloss.Height(view); h != 7 {
		t.Errorf("expected height 7 with borders, got %d", h)
	}
	if p.ContentHeight() != 4 {
		t.Errorf("expected 4 content lines, got %d", p.ContentHeight())
	}
}

func TestPanel_NarrowDropsHint(t *testing.T) {
	p := NewPanel("Facets", "a very long key hint", theme.DefaultTheme())
	p.Width = 12
	p.Height = 3

	if strings.Contains(p.View(), "hint") {
		t.Error("expected hint to be dropped when it does not fit")
	}
}
