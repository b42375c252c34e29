package tui

import (
	"testing"

	"github.com/theirongolddev/goalpace/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0

		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1 // separator
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("active=%d x past the last tab -> %d, want -1", active, got)
		}
	}
}

func TestTabWidthsDependOnlyOnName(t *testing.T) {
	for i, tab := range components.Tabs {
		// " G[o]als " style: name plus brackets and padding
		if got, want := components.TabVisualWidth(tab, false), len(tab.Name)+4; got != want {
			t.Errorf("inactive tab %d width = %d, want %d", i, got, want)
		}
		if got, want := components.TabVisualWidth(tab, true), len(tab.Name)+2; got != want {
			t.Errorf("active tab %d width = %d, want %d", i, got, want)
		}
	}
}
