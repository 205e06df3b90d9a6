package store

import (
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/layout"
)

func (s *Store) updateWidget(id string, fn func(w *domain.Widget)) bool {
	return s.update(func(st *domain.State) bool {
		for i := range st.Widgets {
			if st.Widgets[i].ID == id {
				fn(&st.Widgets[i])
				return true
			}
		}
		return false
	})
}

// ToggleWidgetVisibility shows or hides a widget. Hidden widgets keep
// their column and order.
func (s *Store) ToggleWidgetVisibility(id string) bool {
	return s.updateWidget(id, func(w *domain.Widget) { w.Visible = !w.Visible })
}

// UpdateWidgetHeight resizes a widget within the allowed bounds.
func (s *Store) UpdateWidgetHeight(id string, height int) bool {
	return s.updateWidget(id, func(w *domain.Widget) { w.Height = domain.ClampHeight(height) })
}

// UpdateWidgetWidth sets a widget's width span.
func (s *Store) UpdateWidgetWidth(id string, width int) bool {
	return s.updateWidget(id, func(w *domain.Widget) { w.Width = domain.ClampWidth(width) })
}

// UpdateWidgetPosition places a widget explicitly, then re-derives
// contiguous orders so the column invariant still holds.
func (s *Store) UpdateWidgetPosition(id string, column, order int) bool {
	if column < 0 || column >= domain.ColumnCount {
		return false
	}
	return s.update(func(st *domain.State) bool {
		found := false
		for i := range st.Widgets {
			w := &st.Widgets[i]
			if w.ID == id {
				found = true
				continue
			}
			if w.Column == column && w.Order >= order {
				w.Order++
			}
		}
		if !found {
			return false
		}
		for i := range st.Widgets {
			if st.Widgets[i].ID == id {
				st.Widgets[i].Column, st.Widgets[i].Order = column, order
			}
		}
		st.Widgets = layout.NormalizeWidgets(st.Widgets)
		return true
	})
}

// MoveWidget applies a completed drag of activeID onto overID.
func (s *Store) MoveWidget(activeID, overID string) bool {
	return s.update(func(st *domain.State) bool {
		next, changed := layout.MoveWidget(st.Widgets, activeID, overID, st.IsCustomizing)
		if changed {
			st.Widgets = next
		}
		return changed
	})
}

// ResetLayout restores the default widget catalog.
func (s *Store) ResetLayout() {
	s.update(func(st *domain.State) bool {
		st.Widgets = domain.DefaultWidgets()
		return true
	})
}
