// Package layout recomputes partition and order fields after a
// drag-and-drop gesture. Widgets are partitioned by column and tasks by
// status; both share one algorithm.
package layout

import (
	"sort"
	"strconv"
	"strings"

	"github.com/xvierd/dailo/internal/domain"
)

// PlaceholderPrefix marks a drop target that is a whole partition rather
// than an entity.
const PlaceholderPrefix = "column-"

// ColumnTarget returns the drop target id of a widget column.
func ColumnTarget(column int) string {
	return PlaceholderPrefix + strconv.Itoa(column)
}

// StatusTarget returns the drop target id of a task board column.
func StatusTarget(status domain.TaskStatus) string {
	return PlaceholderPrefix + string(status)
}

// accessor exposes the partition/order fields of T to the engine.
type accessor[T any, P comparable] struct {
	id    func(T) string
	part  func(T) P
	order func(T) int
	place func(T, P, int) T
}

var widgetAccess = accessor[domain.Widget, int]{
	id:    func(w domain.Widget) string { return w.ID },
	part:  func(w domain.Widget) int { return w.Column },
	order: func(w domain.Widget) int { return w.Order },
	place: func(w domain.Widget, col, order int) domain.Widget {
		w.Column, w.Order = col, order
		return w
	},
}

var taskAccess = accessor[domain.Task, domain.TaskStatus]{
	id:    func(t domain.Task) string { return t.ID },
	part:  func(t domain.Task) domain.TaskStatus { return t.Status },
	order: func(t domain.Task) int { return t.Order },
	place: func(t domain.Task, s domain.TaskStatus, order int) domain.Task {
		t.Status, t.Order = s, order
		return t
	},
}

// MoveWidget drops widget activeID onto overID, which is either another
// widget id or a column placeholder. A placeholder appends after the
// widgets currently rendered in that column: every widget in customize
// mode, only visible ones otherwise. It reports whether anything changed.
func MoveWidget(widgets []domain.Widget, activeID, overID string, customizing bool) ([]domain.Widget, bool) {
	placeholder := func(id string) (int, bool) {
		if !strings.HasPrefix(id, PlaceholderPrefix) {
			return 0, false
		}
		col, err := strconv.Atoi(strings.TrimPrefix(id, PlaceholderPrefix))
		if err != nil || col < 0 || col >= domain.ColumnCount {
			return 0, false
		}
		return col, true
	}
	appendOrder := func(items []domain.Widget, col int) int {
		n := 0
		for _, w := range items {
			if w.Column == col && (w.Visible || customizing) {
				n++
			}
		}
		return n
	}
	return move(widgets, widgetAccess, activeID, overID, placeholder, appendOrder)
}

// MoveTask drops task activeID onto overID, which is either another task
// id or a status placeholder.
func MoveTask(tasks []domain.Task, activeID, overID string) ([]domain.Task, bool) {
	placeholder := func(id string) (domain.TaskStatus, bool) {
		if !strings.HasPrefix(id, PlaceholderPrefix) {
			return "", false
		}
		s, err := domain.ParseTaskStatus(strings.TrimPrefix(id, PlaceholderPrefix))
		if err != nil {
			return "", false
		}
		return s, true
	}
	appendOrder := func(items []domain.Task, s domain.TaskStatus) int {
		n := 0
		for _, t := range items {
			if t.Status == s {
				n++
			}
		}
		return n
	}
	return move(tasks, taskAccess, activeID, overID, placeholder, appendOrder)
}

func move[T any, P comparable](
	items []T,
	acc accessor[T, P],
	activeID, overID string,
	placeholder func(string) (P, bool),
	appendOrder func([]T, P) int,
) ([]T, bool) {
	if overID == "" || activeID == overID {
		return items, false
	}
	ai := indexOf(items, acc, activeID)
	if ai < 0 {
		return items, false
	}
	active := items[ai]
	src := acc.part(active)
	srcOrder := acc.order(active)

	if target, ok := placeholder(overID); ok {
		if target == src {
			return items, false
		}
		newOrder := appendOrder(items, target)
		return crossMove(items, acc, activeID, src, srcOrder, target, newOrder), true
	}

	oi := indexOf(items, acc, overID)
	if oi < 0 {
		return items, false
	}
	over := items[oi]
	target := acc.part(over)

	if target != src {
		return crossMove(items, acc, activeID, src, srcOrder, target, acc.order(over)), true
	}
	return reorderWithin(items, acc, src, activeID, overID), true
}

// crossMove closes the gap in the source partition and opens one at
// newOrder in the target partition, leaving other partitions untouched.
func crossMove[T any, P comparable](items []T, acc accessor[T, P], activeID string, src P, srcOrder int, target P, newOrder int) []T {
	out := make([]T, len(items))
	for i, it := range items {
		switch {
		case acc.id(it) == activeID:
			it = acc.place(it, target, newOrder)
		case acc.part(it) == src && acc.order(it) > srcOrder:
			it = acc.place(it, src, acc.order(it)-1)
		case acc.part(it) == target && acc.order(it) >= newOrder:
			it = acc.place(it, target, acc.order(it)+1)
		}
		out[i] = it
	}
	return out
}

// reorderWithin array-moves active onto over's slot and re-derives the
// order of every member of the partition from its new index.
func reorderWithin[T any, P comparable](items []T, acc accessor[T, P], part P, activeID, overID string) []T {
	members := partition(items, acc, part)
	from, to := -1, -1
	for i, it := range members {
		switch acc.id(it) {
		case activeID:
			from = i
		case overID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return items
	}
	rank := make(map[string]int, len(members))
	for i, it := range ArrayMove(members, from, to) {
		rank[acc.id(it)] = i
	}
	out := make([]T, len(items))
	for i, it := range items {
		if r, ok := rank[acc.id(it)]; ok {
			it = acc.place(it, part, r)
		}
		out[i] = it
	}
	return out
}

// ArrayMove returns a copy of s with the element at from moved to to,
// using remove-then-insert splice semantics.
func ArrayMove[T any](s []T, from, to int) []T {
	out := append([]T(nil), s...)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}

// NormalizeWidgets re-derives contiguous orders in every column.
func NormalizeWidgets(widgets []domain.Widget) []domain.Widget {
	return normalize(widgets, widgetAccess)
}

// NormalizeTasks re-derives contiguous orders in every status.
func NormalizeTasks(tasks []domain.Task) []domain.Task {
	return normalize(tasks, taskAccess)
}

func normalize[T any, P comparable](items []T, acc accessor[T, P]) []T {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return acc.order(items[idx[a]]) < acc.order(items[idx[b]])
	})
	next := make(map[P]int)
	out := make([]T, len(items))
	copy(out, items)
	for _, i := range idx {
		p := acc.part(items[i])
		out[i] = acc.place(items[i], p, next[p])
		next[p]++
	}
	return out
}

func partition[T any, P comparable](items []T, acc accessor[T, P], part P) []T {
	var members []T
	for _, it := range items {
		if acc.part(it) == part {
			members = append(members, it)
		}
	}
	sort.SliceStable(members, func(a, b int) bool {
		return acc.order(members[a]) < acc.order(members[b])
	})
	return members
}

func indexOf[T any, P comparable](items []T, acc accessor[T, P], id string) int {
	for i, it := range items {
		if acc.id(it) == id {
			return i
		}
	}
	return -1
}
