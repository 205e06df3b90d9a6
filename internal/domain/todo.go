package domain

import "strings"

// Todo is an entry of the quick priorities list.
type Todo struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
}

// NewTodo builds an open todo.
func NewTodo(text string, priority Priority) (Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Todo{}, ErrEmptyTitle
	}
	if !priority.Valid() {
		return Todo{}, ErrInvalidPriority
	}
	return Todo{ID: generateID(), Text: text, Priority: priority}, nil
}
