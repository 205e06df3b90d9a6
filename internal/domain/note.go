package domain

import (
	"html"
	"regexp"
	"strings"
	"time"
)

// DefaultNoteTitle names notes created without a title.
const DefaultNoteTitle = "Untitled"

// Note is a rich-text note. Content is HTML emitted by the editor.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotePatch is a partial note update.
type NotePatch struct {
	Title   *string
	Content *string
}

// NewNote builds an empty note.
func NewNote(title string, now time.Time) Note {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultNoteTitle
	}
	return Note{ID: generateID(), Title: title, CreatedAt: now, UpdatedAt: now}
}

// Apply returns n with the patch applied and updatedAt stamped.
func (n Note) Apply(p NotePatch, now time.Time) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	n.UpdatedAt = now
	return n
}

// TextToHTML escapes plain text and wraps each line in a paragraph.
func TextToHTML(text string) string {
	return "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "</p><p>") + "</p>"
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// HTMLToText turns stored note HTML back into plain text.
func HTMLToText(content string) string {
	content = strings.ReplaceAll(content, "</p><p>", "\n")
	content = strings.ReplaceAll(content, "<br>", "\n")
	return html.UnescapeString(tagPattern.ReplaceAllString(content, ""))
}
