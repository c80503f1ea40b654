package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Assignment is a Canvas assignment. DueAt is nil when the assignment has no deadline.
type Assignment struct {
	Name  string
	DueAt *time.Time
	URL   string
}

func (a *Assignment) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    string  `json:"name"`
		DueAt   *string `json:"due_at"`
		HTMLURL string  `json:"html_url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var due *time.Time
	if raw.DueAt != nil && *raw.DueAt != "" {
		t, err := time.Parse(time.RFC3339, *raw.DueAt)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", *raw.DueAt, err)
		}
		due = &t
	}

	u, err := url.Parse(raw.HTMLURL)
	if err != nil {
		return fmt.Errorf("invalid assignment url %q: %w", raw.HTMLURL, err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("assignment url %q is not absolute", raw.HTMLURL)
	}

	*a = Assignment{Name: raw.Name, DueAt: due, URL: u.String()}
	return nil
}

// Todo is one entry of the Canvas todo list. Quizzes and other item kinds
// decode with a nil Assignment.
type Todo struct {
	Assignment *Assignment `json:"assignment"`
}
