// Package admin models the edit modal: which view is showing and whether the
// add-work form may be submitted.
package admin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type View string

const (
	ViewClosed  View = "closed"
	ViewManage  View = "manage"
	ViewAddForm View = "add"
)

type Event string

const (
	EventEdit      Event = "edit"
	EventAddPhoto  Event = "add"
	EventBack      Event = "back"
	EventSubmitted Event = "submitted"
	EventClose     Event = "close"
	EventBackdrop  Event = "backdrop"
)

var ErrInvalidTransition = errors.New("invalid modal transition")

// ParseView accepts the wire form of a view; "" means closed.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case "":
		return ViewClosed, nil
	case ViewClosed, ViewManage, ViewAddForm:
		return v, nil
	default:
		return "", fmt.Errorf("unknown modal view %q", s)
	}
}

// Transition returns the view reached from "from" on event e.
func Transition(from View, e Event) (View, error) {
	switch {
	case from == ViewClosed && e == EventEdit:
		return ViewManage, nil
	case from == ViewManage && e == EventAddPhoto:
		return ViewAddForm, nil
	case from == ViewAddForm && (e == EventBack || e == EventSubmitted):
		return ViewManage, nil
	case from != ViewClosed && (e == EventClose || e == EventBackdrop):
		return ViewClosed, nil
	}
	return "", fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, from)
}

// Form is the add-work form as last submitted by the browser.
type Form struct {
	Title      string
	CategoryID int64
	UploadKey  string
}

// ParseForm reads the form fields. A missing or non-numeric category is
// treated as "not selected".
func ParseForm(title, category, uploadKey string) Form {
	id, err := strconv.ParseInt(strings.TrimSpace(category), 10, 64)
	if err != nil || id < 0 {
		id = 0
	}
	return Form{
		Title:      strings.TrimSpace(title),
		CategoryID: id,
		UploadKey:  strings.TrimSpace(uploadKey),
	}
}

// Complete reports whether the form has a title, a category and a file.
func (f Form) Complete() bool {
	return f.Title != "" && f.CategoryID != 0 && f.UploadKey != ""
}
