package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	ListTitleMaxLen       = 200
	ListDescriptionMaxLen = 1000

	// EventDateMaxYearsAhead bounds how far in the future an event can be planned.
	EventDateMaxYearsAhead = 10
)

// List is a shareable gift list. OwnerID is immutable after creation; OwnerEmail
// is captured at creation so reservation notifications don't need to call back
// into the identity layer.
type List struct {
	Base
	OwnerID     string     `json:"owner_id"`
	OwnerEmail  string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Public      bool       `json:"is_public"`
	EventDate   *time.Time `json:"event_date,omitempty"`
}

func (l *List) Validate() error {
	l.Title = strings.TrimSpace(l.Title)
	l.Description = strings.TrimSpace(l.Description)

	switch {
	case l.Title == "":
		return &ValidationError{"title", "Nome da lista é obrigatório"}
	case utf8.RuneCountInString(l.Title) > ListTitleMaxLen:
		return &ValidationError{"title", "Nome muito longo (máximo 200 caracteres)"}
	case containsInjection(l.Title):
		return &ValidationError{"title", "Nome contém caracteres não permitidos"}
	case utf8.RuneCountInString(l.Description) > ListDescriptionMaxLen:
		return &ValidationError{"description", "Descrição muito longa (máximo 1000 caracteres)"}
	case containsInjection(l.Description):
		return &ValidationError{"description", "Descrição contém caracteres não permitidos"}
	}

	if l.EventDate != nil {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		switch {
		case l.EventDate.Before(today):
			return &ValidationError{"event_date", "Data do evento não pode ser no passado"}
		case l.EventDate.After(today.AddDate(EventDateMaxYearsAhead, 0, 0)):
			return &ValidationError{"event_date", "Data do evento muito distante no futuro"}
		}
	}

	return nil
}
