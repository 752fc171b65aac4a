package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	GiftNameMaxLen        = 100
	GiftDescriptionMaxLen = 500

	ReserverNameMinLen = 2
	ReserverNameMaxLen = 100
)

// Gift is a single reservable item on a list. Reservation state is a pair:
// either both reserver fields are empty (available) or both are set (reserved).
// The only way from available to reserved is the conditional write in the
// gift repository; the only ways back are owner release and deletion.
type Gift struct {
	Base
	ListID       string     `json:"list_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	ReserverName string     `json:"reserver_name,omitempty"`
	ReservedAt   *time.Time `json:"reserved_at,omitempty"`
}

func (g *Gift) Reserved() bool {
	return g.ReserverName != ""
}

// Validate trims and checks the owner-editable fields. Reservation fields are
// not touched here: they are never accepted from input.
func (g *Gift) Validate() error {
	g.Name = strings.TrimSpace(g.Name)
	g.Description = strings.TrimSpace(g.Description)

	switch {
	case g.Name == "":
		return &ValidationError{"name", "Nome é obrigatório"}
	case utf8.RuneCountInString(g.Name) > GiftNameMaxLen:
		return &ValidationError{"name", "Nome muito longo (máximo 100 caracteres)"}
	case containsInjection(g.Name):
		return &ValidationError{"name", "Nome contém caracteres não permitidos"}
	case utf8.RuneCountInString(g.Description) > GiftDescriptionMaxLen:
		return &ValidationError{"description", "Descrição muito longa (máximo 500 caracteres)"}
	case containsInjection(g.Description):
		return &ValidationError{"description", "Descrição contém caracteres não permitidos"}
	}

	return nil
}

// ValidateReserverName returns the trimmed name a guest claims a gift under.
// The name is a free-text claim, not an account reference, so this filter is
// all the vetting it ever gets.
func ValidateReserverName(name string) (string, error) {
	name = strings.TrimSpace(name)

	switch n := utf8.RuneCountInString(name); {
	case name == "":
		return "", &ValidationError{"reserver_name", "Nome é obrigatório"}
	case n < ReserverNameMinLen:
		return "", &ValidationError{"reserver_name", "Nome deve ter pelo menos 2 caracteres"}
	case n > ReserverNameMaxLen:
		return "", &ValidationError{"reserver_name", "Nome muito longo (máximo 100 caracteres)"}
	case containsInjection(name):
		return "", &ValidationError{"reserver_name", "Nome contém caracteres não permitidos"}
	}

	return name, nil
}
