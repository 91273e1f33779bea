package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Allergen is one of the nine tracked allergens.
type Allergen uint16

const (
	Celery Allergen = 1 << iota
	Gluten
	Lupin
	Mustard
	Peanuts
	Sesame
	Soybeans
	SulphurDioxide
	TreeNuts
)

// ErrUnknownAllergen is returned when an identifier is not a canonical allergen name.
var ErrUnknownAllergen = errors.New("unknown allergen")

var allergenNames = []struct {
	allergen Allergen
	name     string
}{
	{Celery, "celery"},
	{Gluten, "gluten"},
	{Lupin, "lupin"},
	{Mustard, "mustard"},
	{Peanuts, "peanuts"},
	{Sesame, "sesame"},
	{Soybeans, "soybeans"},
	{SulphurDioxide, "sulphur_dioxide"},
	{TreeNuts, "tree_nuts"},
}

// AllAllergens lists every allergen in canonical order.
func AllAllergens() []Allergen {
	out := make([]Allergen, 0, len(allergenNames))
	for _, a := range allergenNames {
		out = append(out, a.allergen)
	}
	return out
}

func (a Allergen) String() string {
	for _, n := range allergenNames {
		if n.allergen == a {
			return n.name
		}
	}
	return fmt.Sprintf("allergen(%d)", uint16(a))
}

// ParseAllergen resolves a canonical identifier such as "tree_nuts".
func ParseAllergen(s string) (Allergen, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, n := range allergenNames {
		if n.name == key {
			return n.allergen, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAllergen, s)
}

// AllergenSet is a bit set of allergens, stored as a single integer column.
type AllergenSet uint16

func NewAllergenSet(as ...Allergen) AllergenSet {
	var s AllergenSet
	for _, a := range as {
		s = s.With(a)
	}
	return s
}

// ParseAllergenSet builds a set from canonical identifiers. Duplicates are ignored.
func ParseAllergenSet(names []string) (AllergenSet, error) {
	var s AllergenSet
	for _, name := range names {
		a, err := ParseAllergen(name)
		if err != nil {
			return 0, err
		}
		s = s.With(a)
	}
	return s, nil
}

func (s AllergenSet) Has(a Allergen) bool { return s&AllergenSet(a) != 0 }

func (s AllergenSet) With(a Allergen) AllergenSet { return s | AllergenSet(a) }

func (s AllergenSet) Intersect(o AllergenSet) AllergenSet { return s & o }

func (s AllergenSet) Empty() bool { return s == 0 }

// List returns the members in canonical order.
func (s AllergenSet) List() []Allergen {
	out := []Allergen{}
	for _, n := range allergenNames {
		if s.Has(n.allergen) {
			out = append(out, n.allergen)
		}
	}
	return out
}

func (s AllergenSet) Names() []string {
	list := s.List()
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.String())
	}
	return out
}

func (s AllergenSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *AllergenSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParseAllergenSet(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
