package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Day est un jour de la semaine, nommé en français
type Day string

const (
	Monday    Day = "Lundi"
	Tuesday   Day = "Mardi"
	Wednesday Day = "Mercredi"
	Thursday  Day = "Jeudi"
	Friday    Day = "Vendredi"
	Saturday  Day = "Samedi"
	Sunday    Day = "Dimanche"
)

// Week suit l'ordre fixe Lundi..Dimanche
var Week = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func ParseDay(s string) (Day, error) {
	d := Day(s)
	if !d.IsValid() {
		return "", ErrInvalidDay
	}
	return d, nil
}

// ParseDays lit une liste séparée par des virgules. Une chaîne vide donne une liste vide.
func ParseDays(raw string) ([]Day, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	days := make([]Day, 0)
	for _, name := range strings.Split(raw, ",") {
		day, err := ParseDay(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, name)
		}
		days = append(days, day)
	}
	return days, nil
}

func (d Day) IsValid() bool {
	return slices.Contains(Week, d)
}

// Index renvoie la position dans Week, -1 si le jour est inconnu
func (d Day) Index() int {
	return slices.Index(Week, d)
}

// Previous renvoie la veille. Sans wrap, Lundi n'a pas de veille.
func (d Day) Previous(wrap bool) (Day, bool) {
	i := d.Index()
	switch {
	case i < 0:
		return "", false
	case i > 0:
		return Week[i-1], true
	case wrap:
		return Week[len(Week)-1], true
	default:
		return "", false
	}
}

// Next renvoie le lendemain. Sans wrap, Dimanche n'a pas de lendemain.
func (d Day) Next(wrap bool) (Day, bool) {
	i := d.Index()
	switch {
	case i < 0:
		return "", false
	case i < len(Week)-1:
		return Week[i+1], true
	case wrap:
		return Week[0], true
	default:
		return "", false
	}
}
