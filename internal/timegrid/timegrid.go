package timegrid

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrInvalidGranularity  = errors.New("granularité non supportée")
	ErrInvalidOpeningHours = errors.New("horaires d'ouverture invalides")
)

// AllowedGranularities liste les pas de grille acceptés, en minutes
var AllowedGranularities = []int{15, 30, 60}

var granularityLabels = map[int]string{
	15: "15 minutes",
	30: "30 minutes",
	60: "1 heure",
}

type Slot struct {
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
	Key         string `json:"key"`
	Label       string `json:"label"`
	IsWholeHour bool   `json:"isWholeHour"`
}

type Info struct {
	Granularity  int    `json:"granularity"`
	Label        string `json:"label"`
	SlotsPerHour int    `json:"slotsPerHour"`
	TotalSlots   int    `json:"totalSlots"`
	TotalHours   int    `json:"totalHours"`
	OpeningHour  int    `json:"openingHour"`
	ClosingHour  int    `json:"closingHour"`
	Allowed      []int  `json:"allowed"`
}

// Grid décrit le domaine horaire du restaurant. closingHour peut dépasser 24
// pour une fermeture après minuit (26 = 2h le lendemain).
// Une Grid est sûre pour un usage concurrent.
type Grid struct {
	mu          sync.RWMutex
	openingHour int
	closingHour int
	granularity int
}

func New(openingHour, closingHour, granularity int) (*Grid, error) {
	if openingHour < 0 || openingHour > 23 || closingHour <= openingHour || closingHour-openingHour > 24 {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidOpeningHours, openingHour, closingHour)
	}
	if !slices.Contains(AllowedGranularities, granularity) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGranularity, granularity)
	}

	return &Grid{
		openingHour: openingHour,
		closingHour: closingHour,
		granularity: granularity,
	}, nil
}

func (g *Grid) Granularity() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.granularity
}

func (g *Grid) OpeningHour() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.openingHour
}

func (g *Grid) ClosingHour() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.closingHour
}

// SetGranularity ne touche pas aux créneaux déjà enregistrés
func (g *Grid) SetGranularity(minutes int) error {
	if !slices.Contains(AllowedGranularities, minutes) {
		return fmt.Errorf("%w: %d", ErrInvalidGranularity, minutes)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.granularity = minutes
	return nil
}

// HoursRange énumère les heures de service dans l'ordre chronologique du service,
// par exemple 22, 23, 0, 1 pour une fermeture à 26.
func (g *Grid) HoursRange() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return hoursRange(g.openingHour, g.closingHour)
}

func hoursRange(opening, closing int) []int {
	hours := make([]int, 0, closing-opening)
	for h := opening; h < min(closing, 24); h++ {
		hours = append(hours, h)
	}
	for h := 0; h < closing-24; h++ {
		hours = append(hours, h)
	}
	return hours
}

func (g *Grid) minutes() []int {
	minutes := make([]int, 0, 60/g.granularity)
	for m := 0; m < 60; m += g.granularity {
		minutes = append(minutes, m)
	}
	return minutes
}

func (g *Grid) AllSlots() []Slot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	minutes := g.minutes()
	hours := hoursRange(g.openingHour, g.closingHour)
	slots := make([]Slot, 0, len(hours)*len(minutes))
	for _, h := range hours {
		for _, m := range minutes {
			slots = append(slots, NewSlot(h, m))
		}
	}
	return slots
}

func NewSlot(hour, minute int) Slot {
	return Slot{
		Hour:        hour,
		Minute:      minute,
		Key:         SlotKey(hour, minute),
		Label:       fmt.Sprintf("%02d:%02d", hour, minute),
		IsWholeHour: minute == 0,
	}
}

func SlotKey(hour, minute int) string {
	return fmt.Sprintf("%d_%d", hour, minute)
}

func (g *Grid) IsValidSlot(hour, minute int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if minute < 0 || minute >= 60 || minute%g.granularity != 0 {
		return false
	}
	return slices.Contains(hoursRange(g.openingHour, g.closingHour), hour)
}

// IsOnGrid ne vérifie que l'alignement des minutes
func (g *Grid) IsOnGrid(minute int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return minute >= 0 && minute < 60 && minute%g.granularity == 0
}

// IsServiceHour indique si l'heure appartient à HoursRange
func (g *Grid) IsServiceHour(hour int) bool {
	return slices.Contains(g.HoursRange(), hour)
}

// SnapToGrid arrondit à la ligne de grille inférieure
func (g *Grid) SnapToGrid(minute int) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return (minute / g.granularity) * g.granularity
}

func (g *Grid) Info() Info {
	g.mu.RLock()
	defer g.mu.RUnlock()

	slotsPerHour := 60 / g.granularity
	totalHours := g.closingHour - g.openingHour
	return Info{
		Granularity:  g.granularity,
		Label:        granularityLabels[g.granularity],
		SlotsPerHour: slotsPerHour,
		TotalSlots:   totalHours * slotsPerHour,
		TotalHours:   totalHours,
		OpeningHour:  g.openingHour,
		ClosingHour:  g.closingHour,
		Allowed:      slices.Clone(AllowedGranularities),
	}
}

func GranularityLabel(minutes int) string {
	if label, ok := granularityLabels[minutes]; ok {
		return label
	}
	return fmt.Sprintf("%d minutes", minutes)
}
