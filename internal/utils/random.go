package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/timegrid"
)

var commonFirstNames = []string{
	"Camille", "Lucas", "Emma", "Hugo", "Chloe", "Louis", "Lea", "Gabriel",
	"Manon", "Arthur", "Ines", "Jules", "Sarah", "Nathan", "Jade", "Raphael",
	"Louise", "Adam", "Alice", "Theo",
}

var commonLastNames = []string{
	"Martin", "Bernard", "Thomas", "Petit", "Robert", "Richard", "Durand", "Dubois",
	"Moreau", "Laurent", "Simon", "Michel", "Lefebvre", "Leroy", "Roux", "David",
	"Bertrand", "Morel", "Fournier", "Girard",
}

func GenerateRandomName() (string, string) {
	return commonFirstNames[rand.Intn(len(commonFirstNames))], commonLastNames[rand.Intn(len(commonLastNames))]
}

func GenerateRandomPosition() domain.Position {
	return domain.Positions[rand.Intn(len(domain.Positions))]
}

var digits = "0123456789"

// GenerateEmailFromName donne prenom.nom suivi de 1 à 3 chiffres
func GenerateEmailFromName(firstName, lastName, emailDomainName string) string {
	local := strings.ToLower(firstName) + "." + strings.ToLower(lastName)

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local + "@" + emailDomainName
}

func GenerateRandomPhone() string {
	return fmt.Sprintf("06%08d", rand.Intn(100000000))
}

// GenerateRandomHourlyRate tire un taux entre 12 et 25 par pas de 0,5
func GenerateRandomHourlyRate() float64 {
	return 12 + float64(rand.Intn(27))*0.5
}

func GenerateRandomEmployee(emailDomainName string) *domain.Employee {
	firstName, lastName := GenerateRandomName()

	return &domain.Employee{
		FirstName:  firstName,
		LastName:   lastName,
		Position:   GenerateRandomPosition(),
		Email:      GenerateEmailFromName(firstName, lastName, emailDomainName),
		Phone:      GenerateRandomPhone(),
		HourlyRate: GenerateRandomHourlyRate(),
		IsActive:   true,
	}
}

// GenerateRandomWorkingDays mélange la semaine (Fisher-Yates) et en garde un préfixe non vide
func GenerateRandomWorkingDays() []domain.Day {
	days := append([]domain.Day{}, domain.Week...)

	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := rand.Intn(len(days)) + 1
	return days[:n]
}

// GenerateRandomShift produit un créneau aligné sur la grille, qui commence pendant
// les heures d'ouverture et dure entre minHours et maxHours par demi-heure.
// Le créneau peut encore être refusé par les autres règles.
func GenerateRandomShift(employeeID string, day domain.Day, grid *timegrid.Grid, minHours, maxHours float64) domain.Shift {
	slots := grid.AllSlots()
	slot := slots[rand.Intn(len(slots))]

	steps := int((maxHours-minHours)*2) + 1
	if steps < 1 {
		steps = 1
	}
	duration := minHours + float64(rand.Intn(steps))*0.5

	return domain.Shift{
		EmployeeID:    employeeID,
		Day:           day,
		StartHour:     slot.Hour,
		StartMinute:   slot.Minute,
		DurationHours: duration,
	}
}
