package handler

import (
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
	"github.com/resto-planning/shift-planner/backend/internal/cache"
	"github.com/resto-planning/shift-planner/backend/internal/config"
	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/resto-planning/shift-planner/backend/internal/planning"
	"github.com/resto-planning/shift-planner/backend/internal/store"
	"github.com/resto-planning/shift-planner/backend/internal/telemetry"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	engine     *planning.Engine
	backend    store.Backend
	translator ut.Translator
	statsCache *cache.StatsCache

	Mux *chi.Mux
}

// NewHandler accepte un statsCache nil : les statistiques sont alors recalculées à chaque appel
func NewHandler(cfg *config.Config, engine *planning.Engine, backend store.Backend, statsCache *cache.StatsCache) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Les messages citent le nom du champ JSON
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	fr := fr.New()
	uni := ut.New(fr, fr)
	trans, _ := uni.GetTranslator("fr")
	if err := fr_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := registerWeekday(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		engine:     engine,
		backend:    backend,
		translator: trans,
		statsCache: statsCache,

		Mux: chi.NewRouter(),
	}, nil
}

// registerWeekday ajoute la règle "weekday" : Lundi..Dimanche
func registerWeekday(validate *validator.Validate, trans ut.Translator) error {
	if err := validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return domain.Day(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}

	return validate.RegisterTranslation("weekday", trans,
		func(ut ut.Translator) error {
			return ut.Add("weekday", "{0} doit être un jour de la semaine (Lundi à Dimanche)", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("weekday", fe.Field())
			return t
		},
	)
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(telemetry.Middleware)

	h.Mux.Handle("/metrics", telemetry.Handler())

	// Grille horaire
	h.Mux.Route("/grid", func(r chi.Router) {
		r.Get("/", h.GetGrid)
		r.Patch("/", h.UpdateGranularity)
		r.Get("/validate-slot", h.ValidateSlot)
		r.Get("/non-conformant", h.GetNonConformantShifts)
		r.Post("/repair", h.RepairShifts)
		r.Post("/migrate", h.MigrateGranularity)
		r.Get("/suggestion", h.SuggestGranularity)
	})

	h.Mux.Route("/employees", func(r chi.Router) {
		r.Get("/", h.GetAllEmployees)
		r.Post("/", h.CreateEmployee)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.employee)
			r.Get("/", h.GetEmployee)
			r.Delete("/", h.DeactivateEmployee)
			r.Get("/stats", h.GetEmployeeStats)
		})
	})

	h.Mux.Route("/shifts", func(r chi.Router) {
		r.Get("/", h.GetAllShifts)
		r.Post("/", h.ProposeShift)
		r.Post("/conflicts", h.CheckConflicts)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.shift)
			r.Get("/", h.GetShift)
			r.Patch("/", h.UpdateShift)
			r.Delete("/", h.DeleteShift)
		})
	})

	h.Mux.Route("/stats", func(r chi.Router) {
		r.Get("/weekly", h.GetWeeklyStats)
		r.Get("/slots", h.GetSlotUsage)
	})

	h.Mux.Get("/audit/conflicts", h.AuditConflicts)
}
