package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Traitement des créneaux hors grille au chargement
const (
	LoadRepair = "repair" // recale les minutes puis retire ce qui reste invalide
	LoadDrop   = "drop"   // retire tous les créneaux invalides
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Storage struct {
		Driver  string `env:"DRIVER" envDefault:"file"`
		DataDir string `env:"DATA_DIR" envDefault:"./data"`
	} `envPrefix:"STORAGE_"`
	Database struct {
		DSN                string `env:"DSN"` // requis avec le stockage postgres
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Planning struct {
		OpeningHour         int     `env:"OPENING_HOUR" envDefault:"8"`
		ClosingHour         int     `env:"CLOSING_HOUR" envDefault:"23"` // peut dépasser 24
		Granularity         int     `env:"GRANULARITY" envDefault:"15"`
		MinShiftDuration    float64 `env:"MIN_SHIFT_DURATION" envDefault:"1"`
		MaxShiftDuration    float64 `env:"MAX_SHIFT_DURATION" envDefault:"12"`
		MaxWeeklyHours      float64 `env:"MAX_WEEKLY_HOURS" envDefault:"35"`
		MinRestPeriod       float64 `env:"MIN_REST_PERIOD" envDefault:"11"`
		WrapWeekForRest     bool    `env:"WRAP_WEEK_FOR_REST" envDefault:"false"`
		RestFromElapsedTime bool    `env:"REST_FROM_ELAPSED_TIME" envDefault:"false"` // sinon horloge de 24h
		LoadPolicy          string  `env:"LOAD_POLICY" envDefault:"repair"`
	} `envPrefix:"PLANNING_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
		TemplateDir string `env:"TEMPLATE_DIR" envDefault:"./templates"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"` // vide : pas de notification
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST"` // vide : pas de cache
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD"`
		DB                  int    `env:"DB" envDefault:"0"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"2"`
		StatsTTL            int    `env:"STATS_TTL" envDefault:"300"`
	} `envPrefix:"REDIS_"`
	Seed struct {
		EmailDomain string `env:"EMAIL_DOMAIN" envDefault:"restaurant.fr"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// Seule la première erreur est renvoyée pour garder des journaux lisibles
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate contrôle les règles qui portent sur plusieurs champs
func (cfg *Config) Validate() error {
	if !slices.Contains([]string{StorageFile, StoragePostgres}, cfg.Storage.Driver) {
		return fmt.Errorf("STORAGE_DRIVER inconnu: %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == StoragePostgres && cfg.Database.DSN == "" {
		return errors.New("DATABASE_DSN est requis avec le stockage postgres")
	}

	p := cfg.Planning
	if !slices.Contains([]string{LoadRepair, LoadDrop}, p.LoadPolicy) {
		return fmt.Errorf("PLANNING_LOAD_POLICY inconnu: %q", p.LoadPolicy)
	}
	if p.MinShiftDuration <= 0 || p.MaxShiftDuration < p.MinShiftDuration {
		return fmt.Errorf("durées de créneau invalides: %g-%g", p.MinShiftDuration, p.MaxShiftDuration)
	}
	if p.MaxWeeklyHours <= 0 || p.MinRestPeriod < 0 {
		return errors.New("plafond hebdomadaire ou repos minimum invalide")
	}
	return nil
}
