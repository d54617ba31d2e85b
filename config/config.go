package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Session   SessionConfig   `yaml:"session"`
	Fixtures  FixturesConfig  `yaml:"fixtures"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Booking   BookingConfig   `yaml:"booking"`
	Conductor ConductorConfig `yaml:"conductor"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address" validate:"required"`
	SwaggerEnabled bool     `yaml:"swagger_enabled"`
	CORSOrigins    []string `yaml:"cors_origins"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret" validate:"required,min=16"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes" validate:"gt=0"`
}

type SessionConfig struct {
	Store      string `yaml:"store" validate:"oneof=memory redis"`
	TTLMinutes int    `yaml:"ttl_minutes" validate:"gt=0"`
}

type FixturesConfig struct {
	Source string `yaml:"source" validate:"oneof=embedded file postgres"`
	Path   string `yaml:"path" validate:"required_if=Source file"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	Currency         string `yaml:"currency" validate:"required,len=3"`
	Timezone         string `yaml:"timezone" validate:"required"`
	PremiumSeatCount int    `yaml:"premium_seat_count" validate:"gte=0"`
	PremiumFare      int64  `yaml:"premium_fare" validate:"gte=0"`
	StandardFare     int64  `yaml:"standard_fare" validate:"gte=0"`
	LuggageFee       int64  `yaml:"luggage_fee" validate:"gte=0"`
	MaxPassengers    int    `yaml:"max_passengers" validate:"gte=1"`
	MaxLuggage       int    `yaml:"max_luggage" validate:"gte=0"`
	ProximityWindow  int    `yaml:"proximity_window" validate:"gte=0"`
	DefaultBusFare   int64  `yaml:"default_bus_fare" validate:"gte=0"`
	MinutesPerStop   int    `yaml:"minutes_per_stop" validate:"gt=0"`
	AverageSpeedKmph int    `yaml:"average_speed_kmph" validate:"gt=0"`
	PaymentDelayMS   int    `yaml:"payment_delay_ms" validate:"gte=0"`
	TicketValidDays  int    `yaml:"ticket_valid_days" validate:"gt=0"`
}

func (b BookingConfig) PaymentDelay() time.Duration {
	return time.Duration(b.PaymentDelayMS) * time.Millisecond
}

// Location resolves Timezone, falling back to UTC when the zone database lacks it.
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type ConductorConfig struct {
	TickSeconds int `yaml:"tick_seconds" validate:"gt=0"`
}

func (c ConductorConfig) Tick() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

// Default returns the configuration used when a key is absent from the file.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			SwaggerEnabled: true,
			CORSOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Auth:     AuthConfig{JWTSecret: "dirabasi-dev-secret-change-me", TokenTTLMinutes: 720},
		Session:  SessionConfig{Store: "memory", TTLMinutes: 120},
		Fixtures: FixturesConfig{Source: "embedded"},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "dirabasi", SSLMode: "disable"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Kafka:    KafkaConfig{BookingEventsTopic: "booking_events", GroupID: "dirabasi-worker"},
		Booking: BookingConfig{
			Currency:         "TZS",
			Timezone:         "Africa/Dar_es_Salaam",
			PremiumSeatCount: 4,
			PremiumFare:      5000,
			StandardFare:     1000,
			LuggageFee:       500,
			MaxPassengers:    8,
			MaxLuggage:       4,
			ProximityWindow:  2,
			DefaultBusFare:   5000,
			MinutesPerStop:   10,
			AverageSpeedKmph: 30,
			PaymentDelayMS:   1500,
			TicketValidDays:  30,
		},
		Conductor: ConductorConfig{TickSeconds: 5},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
