package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// SellerProfile describes the invoice issuer. The Polish Faktura layout
// requires NIP and BankAccount; the renderer rejects incomplete profiles.
type SellerProfile struct {
	Name         string
	BusinessType string
	Address      string
	City         string
	NIP          string
	REGON        string
	Phone        string
	Email        string
	BankName     string
	BankAccount  string
}

// Config is the process-wide configuration, loaded once at startup and
// passed explicitly into services instead of read ambiently.
type Config struct {
	DatabaseDSN string
	Port        string

	JWTSecret          string
	OperatorUser       string
	OperatorPassHash   string // bcrypt hash of the operator password
	AllowedCORSOrigins []string

	DefaultCurrency     string
	DefaultVATRate      decimal.Decimal // percent
	PaymentTermsDays    int
	PolishVATRate       decimal.Decimal // percent, standard Polish rate
	PolishPaymentMethod string

	Seller SellerProfile
}

// Load reads configuration from environment variables, applying the same
// defaults the development database setup expects.
func Load() (Config, error) {
	cfg := Config{
		DatabaseDSN:         buildDSN(),
		Port:                envOr("PORT", "8080"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		OperatorUser:        envOr("OPERATOR_USER", "admin"),
		OperatorPassHash:    os.Getenv("OPERATOR_PASSWORD_HASH"),
		AllowedCORSOrigins:  []string{envOr("FRONTEND_ORIGIN", "http://localhost:5173")},
		DefaultCurrency:     envOr("DEFAULT_CURRENCY", "USD"),
		PaymentTermsDays:    envIntOr("PAYMENT_TERMS_DAYS", 30),
		PolishPaymentMethod: envOr("POLISH_PAYMENT_METHOD", "Przelew bankowy"),
		Seller: SellerProfile{
			Name:         os.Getenv("SELLER_NAME"),
			BusinessType: os.Getenv("SELLER_BUSINESS_TYPE"),
			Address:      os.Getenv("SELLER_ADDRESS"),
			City:         os.Getenv("SELLER_CITY"),
			NIP:          os.Getenv("SELLER_NIP"),
			REGON:        os.Getenv("SELLER_REGON"),
			Phone:        os.Getenv("SELLER_PHONE"),
			Email:        os.Getenv("SELLER_EMAIL"),
			BankName:     os.Getenv("SELLER_BANK_NAME"),
			BankAccount:  os.Getenv("SELLER_BANK_ACCOUNT"),
		},
	}

	var err error
	if cfg.DefaultVATRate, err = envDecimalOr("DEFAULT_VAT_RATE", "0"); err != nil {
		return Config{}, fmt.Errorf("invalid DEFAULT_VAT_RATE: %w", err)
	}
	if cfg.PolishVATRate, err = envDecimalOr("POLISH_VAT_RATE", "23"); err != nil {
		return Config{}, fmt.Errorf("invalid POLISH_VAT_RATE: %w", err)
	}

	return cfg, nil
}

func buildDSN() string {
	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	password := envOr("DB_PASSWORD", "postgres")
	name := envOr("DB_NAME", "postgres")
	sslMode := envOr("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDecimalOr(key, fallback string) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	return decimal.NewFromString(v)
}
