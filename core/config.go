package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/academia/tuition/core/tuition"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugAddress    string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	TuitionConfig struct {
		Scale     tuition.Scale
		Factors   tuition.Factors
		MaxChange float64
		TableStep float64
	}

	Config struct {
		Env              string // DEV (local; default), TEST, QA, PROD
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		WorkDir          string
		FrontendBaseURL  string
		SendgridApiKey   string
		RollbarToken     string
		defaultFromEmail string

		Server   ServerConfig
		Database DatabaseConfig
		Tuition  TuitionConfig
	}
)

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
}

func (conf Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: conf.AppName, Address: conf.defaultFromEmail}
}

// NewConfig reads the configuration from viper defaults, the environment
// and config/.env.<env> when present.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Academia Tuition")
	v.SetDefault("secretKey", "8w!x-ti@7$hq(u3k2w^zr0f_%c&l9p1e+jv5o#4dmy6snb=g")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "tuition")
	v.SetDefault("database.user", "tuition")
	v.SetDefault("database.password", "tuition")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("tuition.minIncome", tuition.DefaultScale.MinIncome)
	v.SetDefault("tuition.maxIncome", tuition.DefaultScale.MaxIncome)
	v.SetDefault("tuition.minTuition", tuition.DefaultScale.MinTuition)
	v.SetDefault("tuition.maxTuition", tuition.DefaultScale.MaxTuition)
	v.SetDefault("tuition.steepness", tuition.DefaultScale.Steepness)
	v.SetDefault("tuition.siblingFactor", tuition.DefaultFactors.Sibling)
	v.SetDefault("tuition.partTimeFactor", tuition.DefaultFactors.PartTime)
	v.SetDefault("tuition.maxChange", tuition.DefaultMaxChange)
	v.SetDefault("tuition.tableStep", 5000.0)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          workDir,
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugAddress:    v.GetString("server.debugAddress"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Tuition: TuitionConfig{
			Scale: tuition.Scale{
				MinIncome:  v.GetFloat64("tuition.minIncome"),
				MaxIncome:  v.GetFloat64("tuition.maxIncome"),
				MinTuition: v.GetFloat64("tuition.minTuition"),
				MaxTuition: v.GetFloat64("tuition.maxTuition"),
				Steepness:  v.GetFloat64("tuition.steepness"),
			},
			Factors: tuition.Factors{
				Sibling:  v.GetFloat64("tuition.siblingFactor"),
				PartTime: v.GetFloat64("tuition.partTimeFactor"),
			},
			MaxChange: v.GetFloat64("tuition.maxChange"),
			TableStep: v.GetFloat64("tuition.tableStep"),
		},
	}
	if err := conf.Tuition.check(); err != nil {
		log.Fatalf("config.tuition: %v", err)
	}
	return conf
}

// NewTestConfig returns the configuration used by tests: no .env, no external services.
func NewTestConfig() *Config {
	return &Config{
		Env:              "TEST",
		Build:            "test",
		TestMode:         true,
		AppName:          "Academia Tuition",
		SecretKey:        "secret",
		FrontendBaseURL:  "http://localhost:3000",
		defaultFromEmail: "noreply@test.cd",
		Server: ServerConfig{
			Address:         ":0",
			ShutdownTimeout: time.Second,
			DisableReqLogs:  true,
		},
		Tuition: TuitionConfig{
			Scale:     tuition.DefaultScale,
			Factors:   tuition.DefaultFactors,
			MaxChange: tuition.DefaultMaxChange,
			TableStep: 5000,
		},
	}
}

// check guards the configured defaults; scales saved per school year are validated on input.
func (tc TuitionConfig) check() error {
	s := tc.Scale
	switch {
	case s.MinIncome >= s.MaxIncome:
		return fmt.Errorf("minIncome (%v) must be lower than maxIncome (%v)", s.MinIncome, s.MaxIncome)
	case s.MinTuition >= s.MaxTuition:
		return fmt.Errorf("minTuition (%v) must be lower than maxTuition (%v)", s.MinTuition, s.MaxTuition)
	case !tuition.ValidSteepness(s.Steepness):
		return fmt.Errorf("steepness (%v) must be positive and different from 0.99", s.Steepness)
	case tc.MaxChange < 0 || tc.MaxChange > 1:
		return fmt.Errorf("maxChange (%v) must be within [0, 1]", tc.MaxChange)
	}
	return nil
}

// TuitionDefaults returns the scale, factors and max yearly change used by
// school years that do not override them.
func (conf Config) TuitionDefaults() (tuition.Scale, tuition.Factors, float64) {
	tc := conf.Tuition
	return tc.Scale.Or(tuition.DefaultScale), tc.Factors.Or(tuition.DefaultFactors), tc.MaxChange
}
