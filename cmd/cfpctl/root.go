package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cfp-engine/internal/config"
	"cfp-engine/internal/database"
	"cfp-engine/internal/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile string
	logLevel   string

	// settings is the configuration shared by every subcommand
	settings *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cfpctl",
	Short: "Operator tooling for the CFP engine",
	Long: `cfpctl runs maintenance tasks against the CFP engine database.

Configuration is read from the same environment as the API server
(DB_HOST, SMTP_HOST, ...). Values can be overridden by a YAML file
passed with --config and by CFPCTL_* environment variables, e.g.
CFPCTL_DATABASE_HOST or CFPCTL_DELIVERY_BATCH_SIZE.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		settings = cfg
		logger.Setup(logger.Config{Level: cfg.Log.Level, Format: "text", Output: os.Stderr})
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printStatus("✗", err.Error(), color.FgRed)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML file with configuration overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(tokenCmd)
}

// loadSettings builds the base config from the environment and layers the
// optional YAML file, CFPCTL_* variables and flags on top.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("CFPCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", configFile, err)
		}
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil {
		if err := v.BindPFlag("log.level", f); err != nil {
			return nil, fmt.Errorf("bind log-level: %w", err)
		}
	}

	applyOverrides(v, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides copies every key viper knows about onto cfg
func applyOverrides(v *viper.Viper, cfg *config.Config) {
	str := func(key string, dst *string) {
		if v.IsSet(key) && v.GetString(key) != "" {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) && v.GetInt(key) > 0 {
			*dst = v.GetInt(key)
		}
	}

	str("database.host", &cfg.Database.Host)
	str("database.port", &cfg.Database.Port)
	str("database.user", &cfg.Database.User)
	str("database.password", &cfg.Database.Password)
	str("database.name", &cfg.Database.Name)
	str("database.sslmode", &cfg.Database.SSLMode)
	str("database.migrations_path", &cfg.Database.MigrationsPath)

	str("smtp.host", &cfg.Email.SMTPHost)
	str("smtp.port", &cfg.Email.SMTPPort)
	str("smtp.username", &cfg.Email.SMTPUsername)
	str("smtp.password", &cfg.Email.SMTPPassword)
	str("smtp.from", &cfg.Email.SMTPFrom)

	num("delivery.batch_size", &cfg.Delivery.BatchSize)
	num("delivery.max_attempts", &cfg.Delivery.MaxAttempts)
	if v.IsSet("delivery.poll_interval") && v.GetDuration("delivery.poll_interval") > 0 {
		cfg.Delivery.PollInterval = v.GetDuration("delivery.poll_interval")
	}

	str("jwt.secret", &cfg.JWT.Secret)
	if v.IsSet("jwt.expiration") && v.GetDuration("jwt.expiration") > 0 {
		cfg.JWT.Expiration = v.GetDuration("jwt.expiration")
	}

	str("log.level", &cfg.Log.Level)
}

// openDatabase connects using the loaded settings
func openDatabase() (*database.Database, error) {
	if settings == nil {
		return nil, errors.New("configuration not loaded")
	}
	db, err := database.New(&settings.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
