package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eringen/spacetraveling"
)

var (
	cfgFile string
	v       *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "spacetraveling",
	Short: "Server-rendered blog backed by a Prismic repository",
	Long: `spacetraveling serves blog posts stored in a Prismic repository. Post pages
are generated on demand, kept in a page store and refreshed in the background
once they are older than the revalidate window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("log_format", "json", "log output: json or console")
	rootCmd.PersistentFlags().String("log_level", "info", "minimum log level")
	rootCmd.AddCommand(serveCmd, buildCmd, versionCmd)
}

// envAliases lets the usual unprefixed variable names configure the
// matching keys.
var envAliases = map[string]string{
	"prismic_api_endpoint": "PRISMIC_API_ENDPOINT",
	"prismic_access_token": "PRISMIC_ACCESS_TOKEN",
	"session_secret":       "SESSION_SECRET",
	"revalidate_secret":    "REVALIDATE_SECRET",
	"redis_url":            "REDIS_URL",
	"log_format":           "LOG_FORMAT",
}

func initializeConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(spacetraveling.EnvOr("SPACETRAVELING_ENV_FILE", ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	v = viper.New()
	v.SetDefault("addr", ":3000")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("database_path", "data/pages.db")
	v.SetDefault("revalidate", "1800s")
	v.SetDefault("generate_timeout", "30s")
	v.SetDefault("prebuild_count", 1)
	v.SetDefault("home_page_size", 10)
	v.SetDefault("time_zone", "America/Sao_Paulo")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SPACETRAVELING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, "SPACETRAVELING_"+strings.ToUpper(key), env); err != nil {
			return err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if cfgFile != "" {
			return fmt.Errorf("config file %s not found: %w", cfgFile, err)
		}
	}
	return v.BindPFlags(cmd.Flags())
}

func siteConfig() spacetraveling.SiteConfig {
	return spacetraveling.SiteConfig{
		Name:               v.GetString("name"),
		URL:                v.GetString("url"),
		Description:        v.GetString("description"),
		Author:             v.GetString("author"),
		Addr:               v.GetString("addr"),
		DatabasePath:       v.GetString("database_path"),
		RedisURL:           v.GetString("redis_url"),
		PrismicEndpoint:    v.GetString("prismic_api_endpoint"),
		PrismicAccessToken: v.GetString("prismic_access_token"),
		SessionSecret:      v.GetString("session_secret"),
		CookieSecure:       v.GetBool("cookie_secure"),
		RevalidateSecret:   v.GetString("revalidate_secret"),
		Revalidate:         v.GetDuration("revalidate"),
		GenerateTimeout:    v.GetDuration("generate_timeout"),
		PrebuildCount:      v.GetInt("prebuild_count"),
		HomePageSize:       v.GetInt("home_page_size"),
		DisableFallback:    v.GetBool("disable_fallback"),
		TimeZone:           v.GetString("time_zone"),
	}
}

// newApp builds the logger and the App from the loaded configuration.
func newApp() (*spacetraveling.App, *zap.Logger, error) {
	logger, err := spacetraveling.NewLogger(v.GetString("log_format"), v.GetString("log_level"))
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Info("using config file", zap.String("path", used))
	}
	app, err := spacetraveling.New(siteConfig(), spacetraveling.WithLogger(logger))
	if err != nil {
		logger.Sync()
		return nil, nil, err
	}
	return app, logger, nil
}
