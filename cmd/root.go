/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/longkey1/omnichat/internal/omnichat/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "omnichat"

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop().Sugar()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "A streaming multimodal chat client",
	Long: `omnichat is a command-line chat client for OpenAI-compatible chat completion
endpoints such as DashScope's qwen-omni models.

Messages may embed images with the syntax ![](path_or_url). Local files are
sent inline, remote URLs are passed through.
You can configure the tool using a TOML configuration file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogger, initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/omnichat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initLogger builds the diagnostic logger. Without --verbose only warnings
// and errors reach stderr.
func initLogger() {
	var (
		zl  *zap.Logger
		err error
	)
	if verbose {
		zl, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.DisableStacktrace = true
		zl, err = cfg.Build()
	}
	cobra.CheckErr(err)
	logger = zl.Sugar()
}

// userConfigDir returns $HOME/.config/omnichat
func userConfigDir() string {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	return filepath.Join(home, ".config", appName)
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	// .env in the working directory is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warnw("Error loading .env file", "error", err)
	}

	viper.SetEnvPrefix("OMNICHAT")
	viper.AutomaticEnv()

	configDir := userConfigDir()

	// Later directories in the array take precedence over earlier ones
	defaultPromptDirs := []string{
		"/usr/share/omnichat/prompts",
		"/usr/local/share/omnichat/prompts",
		filepath.Join(configDir, "prompts"),
	}
	config.SetDefaults(viper.GetViper(), defaultPromptDirs)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			logger.Errorw("Error reading config file", "file", cfgFile, "error", err)
		}
	} else {
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		// System-wide config first (lower priority)
		viper.AddConfigPath("/etc/omnichat")
		viper.AddConfigPath("/usr/local/etc/omnichat")
		systemConfigLoaded := viper.ReadInConfig() == nil
		if systemConfigLoaded {
			logger.Debugw("Loaded system-wide config", "file", viper.ConfigFileUsed())
		}

		// User config merged on top
		userViper := viper.New()
		userViper.SetConfigType("toml")
		userViper.SetConfigFile(filepath.Join(configDir, "config.toml"))
		if err := userViper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				logger.Warnw("Error reading user config file", "error", err)
			}
		} else {
			if err := viper.MergeConfigMap(userViper.AllSettings()); err != nil {
				logger.Warnw("Error merging user config file", "error", err)
			}
			viper.SetConfigFile(userViper.ConfigFileUsed())
			logger.Debugw("Merged user config", "file", userViper.ConfigFileUsed())
		}
	}

	logger.Debugw("Configuration",
		"file", viper.ConfigFileUsed(),
		"model", viper.GetString("model"),
		"base_url", viper.GetString("base_url"),
		"prompt_dirs", viper.GetStringSlice("prompt_dirs"),
	)
}

// loadConfig loads and validates the configuration for commands that talk to the endpoint
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
