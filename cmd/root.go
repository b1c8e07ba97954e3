package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/khanhnv2901/tlsaudit-cli/internal/shared/constants"
)

var cfgFile string
var resultsDir string

// logger starts as a nop so helpers stay callable before the root
// PersistentPreRunE swaps in the configured logger.
var logger = zap.NewNop().Sugar()

var rootCmd = &cobra.Command{
	Use:           "tlsaudit",
	Short:         "Rule-based TLS/security configuration auditor for nginx and Apache",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".tlsaudit-cli")
			viper.SetConfigType("yaml")
		}

		_ = viper.ReadInConfig()
		applyViperOverrides(cliConfig)

		resultsDir = viper.GetString("results_dir")
		if resultsDir == "" {
			resultsDir = "./results"
		}
		if abs, err := filepath.Abs(resultsDir); err == nil {
			resultsDir = abs
		}

		// init logger; quiet by default so stdout/stderr stay clean for
		// report output and CI-visible messages
		zapCfg := zap.NewProductionConfig()
		if !viper.GetBool("debug") {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		l, err := zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l.Sugar()

		logger.Debugf("results_dir=%s", resultsDir)
		return nil
	},
}

// Execute runs the root command and maps errors onto the process exit
// contract: 0 clean, 1 validation errors found, 2 invalid invocation.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Debugw("command failed", "error", err)
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			if !exitErr.quiet {
				fmt.Fprintf(os.Stderr, "%s %v\n", colorError("Error:"), exitErr.err)
			}
			os.Exit(exitErr.code)
		}
		// cobra-level errors (unknown flag/command) are invocation errors
		fmt.Fprintf(os.Stderr, "%s %v\n", colorError("Error:"), err)
		os.Exit(ExitInvocation)
	}
}

func init() {
	// enables the --version flag (informational exit 0); the version
	// subcommand stays for the verbose build details
	rootCmd.Version = Version

	// config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tlsaudit-cli.yaml)")

	// add subcommands
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// ensureResultsDir creates the results directory on demand; only commands
// that persist or read runs need it.
func ensureResultsDir() error {
	if err := os.MkdirAll(resultsDir, constants.DefaultDirPerm); err != nil {
		return fmt.Errorf("failed to create results directory: %s", err.Error())
	}
	return nil
}
