package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parakeetlabs/skillet/pkg/gateway"
	"github.com/parakeetlabs/skillet/pkg/logger"
	"github.com/parakeetlabs/skillet/pkg/presenter"
)

var rootCmd = &cobra.Command{
	Use:   "skillet",
	Short: "A skill runtime for agent platforms",
	Long: `skillet hosts a set of independently invoked skills behind a shared
validate-execute envelope. Skills range from thin API wrappers (stock
quotes, RSS headlines, notes) to the in-memory knowledge base with
TF-IDF ranked search.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.Init(viper.GetString("log_level"), viper.GetString("log_format")); err != nil {
			return err
		}
		presenter.SetQuiet(viper.GetBool("quiet"))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress informational output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	viper.SetEnvPrefix("SKILLET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillet")
	viper.AddConfigPath(".")

	viper.SetDefault("gateway.timeout", 10*time.Second)
	viper.SetDefault("gateway.attempts", 3)
	viper.SetDefault("gateway.api_key_param", "token")

	// Config file is optional.
	_ = viper.ReadInConfig()
}

// gatewayFromConfig builds the provider client from viper settings.
func gatewayFromConfig() (gateway.Client, error) {
	return gateway.New(gateway.Config{
		Timeout:     viper.GetDuration("gateway.timeout"),
		Attempts:    uint(viper.GetInt("gateway.attempts")),
		APIKey:      viper.GetString("gateway.api_key"),
		APIKeyParam: viper.GetString("gateway.api_key_param"),
	})
}
