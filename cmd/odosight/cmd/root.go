package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"odosight/cmd/odosight/cmd/erp"
	"odosight/internal/config"
	"odosight/internal/utils/logger"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
	log     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "odosight",
	Short: "OdoSight - финансовый чат-бот для Odoo ERP",
	Long: `OdoSight связывает учетную запись Odoo пользователя с AI-моделью и отвечает
на вопросы о финансах компании.

Доступ к ERP только на чтение. Пароли Odoo и ключи AI хранятся зашифрованными
ключом, производным от VAULT_PASSPHRASE.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup загружает конфигурацию и логгер; нужен командам, работающим с хранилищем.
func setup(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log = logger.WithLevel(cfg.Env, level)

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл (yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(encryptCmd)

	rootCmd.AddCommand(erp.ErpCmd)
	erp.ErpCmd.AddCommand(erp.CheckCmd)
}
