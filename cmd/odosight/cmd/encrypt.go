package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"odosight/internal/utils/prompt"
	"odosight/internal/vault"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Зашифровать значение ключом VAULT_PASSPHRASE",
	Long: `Читает значение из терминала без эха и печатает токен хранилища.
Токен можно положить в user_configs вручную или проверить совместимость парольной фразы.`,
	PreRunE: setup,
	RunE: func(_ *cobra.Command, _ []string) error {
		v, err := vault.New(cfg.Vault.Passphrase)
		if err != nil {
			return err
		}

		value, err := prompt.New(os.Stdin, os.Stderr).Secret("Value: ")
		if err != nil {
			return err
		}
		if value == "" {
			return fmt.Errorf("empty value")
		}

		token, err := v.Seal(value)
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}
