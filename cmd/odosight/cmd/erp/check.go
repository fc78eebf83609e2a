package erp

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"odosight/internal/erp"
	"odosight/internal/utils/logger"
	"odosight/internal/utils/prompt"
)

var (
	erpURL   string
	database string
	username string
	protocol string
	timeout  time.Duration
)

// CheckCmd аутентифицируется, печатает версию сервера и первые пять партнеров
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Проверить подключение к Odoo",
	Long: `Аутентифицируется в Odoo, печатает версию сервера и первых пять партнеров (res.partner).
Значения по умолчанию берутся из ODOO_URL, ODOO_DB, ODOO_USER, ODOO_PASSWORD.
Если ODOO_PASSWORD не задан, пароль запрашивается без эха.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		viper.AutomaticEnv()
		creds := erp.Credentials{
			URL:      valueOr(erpURL, viper.GetString("ODOO_URL")),
			Database: valueOr(database, viper.GetString("ODOO_DB")),
			Username: valueOr(username, viper.GetString("ODOO_USER")),
			Password: viper.GetString("ODOO_PASSWORD"),
		}
		if creds.URL == "" || creds.Database == "" || creds.Username == "" {
			return errors.New("missing --url, --db or --user (or ODOO_URL, ODOO_DB, ODOO_USER)")
		}
		if creds.Password == "" {
			pwd, err := prompt.New(os.Stdin, os.Stderr).Secret("Odoo API password: ")
			if err != nil {
				return err
			}
			creds.Password = pwd
		}

		tr, err := erp.NewTransport(protocol, creds.URL, &http.Client{Timeout: timeout})
		if err != nil {
			return err
		}
		if c, ok := tr.(interface{ Close() error }); ok {
			defer c.Close()
		}

		ctx := cmd.Context()
		session := erp.NewSession(tr, creds, logger.New(viper.GetString("APP_ENV")))

		if err := session.Authenticate(ctx); err != nil {
			color.Red("❌ Authentication failed: %v", err)
			return err
		}
		color.Green("✅ Authenticated successfully! UID: %d", session.UID())

		version, err := session.Version(ctx)
		if err != nil {
			color.Yellow("Server version unavailable: %v", err)
		} else {
			fmt.Println("Server Version:", version["server_version"])
		}

		partners, err := session.SearchRead(ctx, "res.partner", nil, erp.SearchReadOptions{
			Fields: []string{"name", "email"},
			Limit:  5,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Fetched %d partners.\n", len(partners))
		for _, p := range partners {
			email, _ := p["email"].(string)
			if email == "" {
				email = "No email"
			}
			fmt.Printf("- %v (%s)\n", p["name"], email)
		}

		if err := session.Write(ctx, "res.partner", nil, nil); errors.Is(err, erp.ErrAccessDenied) {
			color.Green("✓ Write access is blocked (read-only mode)")
		}

		return nil
	},
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func init() {
	CheckCmd.Flags().StringVar(&erpURL, "url", "", "URL сервера Odoo")
	CheckCmd.Flags().StringVar(&database, "db", "", "имя базы данных")
	CheckCmd.Flags().StringVar(&username, "user", "", "логин или email пользователя")
	CheckCmd.Flags().StringVar(&protocol, "protocol", erp.ProtocolXMLRPC, "протокол: xmlrpc или jsonrpc")
	CheckCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "таймаут запроса")
}
