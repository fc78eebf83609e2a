package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"odosight/internal/app"
	"odosight/internal/utils/prompt"
)

var chatUser string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Диалог с ботом в терминале",
	Long: `Локальный диалог с ботом: те же команды, что и в чате (/setup, /summary, /cancel, /reset).
Пароль Odoo и ключ AI на шагах мастера вводятся без эха. Выход: /quit или Ctrl+D.`,
	PreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		p := prompt.New(os.Stdin, os.Stdout)
		botColor := color.New(color.FgCyan)

		for _, reply := range a.Bot.Handle(cmd.Context(), chatUser, "/start") {
			botColor.Println(reply)
		}

		for {
			var text string
			if a.Bot.AwaitingSecret(chatUser) {
				text, err = p.Secret("🔒 ")
			} else {
				text, err = p.Line("> ")
			}
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			if err != nil {
				return err
			}
			if text == "/quit" || text == "/exit" {
				return nil
			}

			for _, reply := range a.Bot.Handle(cmd.Context(), chatUser, text) {
				botColor.Println(reply)
			}
		}
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatUser, "user", "local", "идентификатор пользователя")
}
