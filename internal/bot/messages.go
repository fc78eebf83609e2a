package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"odosight/internal/domain/finance"
	"odosight/internal/domain/settings"
	"odosight/internal/erp"
	"odosight/internal/vault"
)

const (
	msgWelcome = "Welcome to *OdoSight*! 🦾\n" +
		"I connect your Odoo ERP to Gemini AI for high-level financial intelligence.\n\n" +
		"1️⃣ Use /setup to link your account.\n" +
		"2️⃣ Ask me questions like: 'What are my top expenses?'\n" +
		"3️⃣ Type /summary for a quick %d-day snapshot."
	msgSetupDone     = "✅ Setup Complete! Your OdoSight is now live. Try asking a question!"
	msgCancelled     = "Setup cancelled."
	msgReset         = "🗑 Your Odoo and AI credentials have been removed. Use /setup to link them again."
	msgThinking      = "Thinking... 🧠"
	msgFetching      = "Fetching %d-day summary... 📊"
	msgUnknown       = "Unknown command. Type /start to see what I can do."
	msgEmptyQuestion = "Ask me a question about your finances, or type /start."

	msgNotConfigured = "Please run /setup first!"
	msgDecryption    = "🔐 Your stored credentials could not be decrypted. Please run /setup again."
	msgConnection    = "❌ Could not connect to Odoo. Check the URL, database and credentials, or run /setup again."
	msgAccessDenied  = "⛔ That operation is not allowed: OdoSight only has read-only access to your ERP."
	msgExecution     = "❌ Odoo could not run the query: %v"
	msgTimeout       = "⏱ The request took too long. Please try again."
	msgInternal      = "❌ Something went wrong. Please try again later."
	msgInvalidInput  = "That doesn't look right. %s"
)

// errorMessage переводит ошибку в ответ пользователю.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, settings.ErrNotConfigured):
		return msgNotConfigured
	case errors.Is(err, vault.ErrDecryptionFailed):
		return msgDecryption
	case errors.Is(err, erp.ErrAccessDenied):
		return msgAccessDenied
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, erp.ErrConnectionFailed):
		return msgConnection
	case errors.Is(err, erp.ErrExecutionFailed):
		return fmt.Sprintf(msgExecution, err)
	default:
		return msgInternal
	}
}

func formatSummary(s finance.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *Summary %s to %s*\n", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Revenue: %.2f\n", s.Revenue)
	fmt.Fprintf(&sb, "Expenses: %.2f\n", s.Expenses)
	fmt.Fprintf(&sb, "Net: %.2f\n", s.Net)
	fmt.Fprintf(&sb, "Posted invoices: %d", s.InvoiceCount)

	if len(s.TopExpenses) > 0 {
		sb.WriteString("\n\nTop expenses:")
		for i, p := range s.TopExpenses {
			fmt.Fprintf(&sb, "\n%d. %s: %.2f", i+1, p.Partner, p.Amount)
		}
	}

	return sb.String()
}
