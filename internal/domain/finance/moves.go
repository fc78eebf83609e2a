package finance

import (
	"fmt"
	"time"

	"odosight/internal/erp"
)

const (
	moveModel  = "account.move"
	dateLayout = "2006-01-02"
	maxMoves   = 500
	noPartner  = "(no partner)"
)

var moveFields = []string{"name", "partner_id", "move_type", "invoice_date", "amount_total_signed"}

func movesDomain(from time.Time) []any {
	return []any{
		[]any{"state", "=", "posted"},
		[]any{"move_type", "in", []any{MoveOutInvoice, MoveOutRefund, MoveInInvoice, MoveInRefund}},
		[]any{"invoice_date", ">=", from.Format(dateLayout)},
	}
}

func movesOptions() erp.SearchReadOptions {
	return erp.SearchReadOptions{
		Fields: moveFields,
		Limit:  maxMoves,
		Order:  "invoice_date desc",
	}
}

// moveFromRow разбирает строку search_read. Пустые поля Odoo приходят как false.
func moveFromRow(row map[string]any) (Move, error) {
	m := Move{
		Name:    stringField(row["name"]),
		Type:    stringField(row["move_type"]),
		Partner: partnerName(row["partner_id"]),
	}

	amount, err := number(row["amount_total_signed"])
	if err != nil {
		return Move{}, fmt.Errorf("%s: amount_total_signed: %w", m.Name, err)
	}
	m.Amount = amount

	if d := stringField(row["invoice_date"]); d != "" {
		date, err := time.Parse(dateLayout, d)
		if err != nil {
			return Move{}, fmt.Errorf("%s: invoice_date: %w", m.Name, err)
		}
		m.Date = date
	}

	return m, nil
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

// partnerName - many2one приходит парой [id, "Имя"].
func partnerName(v any) string {
	pair, ok := v.([]any)
	if !ok || len(pair) < 2 {
		return noPartner
	}
	if name, ok := pair[1].(string); ok && name != "" {
		return name
	}
	return noPartner
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case nil, bool:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
