package finance

import "time"

// Типы проводок account.move, попадающие в сводку.
const (
	MoveOutInvoice = "out_invoice"
	MoveOutRefund  = "out_refund"
	MoveInInvoice  = "in_invoice"
	MoveInRefund   = "in_refund"
)

// Move - проведенный счет или возврат. Amount со знаком в валюте компании:
// продажи положительные, закупки отрицательные.
type Move struct {
	Name    string    `json:"name"`
	Partner string    `json:"partner"`
	Type    string    `json:"move_type"`
	Date    time.Time `json:"invoice_date"`
	Amount  float64   `json:"amount_total_signed"`
}

type PartnerTotal struct {
	Partner string  `json:"partner"`
	Amount  float64 `json:"amount"`
}

// Summary - снимок за период.
type Summary struct {
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
	Revenue      float64        `json:"revenue"`
	Expenses     float64        `json:"expenses"`
	Net          float64        `json:"net"`
	InvoiceCount int            `json:"invoice_count"`
	TopExpenses  []PartnerTotal `json:"top_expenses"`
}

// DataContext - данные ERP, на которые опирается ответ модели.
type DataContext struct {
	Summary Summary `json:"summary"`
	Moves   []Move  `json:"moves"`
}
