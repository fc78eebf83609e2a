package finance

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

const topExpensePartners = 5

// Summarize сворачивает проводки периода в сводку.
func Summarize(moves []Move, from, to time.Time) Summary {
	sales := lo.Filter(moves, func(m Move, _ int) bool {
		return m.Type == MoveOutInvoice || m.Type == MoveOutRefund
	})
	purchases := lo.Filter(moves, func(m Move, _ int) bool {
		return m.Type == MoveInInvoice || m.Type == MoveInRefund
	})

	revenue := lo.SumBy(sales, func(m Move) float64 { return m.Amount })
	expenses := -lo.SumBy(purchases, func(m Move) float64 { return m.Amount })

	byPartner := lo.GroupBy(purchases, func(m Move) string { return m.Partner })
	totals := lo.MapToSlice(byPartner, func(partner string, ms []Move) PartnerTotal {
		return PartnerTotal{
			Partner: partner,
			Amount:  -lo.SumBy(ms, func(m Move) float64 { return m.Amount }),
		}
	})
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].Partner < totals[j].Partner
	})

	return Summary{
		From:         from,
		To:           to,
		Revenue:      revenue,
		Expenses:     expenses,
		Net:          revenue - expenses,
		InvoiceCount: len(moves),
		TopExpenses:  lo.Subset(totals, 0, topExpensePartners),
	}
}
