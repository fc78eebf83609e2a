package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK               = "ok"
	OutcomeAccessDenied     = "access_denied"
	OutcomeConnectionFailed = "connection_failed"
	OutcomeExecutionFailed  = "execution_failed"
)

var ERPCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "odosight_erp_calls_total",
		Help: "Total count of ERP RPC calls by method and outcome",
	},
	[]string{"method", "outcome"},
)

var ChatMessages = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "odosight_chat_messages_total",
		Help: "Total count of chat messages by kind (command, wizard, query)",
	},
	[]string{"kind"},
)

var CredentialFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "odosight_credential_decrypt_failures_total",
		Help: "Total count of stored credentials that could not be decrypted",
	},
)

// Register регистрирует метрики в реестре. Один набор счетчиков можно
// зарегистрировать в нескольких реестрах.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{ERPCalls, ChatMessages, CredentialFailures} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
