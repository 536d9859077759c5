package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuditEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenancy_audit_entries_total",
		Help: "Audit log entries appended, by severity.",
	}, []string{"severity"})

	AuthorizationDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenancy_authorization_denials_total",
		Help: "Requests denied by authorization or escalation checks, by operation.",
	}, []string{"operation"})

	PurgedDocumentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tenancy_purged_documents_total",
		Help: "Documents removed by tenant hard deletes.",
	})

	InvitesConsumedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tenancy_invites_consumed_total",
		Help: "Invite codes successfully redeemed.",
	})
)
