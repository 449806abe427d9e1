package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoleSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estatedesk",
		Subsystem: "forms",
		Name:      "role_submissions_total",
		Help:      "Role add-new submissions by role and outcome.",
	}, []string{"role", "outcome"})

	AttachmentRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estatedesk",
		Subsystem: "forms",
		Name:      "attachment_rejections_total",
		Help:      "Attachments rejected before reaching a draft.",
	}, []string{"role", "reason"})

	CatalogRefreshFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estatedesk",
		Subsystem: "forms",
		Name:      "catalog_refresh_failures_total",
		Help:      "Failed option catalog fetches by role.",
	}, []string{"role"})

	OpenFormSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "estatedesk",
		Subsystem: "forms",
		Name:      "open_sessions",
		Help:      "Project form sessions currently held in memory.",
	})

	ProfessionalsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estatedesk",
		Subsystem: "projects",
		Name:      "professionals_created_total",
		Help:      "Professionals stored, by role.",
	}, []string{"role"})

	ProjectsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estatedesk",
		Subsystem: "projects",
		Name:      "projects_saved_total",
		Help:      "Project saves, split into inserts and updates.",
	}, []string{"kind"})
)
