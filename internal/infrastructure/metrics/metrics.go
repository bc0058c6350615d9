package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

var (
	postingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mitrabooks_postings_created_total",
			Help: "Total number of journal entries posted, by event code",
		},
		[]string{"event_code"},
	)

	postingLines = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mitrabooks_posting_lines",
		Help:    "Number of lines per posted entry",
		Buckets: []float64{2, 3, 4, 6, 8, 12},
	})

	postingErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mitrabooks_posting_errors_total",
			Help: "Total number of rejected postings, by event code and reason",
		},
		[]string{"event_code", "reason"},
	)

	reversalsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mitrabooks_reversals_created_total",
		Help: "Total number of reversal entries posted",
	})

	periodTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mitrabooks_period_transitions_total",
			Help: "Total number of period status transitions, by target status",
		},
		[]string{"to_status"},
	)
)

// RecordPosting counts a successful posting.
func RecordPosting(eventCode string, lines int) {
	postingsCreated.WithLabelValues(eventCode).Inc()
	postingLines.Observe(float64(lines))
}

// RecordPostingError counts a rejected posting under a bounded reason label.
func RecordPostingError(eventCode string, err error) {
	postingErrors.WithLabelValues(eventCode, postingErrorReason(err)).Inc()
}

// RecordReversal counts a posted reversal entry.
func RecordReversal() {
	reversalsCreated.Inc()
}

// RecordPeriodTransition counts a period status change.
func RecordPeriodTransition(toStatus domain.PeriodStatus) {
	periodTransitions.WithLabelValues(string(toStatus)).Inc()
}

func postingErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrPeriodClosed):
		return "period_closed"
	case errors.Is(err, domain.ErrPeriodLocked):
		return "period_locked"
	case errors.Is(err, domain.ErrNoPeriodDefined):
		return "no_period"
	case errors.Is(err, domain.ErrNoRulesConfigured):
		return "no_rules"
	case errors.Is(err, domain.ErrMissingAmountSource):
		return "missing_amount"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrCollectorRequired):
		return "collector_required"
	case errors.Is(err, domain.ErrUnknownAccount):
		return "unknown_account"
	case errors.Is(err, domain.ErrUnbalancedEntry):
		return "unbalanced"
	default:
		return "other"
	}
}
