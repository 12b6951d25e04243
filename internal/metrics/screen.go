package metrics

import (
	"github.com/DukeRupert/wrestaurant/internal/domain"
)

// FormSubmitted records a form submission and how it ended.
func FormSubmitted(form string, err error) {
	outcome := "success"
	switch domain.ErrorCode(err) {
	case "":
	case domain.EINVALID:
		outcome = "invalid"
	case domain.ECONFLICT:
		outcome = "conflict"
	default:
		outcome = "error"
	}
	FormSubmissionsTotal.WithLabelValues(form, outcome).Inc()
}

// ViewChanged records a transition when the view actually changed.
func ViewChanged(from, to domain.View) {
	if from == to {
		return
	}
	ViewTransitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
}
