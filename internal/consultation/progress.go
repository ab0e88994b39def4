package consultation

import (
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/polling"
	"github.com/nexconsult/justice-tools/internal/webjustice"
)

// ProgressLogger returns a progress callback that logs each status of the
// job described by description.
func ProgressLogger(logger logrus.FieldLogger, description string) polling.ProgressCallback[*webjustice.SearchStatus] {
	return func(status *webjustice.SearchStatus) {
		if status == nil {
			return
		}

		current := status.CurrentStatus
		if current == "" {
			current = "Unknown"
		}
		phase := status.CurrentPhase
		if phase == "" {
			phase = "Unknown"
		}

		logger.WithFields(logrus.Fields{
			"status":   current,
			"progress": status.ProgressPercentage,
			"phase":    phase,
		}).Infof("%s progress: %s - %g%% (%s)", description, current, status.ProgressPercentage, phase)
	}
}
