package clinic

import (
	"github.com/sirupsen/logrus"
)

type ClinicLogHook struct{}

func (h *ClinicLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Clinic: " + entry.Message
	return nil
}

func (h *ClinicLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
