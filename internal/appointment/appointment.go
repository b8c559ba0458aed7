package appointment

import (
	"github.com/sirupsen/logrus"
)

type AppointmentLogHook struct{}

func (h *AppointmentLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Appointment: " + entry.Message
	return nil
}

func (h *AppointmentLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
