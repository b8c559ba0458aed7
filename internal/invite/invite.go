package invite

import (
	"github.com/sirupsen/logrus"
)

type InviteLogHook struct{}

func (h *InviteLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Invite: " + entry.Message
	return nil
}

func (h *InviteLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
