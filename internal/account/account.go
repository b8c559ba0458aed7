package account

import (
	"github.com/sirupsen/logrus"
)

type AccountLogHook struct{}

func (h *AccountLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Account: " + entry.Message
	return nil
}

func (h *AccountLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
