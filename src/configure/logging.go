package configure

import "github.com/sirupsen/logrus"

func initLogging(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithError(err).Warn("invalid log level, using info")
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
