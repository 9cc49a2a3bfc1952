package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

const ProdEnv = "production"

// New builds the process logger. Production logs are JSON for ingestion,
// development logs stay human readable.
func New(service, env, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	if env == ProdEnv {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	l.AddHook(&fieldsHook{fields: logrus.Fields{"service": service, "env": env}})
	return l
}

// fieldsHook stamps every entry with the service identity.
type fieldsHook struct {
	fields logrus.Fields
}

func (h *fieldsHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fieldsHook) Fire(e *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}
