package util

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// NewLogger builds the zap-backed logger shared by the commands.
func NewLogger(name string, w io.Writer, development bool) logr.Logger {
	return zap.New(zap.WriteTo(w), zap.UseDevMode(development)).WithName(name)
}

type FatalLogr struct {
	logr.Logger
	// Exit defaults to os.Exit.
	Exit func(code int)
}

func (l *FatalLogr) Fatal(err error, msg string, keysAndValues ...interface{}) {
	l.Error(err, msg, keysAndValues...)
	exit := l.Exit
	if exit == nil {
		exit = os.Exit
	}
	exit(1)
}
