package parsort

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// ShutdownContext returns a context which is cancelled when the process
// receives SIGINT or SIGTERM, or when the returned stop function is called.
// A second signal terminates the process with exit code 1.
func ShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	c := make(chan os.Signal, 2)
	signal.Notify(c, shutdownSignals...)
	go func() {
		defer signal.Stop(c)
		select {
		case s := <-c:
			glog.Infof("received %s, shutting down", s)
			cancel()
		case <-ctx.Done():
			return
		}
		s := <-c
		glog.Errorf("received %s during shutdown, exiting", s)
		glog.Flush()
		os.Exit(1)
	}()

	return ctx, cancel
}
