//go:build !windows

package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// reloader is the part of the registry driven by signals.
type reloader interface {
	Reload()
	Names() []string
}

// interrupt blocks until SIGINT or SIGTERM. SIGUSR1 reloads the registry and
// SIGUSR2 logs the enums it holds.
func interrupt(cancel <-chan struct{}, logger logrus.FieldLogger, r reloader) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(c)
	for {
		select {
		case sig := <-c:
			switch sig {
			case syscall.SIGUSR1:
				r.Reload()
				continue
			case syscall.SIGUSR2:
				logger.WithField("enums", r.Names()).Info("Registry contents")
				continue
			default:
				return fmt.Errorf("received signal %s", sig)
			}
		case <-cancel:
			return errors.New("canceled")
		}
	}
}
