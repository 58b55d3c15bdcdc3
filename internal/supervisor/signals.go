package supervisor

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/markusressel/keepcool/internal/ui"
)

// HandledSignals are the signals translated into commands
var HandledSignals = []os.Signal{
	syscall.SIGUSR1,
	syscall.SIGUSR2,
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGHUP,
}

// TranslateSignal maps a process signal to a supervisor command
func TranslateSignal(sig os.Signal) (Command, bool) {
	switch sig {
	case syscall.SIGUSR1:
		return Command{Type: CommandNextCurve}, true
	case syscall.SIGUSR2:
		return Command{Type: CommandDefaultCurve}, true
	case syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP:
		return Command{Type: CommandShutdown}, true
	default:
		return Command{}, false
	}
}

// ForwardSignals submits a command for every received signal until ctx is done
// or a shutdown signal has been forwarded
func (s *Supervisor) ForwardSignals(ctx context.Context) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, HandledSignals...)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return nil
		case received := <-sig:
			command, ok := TranslateSignal(received)
			if !ok {
				continue
			}
			ui.Info("Received signal %v", received)
			s.Submit(command)
			if command.Type == CommandShutdown {
				return nil
			}
		}
	}
}
