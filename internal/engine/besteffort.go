package engine

import (
	"go.uber.org/zap"

	"github.com/mazraati/assistant-platform/pkg/logger"
)

// bestEffort runs a side effect whose failure must never interrupt the turn:
// counter bumps, message logging, backlog writes, operator notifications.
// The error is demoted to a warn log and swallowed.
func bestEffort(log *logger.Logger, op string, fn func() error) {
	if err := fn(); err != nil {
		log.Warn("best-effort side effect failed",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}
