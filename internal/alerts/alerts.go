package alerts

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopexplorer/storefront/pkg/logger"
)

// Level classifies a transient user-facing message.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Alert is a single transient message. Alerts are not persisted.
type Alert struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier delivers alerts to whatever surface the session has.
type Notifier interface {
	Notify(ctx context.Context, alert Alert)
}

// LogNotifier renders alerts through the structured logger.
type LogNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier builds a log-backed notifier.
func NewLogNotifier(logg *logger.Logger) (*LogNotifier, error) {
	if logg == nil {
		return nil, fmt.Errorf("notifier logger required")
	}
	return &LogNotifier{logg: logg}, nil
}

func (n *LogNotifier) Notify(ctx context.Context, alert Alert) {
	ctx = n.logg.WithField(ctx, "alert_level", string(alert.Level))
	switch alert.Level {
	case LevelError:
		n.logg.Error(ctx, alert.Message, nil)
	case LevelWarning:
		n.logg.Warn(ctx, alert.Message)
	default:
		n.logg.Info(ctx, alert.Message)
	}
}

// Recorder captures alerts for tests and for surfaces that render them after
// the fact (the CLI prints the recorded alert once an action settles).
type Recorder struct {
	mu     sync.Mutex
	alerts []Alert
}

func (r *Recorder) Notify(ctx context.Context, alert Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
}

// Alerts returns a copy of everything recorded so far.
func (r *Recorder) Alerts() []Alert {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}

// Last returns the most recent alert, if any.
func (r *Recorder) Last() (Alert, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.alerts) == 0 {
		return Alert{}, false
	}
	return r.alerts[len(r.alerts)-1], true
}

// Reset discards recorded alerts.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = nil
}
