package history

// Logger receives debug traces of undo and redo phases.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

type options struct {
	logger    Logger
	listeners []Listener
}

// Option configures a History during creation.
type Option func(*options)

// WithLogger sets the logger used for phase traces.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithListener adds a listener notified after every successful change.
func WithListener(l Listener) Option {
	return func(o *options) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}
