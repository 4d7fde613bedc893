package tripswitch

import "context"

var (
	contextKeyCommand = contextKey("command")
)

type contextKey string

func (c contextKey) String() string {
	return "tripswitch-ctx-key-" + string(c)
}

// Callback is the error-first completion callback of a command. A nil
// error means the execution succeeded, results carry whatever the
// command produced.
type Callback func(err error, results ...interface{})

// Command is the unit of execution protected by a breaker. Execute must
// eventually invoke done with the outcome of the work. The breaker
// tolerates commands that invoke done synchronously, asynchronously,
// more than once or never at all (the breaker's deadline covers the
// last case).
type Command interface {
	// Execute runs the command and reports the outcome on done.
	Execute(ctx context.Context, done Callback, args ...interface{})
}

// CommandFunc is a helper that satisfies Command by using a function.
type CommandFunc func(ctx context.Context, done Callback, args ...interface{})

// Execute satisfies Command interface.
func (f CommandFunc) Execute(ctx context.Context, done Callback, args ...interface{}) {
	f(ctx, done, args...)
}

// CommandNameFromContext returns the command name from the context, and
// a ok boolean if not present.
func CommandNameFromContext(ctx context.Context) (cmd string, ok bool) {
	cmd, ok = ctx.Value(contextKeyCommand).(string)
	return cmd, ok
}

// NamedCommand will set the name to the command on every execution so
// observability collaborators can identify it.
func NamedCommand(name string, cmd Command) Command {
	return CommandFunc(func(ctx context.Context, done Callback, args ...interface{}) {
		ctx = context.WithValue(ctx, contextKeyCommand, name)
		cmd.Execute(ctx, done, args...)
	})
}
