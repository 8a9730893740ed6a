package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/tsabi/o-spreadsheet-sub001/internal/config"
	"github.com/tsabi/o-spreadsheet-sub001/internal/engine/history"
	"github.com/tsabi/o-spreadsheet-sub001/internal/engine/jsondoc"
	"github.com/tsabi/o-spreadsheet-sub001/internal/engine/splice"
	"github.com/tsabi/o-spreadsheet-sub001/internal/engine/transform"
	"github.com/tsabi/o-spreadsheet-sub001/internal/event"
	"github.com/tsabi/o-spreadsheet-sub001/internal/logging"
	"github.com/tsabi/o-spreadsheet-sub001/internal/plugin/lua"
)

var (
	errQuit        = errors.New("quit")
	errUsage       = errors.New("usage")
	errUnknownVerb = errors.New("unknown command")
)

const helpText = `Commands:
  add [id] <pos> <text>   insert text at a rune position (text domain)
  del [id] <pos> <n>      delete n runes at a position (text domain)
  set [id] <path> <json>  set a value at a path (json domain)
  unset [id] <path>       delete the value at a path (json domain)
  undo <id>               undo a step
  redo <id>               redo an undone step
  show                    print the document
  log                     print the live steps
  help                    print this help
  quit                    leave
Ids are generated when omitted.`

// shell executes one command line.
type shell interface {
	exec(line string) (string, error)
}

// parser builds a step from command arguments.
type parser[P any] func(args []string) (history.StepID, P, error)

// editor drives a history over one document domain.
type editor[P any] struct {
	h       *history.History[P]
	parsers map[string]parser[P]
	render  func() string
	check   func() error
	logger  *logging.Logger
}

func (e *editor[P]) exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	verb, args := fields[0], fields[1:]

	switch verb {
	case "quit", "exit":
		return "", errQuit
	case "help":
		return helpText, nil
	case "show":
		return e.render(), nil
	case "log":
		return e.timeline(), nil
	case "undo", "redo":
		if len(args) != 1 {
			return "", fmt.Errorf("%w: %s <id>", errUsage, verb)
		}
		id := history.StepID(args[0])
		var err error
		if verb == "undo" {
			err = e.h.Undo(id)
		} else {
			err = e.h.Redo(id)
		}
		if err != nil {
			return "", err
		}
		return e.render(), e.check()
	}

	parse, ok := e.parsers[verb]
	if !ok {
		return "", fmt.Errorf("%w: %s", errUnknownVerb, verb)
	}
	id, payload, err := parse(args)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = history.NewStepID()
	}
	if err := e.h.AddStep(id, payload); err != nil {
		return "", err
	}
	e.logger.Debug("added step %s", id)
	return fmt.Sprintf("%s\n%s", id, e.render()), e.check()
}

func (e *editor[P]) timeline() string {
	var b strings.Builder
	head, _ := e.h.Head()
	for _, in := range e.h.Timeline() {
		marker := " "
		if in.Step.ID() == head {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s %v", marker, in.Step.ID(), in.Step.Payload())
		if in.Cancelled {
			b.WriteString(" (cancelled)")
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Topics published by the shell.
const (
	topicStepPrefix = "history.step."
	topicRules      = "rules.loaded"
)

// publishChanges forwards history changes to the bus.
func publishChanges(bus *event.Bus, logger *logging.Logger) history.Listener {
	return func(c history.Change) {
		e := event.New(event.Topic(topicStepPrefix+c.Kind.String()), c, "history")
		if err := bus.Publish(context.Background(), e); err != nil {
			logger.Warn("publish %s: %v", e.Topic, err)
		}
	}
}

// logEvents logs every event published on the bus.
func logEvents(bus *event.Bus, logger *logging.Logger) error {
	_, err := bus.Subscribe("**", func(_ context.Context, e event.Event) error {
		switch p := e.Payload.(type) {
		case history.Change:
			logger.WithField("head", p.Head).Info("step %s %s", p.StepID, p.Kind)
		default:
			logger.Info("%s: %v", e.Topic, p)
		}
		return nil
	})
	return err
}

// newShell builds the editor for cfg. cleanup releases the Lua state and
// the event bus.
func newShell(cfg config.Config, logger *logging.Logger) (shell, func(), error) {
	state, err := lua.NewState(
		lua.WithExecutionTimeout(cfg.RuleTimeout),
		lua.WithLogger(logger.WithComponent("lua")),
	)
	if err != nil {
		return nil, nil, err
	}
	bus := event.NewBus()
	cleanup := func() {
		bus.Close()
		_ = state.Close()
	}
	if err := logEvents(bus, logger.WithComponent("events")); err != nil {
		cleanup()
		return nil, nil, err
	}

	env := editorEnv{state: state, rules: cfg.Rules, bus: bus, logger: logger}
	var sh shell
	switch cfg.Domain {
	case config.DomainJSON:
		sh, err = newJSONEditor(env)
	default:
		sh, err = newTextEditor(env)
	}
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return sh, cleanup, nil
}

// editorEnv holds what every domain editor is built from.
type editorEnv struct {
	state  *lua.State
	rules  string
	bus    *event.Bus
	logger *logging.Logger
}

func (env editorEnv) historyOptions() []history.Option {
	return []history.Option{
		history.WithLogger(env.logger.WithComponent("history")),
		history.WithListener(publishChanges(env.bus, env.logger)),
	}
}

// loadRules installs scripted rules over the built-in ones. Scripted rules
// for a kind pair replace the built-in rule for that pair.
func loadRules[P any](env editorEnv, reg *transform.Registry[P], codec lua.Codec[P]) error {
	if env.rules == "" {
		return nil
	}
	n, err := lua.LoadRulesFile(env.state, reg, codec, env.rules)
	if err != nil {
		return err
	}
	return env.bus.Publish(context.Background(), event.New(topicRules, n, "lua"))
}

func newTextEditor(env editorEnv) (*editor[splice.Splice], error) {
	doc := splice.NewDocument("")
	reg := splice.Factory()
	if err := loadRules(env, reg, lua.Codec[splice.Splice]{Encode: splice.Encode, Decode: splice.Decode}); err != nil {
		return nil, err
	}

	h := history.New[splice.Splice](doc.Apply, doc.Revert, reg, env.historyOptions()...)

	return &editor[splice.Splice]{
		h: h,
		parsers: map[string]parser[splice.Splice]{
			"add": func(args []string) (history.StepID, splice.Splice, error) {
				id, args := optionalID(args, 3, func(rest []string) bool { return isInt(rest[0]) })
				if len(args) < 2 {
					return "", splice.Splice{}, fmt.Errorf("%w: add [id] <pos> <text>", errUsage)
				}
				pos, err := parsePos(args[0])
				if err != nil {
					return "", splice.Splice{}, err
				}
				if pos > doc.Len() {
					return "", splice.Splice{}, fmt.Errorf("add: position %d outside document of length %d", pos, doc.Len())
				}
				return id, splice.Insert(pos, strings.Join(args[1:], " ")), nil
			},
			"del": func(args []string) (history.StepID, splice.Splice, error) {
				id, args := optionalID(args, 3, nil)
				if len(args) != 2 {
					return "", splice.Splice{}, fmt.Errorf("%w: del [id] <pos> <n>", errUsage)
				}
				pos, err := parsePos(args[0])
				if err != nil {
					return "", splice.Splice{}, err
				}
				n, err := parsePos(args[1])
				if err != nil {
					return "", splice.Splice{}, err
				}
				text := []rune(doc.String())
				if pos+n > len(text) {
					return "", splice.Splice{}, fmt.Errorf("del: range %d+%d outside document of length %d", pos, n, len(text))
				}
				return id, splice.Delete(pos, string(text[pos:pos+n])), nil
			},
		},
		render: func() string { return strconv.Quote(doc.String()) },
		check:  doc.Err,
		logger: env.logger,
	}, nil
}

func newJSONEditor(env editorEnv) (*editor[jsondoc.Op], error) {
	doc, err := jsondoc.NewDocument("")
	if err != nil {
		return nil, err
	}
	reg := jsondoc.Factory()
	if err := loadRules(env, reg, lua.Codec[jsondoc.Op]{Encode: jsondoc.Encode, Decode: jsondoc.Decode}); err != nil {
		return nil, err
	}

	h := history.New[jsondoc.Op](doc.Apply, doc.Revert, reg, env.historyOptions()...)

	return &editor[jsondoc.Op]{
		h: h,
		parsers: map[string]parser[jsondoc.Op]{
			"set": func(args []string) (history.StepID, jsondoc.Op, error) {
				id, args := optionalID(args, 3, func(rest []string) bool {
					return gjson.Valid(strings.Join(rest[1:], " "))
				})
				if len(args) < 2 {
					return "", jsondoc.Op{}, fmt.Errorf("%w: set [id] <path> <json>", errUsage)
				}
				op, err := doc.Set(args[0], strings.Join(args[1:], " "))
				return id, op, err
			},
			"unset": func(args []string) (history.StepID, jsondoc.Op, error) {
				id, args := optionalID(args, 2, nil)
				if len(args) != 1 {
					return "", jsondoc.Op{}, fmt.Errorf("%w: unset [id] <path>", errUsage)
				}
				op, err := doc.Unset(args[0])
				return id, op, err
			},
		},
		render: func() string {
			return strings.TrimSuffix(string(pretty.Pretty([]byte(doc.JSON()))), "\n")
		},
		check:  doc.Err,
		logger: env.logger,
	}, nil
}

// optionalID splits a leading id off args when there are at least n of them
// and the remainder, if given, satisfies rest.
func optionalID(args []string, n int, rest func([]string) bool) (history.StepID, []string) {
	if len(args) < n {
		return "", args
	}
	if rest != nil && !rest(args[1:]) {
		return "", args
	}
	return history.StepID(args[0]), args[1:]
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func parsePos(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a position", errUsage, s)
	}
	return n, nil
}

// repl reads commands from in until EOF or quit.
func repl(sh shell, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		res, err := sh.exec(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if res != "" {
			fmt.Fprintln(out, res)
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}
