// Package console evaluates runtime commands from out-of-band transports.
// Scripts run on the frame goroutine: transports submit requests and the
// game loop drains them once per frame with Pump.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/milk9111/airstrip/lifecycle"
	"go.uber.org/zap"
)

var (
	ErrNoCommands = errors.New("console: no command set registered")
	ErrClosed     = errors.New("console: closed")
)

const resultVar = "__out"

// Limits for one console line. Lines run on the frame goroutine.
const (
	defaultRunTimeout = 50 * time.Millisecond
	defaultMaxAllocs  = 10000
)

// Func runs on the frame goroutine with the registered command set.
type Func func(cmds lifecycle.Commands) (string, error)

type request struct {
	line  string
	fn    Func
	reply chan reply
}

type reply struct {
	out string
	err error
}

type command struct {
	help string
	fn   tengo.CallableFunc
}

// Registry holds the live command set and the script bindings built from it.
type Registry struct {
	log      *zap.Logger
	cmds     lifecycle.Commands
	funcs    *orderedmap.OrderedMap[string, command]
	requests chan request
	closed   chan struct{}

	timeout   time.Duration
	maxAllocs int64
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		log:      logger.Named("console"),
		requests:  make(chan request, 16),
		closed:    make(chan struct{}),
		timeout:   defaultRunTimeout,
		maxAllocs: defaultMaxAllocs,
	}
}

// Register binds cmds. A set must be unregistered before the next one.
func (r *Registry) Register(cmds lifecycle.Commands) {
	if r.cmds != nil {
		panic("console: command set already registered")
	}
	r.cmds = cmds
	r.funcs = r.bind(cmds)
}

func (r *Registry) Unregister() {
	r.cmds = nil
	r.funcs = nil
}

// Names lists the script commands in registration order.
func (r *Registry) Names() []string {
	if r.funcs == nil {
		return nil
	}
	return r.funcs.Keys()
}

func (r *Registry) bind(cmds lifecycle.Commands) *orderedmap.OrderedMap[string, command] {
	funcs := orderedmap.NewOrderedMap[string, command]()
	funcs.Set("newGame", command{"reload the default map", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 0 {
			return nil, tengo.ErrWrongNumArguments
		}
		if err := cmds.NewGame(); err != nil {
			return nil, err
		}
		return tengo.TrueValue, nil
	}})
	funcs.Set("load", command{"load(name) reload with the named map", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, ok := args[0].(*tengo.String)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "name", Expected: "string", Found: args[0].TypeName()}
		}
		if err := cmds.LoadMap(name.Value); err != nil {
			return nil, err
		}
		return tengo.TrueValue, nil
	}})
	funcs.Set("fov", command{"fov(degrees) set the field of view, 60..120", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		v, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "degrees", Expected: "number", Found: args[0].TypeName()}
		}
		fov, err := cmds.SetFov(v)
		if err != nil {
			return nil, err
		}
		return &tengo.Int{Value: int64(fov)}, nil
	}})
	funcs.Set("debug", command{"toggle debug mode", func(args ...tengo.Object) (tengo.Object, error) {
		on, err := cmds.ToggleDebug()
		if err != nil {
			return nil, err
		}
		if on {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}})
	funcs.Set("maps", command{"list loaded maps", func(args ...tengo.Object) (tengo.Object, error) {
		names := cmds.Maps()
		arr := &tengo.Array{Value: make([]tengo.Object, 0, len(names))}
		for _, n := range names {
			arr.Value = append(arr.Value, &tengo.String{Value: n})
		}
		return arr, nil
	}})
	funcs.Set("help", command{"list commands", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: r.help(funcs)}, nil
	}})
	return funcs
}

func (r *Registry) help(funcs *orderedmap.OrderedMap[string, command]) string {
	var b strings.Builder
	for el := funcs.Front(); el != nil; el = el.Next() {
		fmt.Fprintf(&b, "%s: %s\n", el.Key, el.Value.help)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Exec evaluates one line against the registered commands. It must run on
// the frame goroutine. A line that runs past the timeout or the allocation
// cap is aborted with an error.
func (r *Registry) Exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if r.cmds == nil {
		return "", ErrNoCommands
	}
	if line == "" {
		return "", nil
	}

	compiled, err := r.compile(resultVar + " := " + line)
	if err != nil {
		compiled, err = r.compile(line)
		if err != nil {
			return "", fmt.Errorf("console: compile: %w", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := compiled.RunContext(ctx); err != nil {
		return "", fmt.Errorf("console: run: %w", err)
	}
	if !compiled.IsDefined(resultVar) {
		return "", nil
	}
	return formatObject(compiled.Get(resultVar).Object()), nil
}

func (r *Registry) compile(src string) (*tengo.Compiled, error) {
	script := tengo.NewScript([]byte(src))
	script.SetMaxAllocs(r.maxAllocs)
	for el := r.funcs.Front(); el != nil; el = el.Next() {
		if err := script.Add(el.Key, &tengo.UserFunction{Name: el.Key, Value: el.Value.fn}); err != nil {
			return nil, err
		}
	}
	return script.Compile()
}

func formatObject(obj tengo.Object) string {
	switch v := obj.(type) {
	case nil:
		return ""
	case *tengo.Undefined:
		return ""
	case *tengo.String:
		return v.Value
	case *tengo.Array:
		parts := make([]string, 0, len(v.Value))
		for _, el := range v.Value {
			parts = append(parts, formatObject(el))
		}
		return strings.Join(parts, " ")
	default:
		return v.String()
	}
}

// Submit queues line for the frame goroutine and waits for its result.
func (r *Registry) Submit(ctx context.Context, line string) (string, error) {
	return r.submit(ctx, request{line: line})
}

// Do queues fn for the frame goroutine and waits for its result.
func (r *Registry) Do(ctx context.Context, fn Func) (string, error) {
	return r.submit(ctx, request{fn: fn})
}

func (r *Registry) submit(ctx context.Context, req request) (string, error) {
	req.reply = make(chan reply, 1)
	select {
	case r.requests <- req:
	case <-r.closed:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case rep := <-req.reply:
		return rep.out, rep.err
	case <-r.closed:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Pump runs every queued request. Call it once per frame.
func (r *Registry) Pump() {
	for {
		select {
		case req := <-r.requests:
			out, err := r.run(req)
			if err != nil {
				r.log.Debug("command failed", zap.String("line", req.line), zap.Error(err))
			}
			req.reply <- reply{out: out, err: err}
		default:
			return
		}
	}
}

func (r *Registry) run(req request) (string, error) {
	if req.fn == nil {
		return r.Exec(req.line)
	}
	if r.cmds == nil {
		return "", ErrNoCommands
	}
	return req.fn(r.cmds)
}

// Close fails pending and future submissions.
func (r *Registry) Close() error {
	select {
	case <-r.closed:
	default:
		close(r.closed)
	}
	return nil
}
