// Command academyctl opens the persisted academy store, runs one command
// against it, and writes the result back to the configured substrate.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"academycore/internal/config"
	"academycore/internal/core"
	"academycore/internal/kv"
	"academycore/internal/metrics"
	"academycore/internal/persistence"
	"academycore/internal/seed"
	"academycore/pkg/domain"
)

var exitFunc = os.Exit

const usage = `usage: academyctl [-env file] [-metrics] <command> [flags]

commands:
  summary                         collection counts and session
  login -email E -password P      start a session
  logout                          end the session
  notifications [-to R] [-read]   list (and mark read) a recipient's inbox
  approve -id ID                  approve a payment
  reject -id ID [-reason R]       reject a payment
  theme                           toggle dark mode
  export                          print the stored snapshot
  reset                           overwrite the snapshot with seed data
`

func main() {
	exitFunc(cli(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func cli(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("academyctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	envFile := fs.String("env", "", "env file to preload")
	showMetrics := fs.Bool("metrics", false, "print metrics after the command")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "academyctl: %v\n", err)
		return 1
	}
	a, err := open(ctx, cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "academyctl: %v\n", err)
		return 1
	}
	defer a.close()

	if err := a.run(ctx, fs.Arg(0), fs.Args()[1:], stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "academyctl: %v\n", err)
		return 1
	}
	if *showMetrics {
		if err := a.writeMetrics(stdout); err != nil {
			fmt.Fprintf(stderr, "academyctl: %v\n", err)
			return 1
		}
	}
	return 0
}

// app is the wired store with its collaborators.
type app struct {
	logger   *slog.Logger
	registry *prometheus.Registry
	kv       kv.Store
	adapter  *persistence.Adapter
	store    *core.Store
	service  *core.Service
	gate     *core.SessionGate
	detach   func()
}

func open(ctx context.Context, cfg config.Config, stderr io.Writer) (*app, error) {
	logger := cfg.NewLogger(stderr)
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	recorder, err := metrics.New(registry)
	if err != nil {
		return nil, err
	}
	policies, err := persistence.ParsePolicies(cfg.MergePolicy, persistence.DefaultPolicies())
	if err != nil {
		return nil, err
	}
	kvStore, err := persistence.OpenKV(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	adapter, err := persistence.New(persistence.Config{
		Store:    kvStore,
		Policies: policies,
		Logger:   logger,
		Recorder: recorder,
	})
	if err != nil {
		_ = kvStore.Close()
		return nil, err
	}

	store := core.NewStore(core.State{Loading: true},
		core.WithDispatchRecorder(recorder),
		core.WithStoreLogger(logger),
	)
	if err := adapter.Hydrate(ctx, store); err != nil {
		logger.Warn("load failed, continuing with seed data", "driver", kvStore.Driver(), "error", err)
	}
	detach := adapter.Attach(ctx, store)

	bus := core.NewEventBus(logger)
	emitter := core.NewNotificationEmitter(store, core.EmitterConfig{Logger: logger, Recorder: recorder})
	if err := emitter.Register(bus); err != nil {
		detach()
		_ = kvStore.Close()
		return nil, err
	}
	service := core.NewService(store,
		core.WithLogger(logger),
		core.WithMetricsRecorder(recorder),
		core.WithEventBus(bus),
	)

	delay := cfg.LoginDelay
	if delay <= 0 {
		delay = -1
	}
	gate := core.NewSessionGate(core.SessionConfig{
		Store:     store,
		Sessions:  adapter,
		SeedUsers: seed.State().Users,
		Delay:     delay,
		Logger:    logger,
	})
	gate.Restore(ctx)

	return &app{
		logger:   logger,
		registry: registry,
		kv:       kvStore,
		adapter:  adapter,
		store:    store,
		service:  service,
		gate:     gate,
		detach:   detach,
	}, nil
}

func (a *app) close() {
	a.detach()
	a.service.Bus().Close()
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("close kv store", "error", err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string, stdout, stderr io.Writer) error {
	switch command {
	case "summary":
		return a.summary(stdout)
	case "login":
		return a.login(ctx, args, stdout, stderr)
	case "logout":
		a.gate.Logout(ctx)
		fmt.Fprintln(stdout, "logged out")
		return nil
	case "notifications":
		return a.notifications(ctx, args, stdout, stderr)
	case "approve", "reject":
		return a.review(ctx, command, args, stdout, stderr)
	case "theme":
		enabled, err := a.service.ToggleDarkMode(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "dark mode: %t\n", enabled)
		return nil
	case "export":
		data, err := a.adapter.Export(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	case "reset":
		st, err := a.adapter.Reset(ctx)
		if err != nil {
			return err
		}
		a.detach()
		a.store.Dispatch(core.Initialize{State: st})
		fmt.Fprintf(stdout, "reset to seed data (%d students)\n", len(st.Students))
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) summary(stdout io.Writer) error {
	st := a.store.State()
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, c := range core.Collections() {
		fmt.Fprintf(tw, "%s\t%d\n", c, st.Count(c))
	}
	user := "-"
	if st.CurrentUser != nil {
		user = fmt.Sprintf("%s (%s)", st.CurrentUser.Email, st.CurrentUser.Role)
	}
	fmt.Fprintf(tw, "current user\t%s\n", user)
	fmt.Fprintf(tw, "dark mode\t%t\n", st.DarkMode)
	fmt.Fprintf(tw, "unread admin\t%d\n", a.service.UnreadCount(domain.RecipientAdmin))
	return tw.Flush()
}

func (a *app) login(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.gate.Login(ctx, *email, *password) {
		return errors.New("invalid credentials")
	}
	user := a.gate.Current()
	fmt.Fprintf(stdout, "logged in as %s (%s)\n", user.Email, user.Role)
	return nil
}

func (a *app) notifications(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("notifications", flag.ContinueOnError)
	fs.SetOutput(stderr)
	to := fs.String("to", "", "recipient (defaults to the session user, or admin)")
	markRead := fs.Bool("read", false, "mark the listed notifications as read")
	if err := fs.Parse(args); err != nil {
		return err
	}
	recipient := *to
	if recipient == "" {
		recipient = domain.RecipientAdmin
		if user := a.gate.Current(); user != nil && user.Role != domain.RoleAdmin {
			recipient = user.ID
		}
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, n := range a.service.NotificationsFor(recipient) {
		state := "unread"
		if n.Read {
			state = "read"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Priority, state, n.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !*markRead {
		return nil
	}
	changed, err := a.service.MarkAllNotificationsAsRead(ctx, recipient)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "marked %d as read\n", changed)
	return nil
}

func (a *app) review(ctx context.Context, command string, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	id := fs.String("id", "", "payment id")
	reason := fs.String("reason", "", "rejection reason")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	var (
		payment domain.Payment
		err     error
	)
	if command == "approve" {
		payment, err = a.service.ApprovePayment(ctx, *id)
	} else {
		payment, err = a.service.RejectPayment(ctx, *id, *reason)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "payment %s: %s (%s)\n", payment.ID, payment.Approval, payment.Status)
	return nil
}

func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
