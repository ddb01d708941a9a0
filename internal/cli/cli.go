package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/babarot/wardbin/internal/audit"
	"github.com/babarot/wardbin/internal/config"
	"github.com/babarot/wardbin/internal/env"
	"github.com/babarot/wardbin/internal/session"
	"github.com/babarot/wardbin/internal/storage"
	"github.com/babarot/wardbin/internal/trash"
	"github.com/babarot/wardbin/internal/utils/debug"
	"github.com/babarot/wardbin/internal/utils/log"
	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/muesli/termenv"
	"github.com/rs/xid"
)

type Option struct {
	Config string `long:"config" description:"Path to config file" default:""`

	Meta MetaOption `group:"Meta Options"`

	Put     PutCommand     `command:"put" description:"Move records from their collection into the trash"`
	List    ListCommand    `command:"list" alias:"ls" description:"List trashed records"`
	Show    ShowCommand    `command:"show" description:"Show one trashed record in full"`
	Restore RestoreCommand `command:"restore" description:"Put trashed records back (interactive without ids)"`
	Purge   PurgeCommand   `command:"purge" description:"Delete trashed records permanently"`
	Empty   EmptyCommand   `command:"empty" description:"Delete every trashed record permanently (admin only)"`
	Prune   PruneCommand   `command:"prune" description:"Purge records trashed longer ago than a duration"`
	Stats   StatsCommand   `command:"stats" description:"Show trash and collection counts"`
	Log     LogCommand     `command:"log" description:"Show the activity log"`
}

type MetaOption struct {
	Version bool   `short:"V" long:"version" description:"Show version"`
	Debug   string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	runID   string

	store   storage.Store
	session session.Accessor
	audit   *audit.Log
	manager *trash.Manager

	out     io.Writer
	confirm func(prompt string, strict bool) bool
}

var runID = sync.OnceValue(func() string {
	id := xid.New().String()
	return id
})

func Run(v Version) error {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = v.AppName
	parser.SubcommandsOptional = true
	args, err := parser.Parse()
	if err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}

	if termenv.EnvNoColor() {
		color.NoColor = true
	}

	cfg, err := config.Parse(opt.Config)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg.Core.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	defer slog.Debug("main function finished")
	slog.Debug("main function started", "version", v.Version, "revision", v.Revision, "buildDate", v.BuildDate)

	var command string
	if parser.Active != nil {
		command = parser.Active.Name
	}

	c := CLI{
		version: v,
		option:  opt,
		config:  cfg,
		runID:   runID(),
		out:     os.Stdout,
		confirm: confirmPrompt,
	}

	// version and debug never touch the store
	switch {
	case opt.Meta.Version:
		fmt.Fprint(c.out, v.Print())
		return nil
	case opt.Meta.Debug != "":
		return debug.Logs(c.out, env.WARDBIN_LOG_PATH, cfg.Core.Logging, opt.Meta.Debug == "live")
	case command == "":
		parser.WriteHelp(os.Stderr)
		return errors.New("a command is required")
	}

	store, err := storage.Open(storage.Options{
		Backend:    cfg.Core.Storage.Backend,
		Dir:        cfg.Core.Storage.Dir,
		SQLitePath: cfg.Core.Storage.SQLitePath,
	})
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	c.attach(store)

	if err := c.Run(command, args); err != nil {
		slog.Error("exit", "error", fmt.Errorf("cli.run failed: %w", err))
		return err
	}
	return nil
}

// attach wires the engine over store using the configured actor and
// exclusion rules
func (c *CLI) attach(store storage.Store) {
	c.store = store
	c.session = session.NewStatic(session.User{
		Name:     c.config.Core.Actor.Name,
		Username: c.config.Core.Actor.Username,
		Role:     c.config.Core.Actor.Role,
	})
	c.audit = audit.New(store)
	c.manager = trash.NewManager(store,
		trash.WithSession(c.session),
		trash.WithAuditLog(c.audit),
		trash.WithFilterOptions(trash.FilterOptions{
			Include: c.config.Trash.Include,
			Exclude: c.config.Trash.Exclude,
		}),
	)
}

func (c CLI) Run(command string, args []string) error {
	switch command {
	case "put":
		return c.Put(args)
	case "list":
		return c.List()
	case "show":
		return c.Show(args)
	case "restore":
		return c.Restore(args)
	case "purge":
		return c.Purge(args)
	case "empty":
		return c.Empty()
	case "prune":
		return c.Prune(args)
	case "stats":
		return c.Stats()
	case "log":
		return c.Log()
	}
	return fmt.Errorf("unknown command: %s", command)
}

func setupLogging(cfg config.LoggingConfig) (func(), error) {
	if !cfg.Enabled {
		log.New(log.UseOutput(io.Discard), log.AsDefault())
		return func() {}, nil
	}

	w, err := log.NewRotateWriter(env.WARDBIN_LOG_PATH, cfg.Rotation)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.New(
		log.UseOutput(w),
		log.UseLevel(log.ParseLevel(cfg.Level)),
		log.UseReportCaller(true),
		log.UseReportTimestamp(true),
		log.UseTimeFormat(time.DateTime),
		log.With("run_id", runID()),
		log.AsDefault(),
	)
	return func() { _ = w.Close() }, nil
}
