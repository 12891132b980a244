package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"resume-tailor/internal/apiclient"
	"resume-tailor/internal/session"
	"resume-tailor/internal/shared/storage/object/local"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/theme"
)

// msgNotLoggedIn is printed when the gate sends a dashboard command to login.
const msgNotLoggedIn = "Please log in first (resumectl login or resumectl signup)."

// errFlags reports a flag parse failure the flag package already printed.
var errFlags = errors.New("invalid flags")

type cli struct {
	client *apiclient.Client
	sess   *session.Session
	gate   session.Gate
	theme  *theme.Store
	out    io.Writer
	errOut io.Writer
}

type command struct {
	usage string
	// dashboard commands require a session.
	dashboard bool
	run       func(ctx context.Context, c *cli, args []string) error
}

var commands = map[string]command{
	"signup":         {usage: "create an account and log in", run: runSignup},
	"login":          {usage: "log in with email and password", run: runLogin},
	"logout":         {usage: "forget the current session", run: runLogout},
	"whoami":         {usage: "show the current user", dashboard: true, run: runWhoami},
	"settings":       {usage: "change password or phone", dashboard: true, run: runSettings},
	"profiles":       {usage: "list profiles", dashboard: true, run: runProfiles},
	"profile-create": {usage: "create a profile from flags", dashboard: true, run: runProfileCreate},
	"profile-upload": {usage: "draft a profile from a PDF resume", dashboard: true, run: runProfileUpload},
	"resumes":        {usage: "list generated resumes", dashboard: true, run: runResumes},
	"resume":         {usage: "show one generated resume", dashboard: true, run: runResume},
	"generate":       {usage: "tailor a profile to a job", dashboard: true, run: runGenerate},
	"pdf":            {usage: "download a resume PDF", dashboard: true, run: runPDF},
	"theme":          {usage: "show, set or toggle the theme", run: runTheme},
}

func main() {
	restore := telemetry.SetOutput(os.Stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	restore()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	dir, err := session.DefaultStateDir()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	state := local.New(dir)
	sess := session.New(state)
	sess.Load(ctx)

	c := &cli{
		client: apiclient.New(apiclient.BaseURLFromEnv(), apiclient.WithToken(sess.Token())),
		sess:   sess,
		gate:   session.NewGate(sess),
		theme:  theme.NewStore(state),
		out:    stdout,
		errOut: stderr,
	}

	if cmd.dashboard {
		if _, ok := c.gate.Require(session.Route(args[0])); !ok {
			fmt.Fprintln(stderr, msgNotLoggedIn)
			return 1
		}
	}

	if err := cmd.run(ctx, c, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, errFlags) {
			return 2
		}
		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(stderr, usageErr.Error())
			return 2
		}
		fmt.Fprintln(stderr, apiclient.Message(err))
		return 1
	}
	return 0
}

type usageError string

func (e usageError) Error() string { return string(e) }

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: resumectl <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].usage)
	}
}

func newFlags(name string, c *cli) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errFlags
	}
	if fs.NArg() > 0 {
		return usageError(fmt.Sprintf("%s: unexpected argument %q", fs.Name(), fs.Arg(0)))
	}
	return nil
}

func required(fs *flag.FlagSet, values map[string]string) error {
	names := make([]string, 0, len(values))
	for name, v := range values {
		if v == "" {
			names = append(names, "-"+name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return usageError(fmt.Sprintf("%s: missing required flag(s) %v", fs.Name(), names))
}
