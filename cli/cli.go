package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/fldmerge/cli/cmd"
	"github.com/ardnew/fldmerge/docio"
	"github.com/ardnew/fldmerge/pkg"
)

// CLI is the top-level command-line interface for fldmerge.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Data       []string          `help:"Merge data file(s) or '-' for stdin"                       placeholder:"FILE"   short:"d" type:"existingfile"`
	DataFormat docio.Format      `help:"Format of data whose file name has no known extension"    default:"yaml"                 placeholder:"FORMAT"`
	Set        map[string]string `help:"Set a data field in every record, overriding data files" placeholder:"NAME=VALUE" short:"D"`

	Init   cmd.Init   `cmd:"" help:"Initialize configuration file"`
	Merge  cmd.Merge  `cmd:"" help:"Merge data into a document"                  default:"withargs"`
	Fields cmd.Fields `cmd:"" help:"List the fields of a document"`
	Eval   cmd.Eval   `cmd:"" help:"Evaluate one field instruction against data"`
	Repl   cmd.Repl   `cmd:"" help:"Evaluate field instructions interactively"`
}

// Run executes the fldmerge CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		"version":            pkg.Version(),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that errors reported while
	// parsing already use them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithData(ctx, cmd.DataOptions{
		Sources: cli.Data,
		Format:  cli.DataFormat,
		Set:     cli.Set,
	})

	// TimeLayout and Caller are only known once parsing is complete.
	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
