package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/broady/discogen/discovery"
	"github.com/broady/discogen/gen"
	"github.com/broady/discogen/gen/sink"
)

type CLI struct {
	LogOptions `embed:""`

	Config kong.ConfigFlag `help:"YAML file with flag values."`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Client  ClientCmd  `cmd:"" help:"Generate a Go client library and command-line tool."`
	Proto   ProtoCmd   `cmd:"" help:"Generate only the proto files."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(out io.Writer) error {
	fmt.Fprintln(out, Version())
	return nil
}

// GenFlags mirror gen.Config.
type GenFlags struct {
	Infile          string   `help:"Discovery document to read (\"-\" for stdin)." short:"i"`
	DiscoveryURL    string   `help:"Discovery document URL or api.version shorthand." name:"discovery-url" short:"u"`
	Outdir          string   `help:"Output directory (default: the Go package name)." short:"o"`
	Overwrite       bool     `help:"Replace files in an existing output directory."`
	RootPackage     string   `help:"Go package name of the generated code."`
	StripPrefix     []string `help:"Prefix removed from type and field names." name:"strip-prefix"`
	APIKey          string   `help:"API key baked into the client." name:"api-key"`
	ClientID        string   `help:"OAuth client id baked into the client." name:"client-id"`
	ClientSecret    string   `help:"OAuth client secret baked into the client." name:"client-secret"`
	Scope           []string `help:"Extra OAuth scope."`
	UserAgent       string   `help:"User agent of the generated client."`
	CapitalizeEnums bool     `help:"Upper-case enum member names."`
	NameConvention  string   `help:"Name convention (default, lower_camel, lower_with_under, none)." default:"default"`
	RuntimeImport   string   `help:"Import path of the runtime package." default:"${runtime_import}"`
}

func (f GenFlags) config() gen.Config {
	return gen.Config{
		Infile:          f.Infile,
		DiscoveryURL:    f.DiscoveryURL,
		OutDir:          f.Outdir,
		Overwrite:       f.Overwrite,
		RootPackage:     f.RootPackage,
		StripPrefixes:   f.StripPrefix,
		APIKey:          f.APIKey,
		ClientID:        f.ClientID,
		ClientSecret:    f.ClientSecret,
		Scopes:          f.Scope,
		UserAgent:       f.UserAgent,
		CapitalizeEnums: f.CapitalizeEnums,
		NameConvention:  f.NameConvention,
		RuntimeImport:   f.RuntimeImport,
	}
}

type ClientCmd struct {
	GenFlags `embed:""`

	EmitProto bool `help:"Also write the proto files." name:"emit-proto"`
	DumpModel bool `help:"Also write model.json." name:"dump-model"`
}

func (c *ClientCmd) Run(ctx context.Context, logger *slog.Logger) error {
	cfg := c.config()
	cfg.EmitProto = c.EmitProto
	cfg.DumpModel = c.DumpModel
	return generate(ctx, logger, cfg, (*gen.Generator).WriteAll)
}

type ProtoCmd struct {
	GenFlags `embed:""`
}

func (c *ProtoCmd) Run(ctx context.Context, logger *slog.Logger) error {
	cfg := c.config()
	cfg.EmitProto = true
	return generate(ctx, logger, cfg, (*gen.Generator).WriteProto)
}

type writeFunc func(g *gen.Generator, ctx context.Context, out sink.OutputSink) error

func generate(ctx context.Context, logger *slog.Logger, cfg gen.Config, write writeFunc) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	src, err := discovery.NewSource(cfg.Infile, cfg.DiscoveryURL, discovery.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Debug("loading discovery document", "source", src.String())
	doc, err := src.Load(ctx)
	if err != nil {
		return err
	}

	g, err := gen.New(doc, cfg, gen.WithLogger(logger))
	if err != nil {
		return err
	}

	outdir := cfg.OutDir
	if outdir == "" {
		outdir = g.ClientInfo().DefaultDirectory
	}
	out := sink.NewFilesystemSink(outdir, cfg.Overwrite)
	if err := out.Prepare(); err != nil {
		return err
	}
	if err := write(g, ctx, out); err != nil {
		return err
	}
	logger.Info("generated client",
		"package", g.ClientInfo().GoPackage,
		"version", g.ClientInfo().Version,
		"outdir", outdir,
	)
	return nil
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("discogen"),
		kong.Description("Generate Go clients and proto files from Google API discovery documents."),
		kong.UsageOnError(),
		kong.Configuration(YAML),
		kong.Vars{"runtime_import": gen.DefaultRuntimeImport},
	}, options...)
	return kong.New(cli, options...)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli, kong.Writers(stdout, stderr))
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	logger, err := setupSlog(cli.LogOptions, stderr)
	if err != nil {
		return err
	}
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(stdout, (*io.Writer)(nil))
	kctx.Bind(logger)
	return kctx.Run()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "discogen: %v\n", err)
		stop()
		os.Exit(1)
	}
}
