package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/arangox/config"
	"github.com/syssam/arangox/database"
	"github.com/syssam/arangox/dialect"
	arangohttp "github.com/syssam/arangox/dialect/http"
	"github.com/syssam/arangox/graph"
	"github.com/syssam/arangox/schema"
	"github.com/syssam/arangox/schema/load"
)

// maxConcurrentLoads bounds the graphs fetched at once by inspect.
const maxConcurrentLoads = 4

// app holds what the commands share.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
	reg    *schema.Registry
	db     *database.Database

	// transport overrides the HTTP transport when set.
	transport dialect.Transport
	metrics   *prometheus.Registry
}

func newCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "arangox",
		Usage: "inspect and manipulate ArangoDB named graphs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "schema", Aliases: []string{"s"}, Usage: "graph type declarations (YAML)"},
			&cli.StringFlag{Name: "database", Aliases: []string{"d"}, Usage: "database name"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log what graph reconciliation merges from the server"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, a.setup(cmd)
		},
		After: func(context.Context, *cli.Command) error {
			a.close()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "show the edge definitions of graphs",
				ArgsUsage: "<graph>...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() == 0 {
						return errors.New("inspect: at least one graph name is required")
					}
					return a.inspect(ctx, cmd.Args().Slice())
				},
			},
			{
				Name:      "create",
				Usage:     "create a graph from a declared graph type",
				ArgsUsage: "<type> <name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() != 2 {
						return errors.New("create: expected <type> <name>")
					}
					return a.create(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
				},
			},
			{
				Name:      "traverse",
				Usage:     "run a traversal and print its result",
				ArgsUsage: "<graph> <start>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "direction", Value: string(graph.Outbound), Usage: "outbound, inbound or any"},
					&cli.IntFlag{Name: "min-depth", Usage: "minimum depth of visited vertices"},
					&cli.IntFlag{Name: "max-depth", Usage: "maximum depth of visited vertices"},
					&cli.StringFlag{Name: "strategy", Usage: "depthfirst or breadthfirst"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() != 2 {
						return errors.New("traverse: expected <graph> <start>")
					}
					opts := graph.Traversal{
						Direction: graph.Direction(cmd.String("direction")),
						MinDepth:  cmd.Int("min-depth"),
						MaxDepth:  cmd.Int("max-depth"),
						Strategy:  cmd.String("strategy"),
					}
					return a.traverse(ctx, cmd.Args().Get(0), cmd.Args().Get(1), opts)
				},
			},
			{
				Name:  "schema",
				Usage: "work with graph type declarations",
				Commands: []*cli.Command{
					{
						Name:      "check",
						Usage:     "validate a declaration file and print it normalized",
						ArgsUsage: "<file>",
						Action: func(_ context.Context, cmd *cli.Command) error {
							if cmd.NArg() != 1 {
								return errors.New("schema check: expected <file>")
							}
							return a.check(cmd.Args().Get(0))
						},
					},
					{
						Name:  "watch",
						Usage: "log every reload of the declaration file until interrupted",
						Action: func(ctx context.Context, _ *cli.Command) error {
							return a.watch(ctx)
						},
					},
				},
			},
		},
	}
}

// setup loads the configuration and applies the global flags.
func (a *app) setup(cmd *cli.Command) error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if cmd.IsSet("schema") {
		a.cfg.SchemaFile = cmd.String("schema")
	}
	if cmd.IsSet("database") {
		a.cfg.Database = cmd.String("database")
	}
	if cmd.IsSet("verbose") {
		a.cfg.Verbose = cmd.Bool("verbose")
	}
	if a.logger == nil {
		logger, err := a.cfg.NewLogger()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		a.logger = logger
	}
	if a.reg == nil {
		a.reg = schema.NewRegistry()
	}
	return nil
}

// connect opens the database and loads the declared graph types.
func (a *app) connect(ctx context.Context) error {
	if a.cfg.SchemaFile != "" {
		types, err := load.ParseFile(a.cfg.SchemaFile)
		if err != nil {
			return err
		}
		if err := load.Register(a.reg, types); err != nil {
			return err
		}
	}
	tr := a.transport
	if tr == nil {
		tr = a.newTransport()
	}
	a.db = database.New(a.cfg.URL, a.cfg.Database, tr,
		database.WithLogger(a.logger),
		database.WithVerbose(a.cfg.Verbose))
	return a.db.Reload(ctx)
}

func (a *app) newTransport() *arangohttp.Transport {
	opts := []arangohttp.Option{
		arangohttp.WithTimeout(a.cfg.Timeout),
		arangohttp.WithLogger(a.logger),
	}
	if a.cfg.Username != "" {
		opts = append(opts, arangohttp.WithBasicAuth(a.cfg.Username, a.cfg.Password))
	}
	if a.cfg.EnableMetrics {
		a.metrics = prometheus.NewRegistry()
		opts = append(opts, arangohttp.WithMetrics(arangohttp.NewMetrics("arangox", a.metrics)))
	}
	if a.cfg.EnableCircuitBreaker {
		opts = append(opts, arangohttp.WithCircuitBreaker(arangohttp.DefaultBreakerConfig("arangodb")))
	}
	return arangohttp.New(opts...)
}

// close reports the collected request metrics and flushes the logger.
func (a *app) close() {
	if a.logger == nil {
		return
	}
	if a.metrics != nil {
		families, err := a.metrics.Gather()
		if err != nil {
			a.logger.Warn("failed to gather metrics", zap.Error(err))
		}
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				labels := make(map[string]string, len(m.GetLabel()))
				for _, l := range m.GetLabel() {
					labels[l.GetName()] = l.GetValue()
				}
				value := m.GetCounter().GetValue()
				if h := m.GetHistogram(); h != nil {
					value = float64(h.GetSampleCount())
				}
				a.logger.Info("request metrics",
					zap.String("metric", mf.GetName()),
					zap.Any("labels", labels),
					zap.Float64("value", value))
			}
		}
	}
	_ = a.logger.Sync()
}

// inspect loads the named graphs concurrently and prints them in argument
// order.
func (a *app) inspect(ctx context.Context, names []string) error {
	if err := a.connect(ctx); err != nil {
		return err
	}
	graphs := make([]*graph.Graph, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, name := range names {
		g.Go(func() error {
			gr, err := graph.Load(ctx, a.db, name, a.reg)
			if err != nil {
				return err
			}
			graphs[i] = gr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, gr := range graphs {
		a.print(gr)
	}
	return nil
}

func (a *app) print(g *graph.Graph) {
	declared := "undeclared"
	if g.Type() != nil {
		declared = "type " + g.Type().Name()
	}
	fmt.Fprintf(a.out, "%s (%s, rev %s)\n", g.Name(), declared, g.Rev())
	for _, name := range g.DefinitionNames() {
		def, _ := g.Definition(name)
		fmt.Fprintf(a.out, "  %s: [%s] -> [%s]\n", name,
			strings.Join(def.From(), ", "), strings.Join(def.To(), ", "))
	}
	if orphans := g.OrphanedCollections(); len(orphans) > 0 {
		fmt.Fprintf(a.out, "  orphans: %s\n", strings.Join(orphans, ", "))
	}
}

func (a *app) create(ctx context.Context, typ, name string) error {
	if err := a.connect(ctx); err != nil {
		return err
	}
	gt, err := a.reg.Lookup(typ)
	if err != nil {
		return err
	}
	g, err := graph.Create(ctx, a.db, name, gt)
	if err != nil {
		return err
	}
	a.print(g)
	return nil
}

func (a *app) traverse(ctx context.Context, name, start string, opts graph.Traversal) error {
	if err := a.connect(ctx); err != nil {
		return err
	}
	g, err := graph.Load(ctx, a.db, name, a.reg)
	if err != nil {
		return err
	}
	result, err := g.Traverse(ctx, graph.ID(start), opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (a *app) check(path string) error {
	types, err := load.ParseFile(path)
	if err != nil {
		return err
	}
	out, err := load.Marshal(types)
	if err != nil {
		return err
	}
	_, err = a.out.Write(out)
	return err
}

func (a *app) watch(ctx context.Context) error {
	if a.cfg.SchemaFile == "" {
		return errors.New("schema watch: no declaration file, set --schema or ARANGO_SCHEMA_FILE")
	}
	w, err := load.Watch(a.cfg.SchemaFile, a.reg, load.WithLogger(a.logger))
	if err != nil {
		return err
	}
	w.OnReload(func(types []*schema.GraphType, err error) {
		if err == nil {
			fmt.Fprintf(a.out, "reloaded: %s\n", strings.Join(w.Names(), ", "))
		}
	})
	w.Start()
	defer w.Stop()
	fmt.Fprintf(a.out, "watching %s: %s\n", a.cfg.SchemaFile, strings.Join(w.Names(), ", "))
	<-ctx.Done()
	return nil
}
