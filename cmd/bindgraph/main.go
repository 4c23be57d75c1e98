// Command bindgraph is the project's CLI: "resolve" builds and
// prints/persists one BindingGraph from a JSON descriptor document,
// "serve" starts httpserver against a persisted run store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"bindgraph/component"
	"bindgraph/config"
	"bindgraph/graph"
	"bindgraph/guard"
	"bindgraph/httpserver"
	"bindgraph/injectregistry"
	"bindgraph/interceptor"
	"bindgraph/moduleindex"
	"bindgraph/oracle"
	"bindgraph/pipe"
	"bindgraph/store"
)

// document is the small JSON shape the bundled demo/test CLI accepts
// in place of a real frontend's source-derived ComponentDescriptors;
// source parsing itself belongs to a frontend, not this module.
type document struct {
	Root       string                          `json:"root" validate:"required"`
	Components map[string]component.Descriptor `json:"components" validate:"required"`
	Modules    []moduleDoc                     `json:"modules"`
	Config     graph.Config                    `json:"config"`
}

var rootCmd = &cobra.Command{
	Use:   "bindgraph",
	Short: "Inspect compile-time dependency-injection binding graphs",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var dbFlag string
var verboseFlag bool

var resolveCmd = &cobra.Command{
	Use:   "resolve [descriptor.json]",
	Short: "Resolve a component's BindingGraph from a JSON descriptor document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		// The three resolver knobs come from the descriptor
		// document when it sets any of them; otherwise they fall back to
		// the environment-driven config, so "resolve" behaves the same
		// as "serve" would if it ever built a graph of its own.
		resolverCfg := doc.Config
		if resolverCfg == (graph.Config{}) {
			envCfg := config.Load()
			resolverCfg.CreateFullBindingGraph = envCfg.Resolver.CreateFullBindingGraph
			resolverCfg.AheadOfTimeSubcomponents = envCfg.Resolver.AheadOfTimeSubcomponents
			resolverCfg.IgnorePrivateAndStaticInjectionForComponent = envCfg.Resolver.IgnorePrivateAndStaticInjectionForComponent
		}
		if verboseFlag {
			chain := interceptor.NewChain()
			if err := chain.Register(interceptor.Config{Name: "logging", Priority: 0, Interceptor: interceptor.NewLoggingInterceptor()}); err != nil {
				return err
			}
			resolverCfg.Chain = chain
		}

		start := time.Now()
		bg, err := buildGraph(doc, resolverCfg)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		summary := graph.Summarize(bg)
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		st, err := store.Open(dbFlag)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		run := store.Run{
			ID:                    uuid.NewString(),
			Component:             doc.Root,
			ComponentRequirements: store.EncodeRequirements(summary.Requirements),
			GraphJSON:             string(out),
			DurationMs:            elapsed.Milliseconds(),
		}
		if err := st.SaveRun(cmd.Context(), run); err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the inspection HTTP API over persisted resolve runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		st, err := store.Open(cfg.Store.DSN)
		if err != nil {
			return err
		}

		var g guard.GraphGuard
		if cfg.Guard.Secret != "" {
			g = guard.NewJWTGuard(cfg.Guard.Secret, time.Duration(cfg.Guard.TokenTTLS)*time.Second)
		}

		opts := httpserver.DefaultOptions()
		if cfg.HTTP.ListenAddr != "" {
			opts.Host, opts.Port = splitAddr(cfg.HTTP.ListenAddr)
		}

		server := httpserver.New(opts, st, g)
		return server.Run(context.Background())
	},
}

func loadDocument(path string) (*document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for name, desc := range doc.Components {
		desc := desc
		if err := pipe.ValidateDescriptor(&desc); err != nil {
			return nil, fmt.Errorf("component %q: %w", name, err)
		}
	}
	return &doc, nil
}

func buildGraph(doc *document, cfg graph.Config) (*graph.BindingGraph, error) {
	modules := moduleindex.NewRegistry()
	for _, m := range doc.Modules {
		modules.Add(m.toModule())
	}

	oc := oracle.NewReflectOracle()
	injectReg := injectregistry.New(oc)

	factory := graph.NewFactory(modules, doc.Components, injectReg, cfg)
	return factory.Create(doc.Root)
}

func splitAddr(addr string) (string, int) {
	host := "0.0.0.0"
	port := 8080
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] != ':' {
			continue
		}
		var parsedPort int
		if _, err := fmt.Sscanf(addr[i+1:], "%d", &parsedPort); err == nil {
			if i > 0 {
				host = addr[:i]
			}
			port = parsedPort
		}
		break
	}
	return host, port
}

func init() {
	resolveCmd.Flags().StringVar(&dbFlag, "db", "", "SQLite DSN to persist the resolved run (empty = in-memory)")
	resolveCmd.Flags().BoolVar(&verboseFlag, "verbose", false, "log each entry-point resolution as it happens")
	rootCmd.AddCommand(resolveCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
