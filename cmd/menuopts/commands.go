package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	menuopts "github.com/goliatone/go-menuopts"
	"github.com/goliatone/go-menuopts/config"
	"github.com/goliatone/go-menuopts/internal/hydrate"
	"github.com/goliatone/go-menuopts/pkg/registry"
	"github.com/goliatone/go-menuopts/schema/openapi"
)

type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath   string
	registryPath string
	port         int
	debug        bool
	strict       bool

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "menuopts",
		Short:         "Manage menu option registries and definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "menuopts.yaml", "host configuration file")
	flags.StringVar(&a.registryPath, "registry", "", "registry file (overrides config_root, cache_dir and port)")
	flags.IntVar(&a.port, "port", 0, "server port selecting the registry file")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every custom id and its numeric id",
			Args:  cobra.NoArgs,
			RunE:  a.runList,
		},
		&cobra.Command{
			Use:   "get <custom-id>",
			Short: "Print the numeric id assigned to a custom id",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runGet,
		},
		&cobra.Command{
			Use:   "lookup <numeric-id>",
			Short: "Print the custom id owning a numeric id",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runLookup,
		},
		&cobra.Command{
			Use:   "register <custom-id>...",
			Short: "Assign numeric ids to custom ids, keeping existing assignments",
			Args:  cobra.MinimumNArgs(1),
			RunE:  a.runRegister,
		},
		newValidateCmd(a),
		newSchemaCmd(a),
	)
	return root
}

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <definition>",
		Short: "Check a YAML or JSON menu definition",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runValidate,
	}
	cmd.Flags().BoolVar(&a.strict, "strict", false, "reject unknown fields")
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema <definition>",
		Short: "Describe the values a menu definition returns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSchema(args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(menuopts.SchemaFormatOpenAPI), "openapi or descriptors")
	cmd.Flags().BoolVar(&a.strict, "strict", false, "reject unknown fields")
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = a.port
	}
	if a.debug {
		cfg.Debug = true
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) openRegistry() (*registry.Registry, error) {
	path := a.registryPath
	if path == "" {
		path = a.cfg.RegistryPath()
	}
	a.logger.Debug("opening registry", "path", path)
	return registry.Open(path, registry.WithLogger(a.logger))
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	reg, err := a.openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	for _, entry := range reg.Entries() {
		fmt.Fprintf(a.stdout, "%s=%d\n", entry.CustomID, entry.NumericID)
	}
	return nil
}

func (a *app) runGet(cmd *cobra.Command, args []string) error {
	reg, err := a.openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	id, err := reg.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, id)
	return nil
}

func (a *app) runLookup(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("numeric id %q: %w", args[0], err)
	}
	reg, err := a.openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	customID, err := reg.CustomID(int32(value))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, customID)
	return nil
}

func (a *app) runRegister(cmd *cobra.Command, args []string) error {
	reg, err := a.openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	for _, customID := range args {
		id, err := reg.Register(customID)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s=%d\n", customID, id)
	}
	return nil
}

func (a *app) loadDefinition(path string) (*menuopts.OptionNode, error) {
	var opts []hydrate.DecoderOption[hydrate.MenuDefinition]
	if a.strict {
		opts = append(opts, hydrate.WithDisallowUnknownFields[hydrate.MenuDefinition]())
	}
	node, err := hydrate.LoadFile(path, opts...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("definition loaded", "path", path, "options", len(node.Options))
	return node, nil
}

func (a *app) runValidate(cmd *cobra.Command, args []string) error {
	node, err := a.loadDefinition(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s: %d options\n", node.Header, len(node.Options))
	for _, option := range node.Options {
		fmt.Fprintf(a.stdout, "  %-12s %-8s %s\n", option.Kind(), option.ReturnableType(), option.CustomID())
	}
	return nil
}

func (a *app) runSchema(path, format string) error {
	node, err := a.loadDefinition(path)
	if err != nil {
		return err
	}

	var generator menuopts.SchemaGenerator
	switch menuopts.SchemaFormat(format) {
	case menuopts.SchemaFormatOpenAPI:
		generator = openapi.NewGenerator()
	case menuopts.SchemaFormatDescriptors:
		generator = menuopts.DefaultSchemaGenerator()
	default:
		return fmt.Errorf("unknown schema format %q", format)
	}

	document, err := generator.Generate(node)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(a.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document.Document)
}
