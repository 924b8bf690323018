package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"astrie/internal/config"
	"astrie/internal/errors"
	"astrie/internal/lang"
	"astrie/internal/logger"
	"astrie/internal/notation"
	"astrie/internal/pipeline"
	"astrie/internal/plugin"
)

type options struct {
	ext        string
	outputs    outputList
	outAll     bool
	outAST     bool
	outSrc     bool
	outDir     string
	typesFile  string
	configFile string
	verbose    int
	logJSON    bool
	watch      bool
}

// run is one resolved invocation.
type run struct {
	runner *pipeline.Runner
	input  string
	ext    string
	keys   []string
	ast    bool
	src    bool
	outDir string
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

func newRootCmd() (*cobra.Command, error) {
	// Flags are generated from the built-in back ends; --types can retune
	// them but never adds keys.
	catalog, err := lang.Default()
	if err != nil {
		return nil, err
	}

	regs, err := notation.NewRegistries(catalog)
	if err != nil {
		return nil, err
	}

	o := &options{}

	cmd := &cobra.Command{
		Use:   "astrie [input|-]",
		Short: "Translate schemas between notations",
		Long: `astrie reads a schema in one notation and writes it in others.

The input notation comes from --ext or the input file extension. Reading
from stdin ("-" or no input) requires --ext.

Input notations:  ` + strings.Join(regs.Frontends.Keys(), ", ") + `
Output notations: ` + strings.Join(regs.Backends.Keys(), ", ") + `

Examples:
  astrie shop.hcl --out-rs --out-ts          # print Rust and TypeScript
  astrie shop.hcl --out-all --out-dir gen/   # write every notation to gen/
  astrie - --ext json --out go < shop.json   # read stdin`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, o)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.ext, "ext", "", "input notation, overriding the file extension")
	flags.Var(outValue{list: &o.outputs}, "out", "output notation (repeatable)")
	flags.BoolVar(&o.outAll, "out-all", false, "write the source, the AST and every output notation")
	flags.BoolVar(&o.outAST, "out-ast", false, "dump the parsed IR")
	flags.BoolVar(&o.outSrc, "out-src", false, "dump the input source")
	flags.StringVar(&o.outDir, "out-dir", "", "write files to this directory instead of stdout")
	flags.BoolVar(&o.watch, "watch", false, "regenerate whenever the input file changes")

	for _, key := range regs.Backends.Keys() {
		f := flags.VarPF(keyValue{key: key, list: &o.outputs}, "out-"+key, "", "output notation "+key)
		f.NoOptDefVal = "true"
	}

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&o.typesFile, "types", "", "YAML file merged over the built-in target tables")
	persistent.StringVar(&o.configFile, "config", "", "configuration file (default: astrie.toml searched upward)")
	persistent.CountVarP(&o.verbose, "verbose", "v", "increase log verbosity (-v, -vv)")
	persistent.BoolVar(&o.logJSON, "log-json", false, "log as JSON")

	cmd.AddCommand(newListCmd(o))

	return cmd, nil
}

// setup loads configuration, logging and the catalog shared by every
// command.
func setup(cmd *cobra.Command, o *options) (*config.Config, *lang.Catalog, *plugin.Registries, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, nil, err
	}

	verbosity := max(o.verbose, cfg.Log.Verbosity)
	jsonLogs := o.logJSON || cfg.Log.JSON

	if err := logger.InitializeTo(cmd.ErrOrStderr(), verbosity, jsonLogs); err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to initialize logger")
	}

	if cfg.File != "" {
		logger.Logger.Infow("loaded configuration", logger.FieldFile, cfg.File)
	}

	typesFile := o.typesFile
	if typesFile == "" {
		typesFile = cfg.Types.File
	}

	catalog, err := lang.Load(typesFile)
	if err != nil {
		return nil, nil, nil, err
	}

	regs, err := notation.NewRegistries(catalog)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, catalog, regs, nil
}

func runRoot(cmd *cobra.Command, args []string, o *options) error {
	cfg, catalog, regs, err := setup(cmd, o)
	if err != nil {
		return err
	}

	r := &run{
		runner: pipeline.New(regs, catalog),
		input:  "-",
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
		stdin:  cmd.InOrStdin(),
	}

	if len(args) == 1 {
		r.input = args[0]
	}

	if r.ext, err = inputNotation(r.input, o.ext, cfg.Input.Ext); err != nil {
		return err
	}

	if r.input != "-" {
		r.runner.Base = strings.TrimSuffix(filepath.Base(r.input), filepath.Ext(r.input))
	}

	r.keys, r.ast, r.src = selectOutputs(o, cfg, regs.Backends.Keys())
	if len(r.keys) == 0 && !r.ast && !r.src {
		return errors.WithHint(errors.ErrNoOutput, "pass --out <key>, --out-<key> or --out-all")
	}

	r.outDir = o.outDir
	if r.outDir == "" {
		r.outDir = cfg.Output.Dir
	}

	if !o.watch {
		return r.generate()
	}

	if r.input == "-" {
		return errors.New("--watch needs an input file")
	}

	w, err := pipeline.NewWatcher(r.input, pipeline.DefaultDebounce)
	if err != nil {
		return err
	}

	if err := r.generate(); err != nil {
		logger.Logger.Errorw("generation failed", logger.FieldError, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Logger.Infow("watching", logger.FieldFile, r.input)

	return w.Run(ctx, func() {
		if err := r.generate(); err != nil {
			logger.Logger.Errorw("generation failed", logger.FieldError, err)
		}
	})
}

// inputNotation picks the front end: the flag, then the configuration,
// then the file extension.
func inputNotation(input, flagExt, cfgExt string) (string, error) {
	switch {
	case flagExt != "":
		return flagExt, nil
	case cfgExt != "":
		return cfgExt, nil
	case input == "-":
		return "", errors.WithHint(errors.New("must specify --ext when reading from stdin"), "e.g. --ext json")
	}

	ext := strings.TrimPrefix(filepath.Ext(input), ".")
	if ext == "" {
		return "", errors.WithHintf(errors.Newf("cannot tell the notation of %s", input), "pass --ext")
	}

	return ext, nil
}

// selectOutputs merges --out, --out-<key> and --out-all, falling back to the
// configured targets when no flag names one. Flags keep command-line order.
func selectOutputs(o *options, cfg *config.Config, all []string) (keys []string, ast, src bool) {
	if o.outAll {
		return all, true, true
	}

	keys = append(keys, o.outputs.keys...)

	if len(keys) == 0 {
		keys = append(keys, cfg.Output.Targets...)
	}

	return dedupe(keys), o.outAST || cfg.Output.AST, o.outSrc
}

func dedupe(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}

	return out
}

func (r *run) read() ([]byte, error) {
	if r.input == "-" {
		src, err := io.ReadAll(r.stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}

		if len(src) == 0 {
			return nil, errors.New("no input file provided and stdin is empty")
		}

		return src, nil
	}

	src, err := os.ReadFile(r.input)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", r.input)
	}

	return src, nil
}

// generate runs the pipeline once and delivers the outputs.
func (r *run) generate() error {
	src, err := r.read()
	if err != nil {
		return err
	}

	logger.Logger.Infow("input", logger.FieldFile, r.input, logger.FieldNotation, r.ext)

	var outputs []*pipeline.Output

	if r.src {
		outputs = append(outputs, r.runner.Source(r.ext, src))
	}

	if r.ast {
		out, err := r.runner.AST(r.ext, src)
		if err != nil {
			return err
		}

		outputs = append(outputs, out)
	}

	if len(r.keys) > 0 {
		outs, err := r.runner.EmitAll(r.ext, src, r.keys)
		if err != nil {
			return err
		}

		outputs = append(outputs, outs...)
	}

	if r.outDir != "" {
		return pipeline.WriteFiles(outputs, r.outDir)
	}

	for _, out := range outputs {
		fmt.Fprintf(r.stderr, "********* %s *********\n", out.Target)
		fmt.Fprint(r.stdout, out.Content)
	}

	return nil
}
