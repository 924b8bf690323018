package pipeline

import (
	"strings"
	"time"

	"astrie/internal/diagnostic"
	"astrie/internal/errors"
	"astrie/internal/ir"
	"astrie/internal/lang"
	"astrie/internal/logger"
	"astrie/internal/plugin"
	"astrie/internal/rewrite"
)

// Output is the rendering of one input in one notation.
type Output struct {
	// Target is the output notation key, or "ast" and "src" for dumps.
	Target      string
	Filename    string
	Content     string
	Diagnostics diagnostic.Diagnostics
}

// Runner drives the registered plugins.
type Runner struct {
	Registries *plugin.Registries
	Targets    *lang.Catalog
	// Base names the output files, e.g. the input file name without its
	// extension. Empty means "schema".
	Base string
}

// New returns a runner over regs and targets.
func New(regs *plugin.Registries, targets *lang.Catalog) *Runner {
	return &Runner{Registries: regs, Targets: targets}
}

// Parse reads src with the front end registered under key. A module that
// fails validation is rejected as a parse error.
func (r *Runner) Parse(key string, src []byte) (*ir.Module, error) {
	fe, err := r.Registries.Frontends.Lookup(key)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	m, err := fe.Parse(src)
	if err != nil {
		return nil, err
	}

	if issues := ir.Validate(m); len(issues) > 0 {
		lines := make([]string, len(issues))
		for i, is := range issues {
			lines[i] = is.String()
		}

		err := errors.Wrapf(errors.ErrParse, "%s: %s", key, lines[0])

		return nil, errors.WithDetail(err, strings.Join(lines, "\n"))
	}

	logger.Logger.Debugw("parsed",
		logger.FieldNotation, key,
		logger.FieldCount, len(m.Nodes),
		"elapsed", time.Since(start))

	return m, nil
}

// Normalize rewrites m into the shape target accepts: flattened when the
// target cannot nest declarations, lifted when it has no variants.
func (r *Runner) Normalize(m *ir.Module, target *lang.Target, diags *diagnostic.Diagnostics) *ir.Module {
	opts := []rewrite.Option{rewrite.WithDiagnostics(diags)}

	if target.Capabilities.Flatten {
		m = rewrite.Flatten(m, opts...)
		logger.Logger.Debugw("flattened", logger.FieldTarget, target.Key, logger.FieldCount, len(m.Nodes))
	}

	if target.Capabilities.LiftSumTypes {
		m = rewrite.Lift(m, opts...)
		logger.Logger.Debugw("lifted", logger.FieldTarget, target.Key, logger.FieldCount, len(m.Nodes))
	}

	return m
}

// Emit renders src, read as inKey, in outKey. Warnings travel in the
// output; error diagnostics of the back end fail the call.
func (r *Runner) Emit(inKey string, src []byte, outKey string) (*Output, error) {
	be, err := r.Registries.Backends.Lookup(outKey)
	if err != nil {
		return nil, err
	}

	m, err := r.Parse(inKey, src)
	if err != nil {
		return nil, err
	}

	out := &Output{Target: outKey}
	target := be.Target()

	m = r.Normalize(m, target, &out.Diagnostics)
	out.Content = be.Walk(m)
	out.Filename = target.Filename(r.base())

	if rep, ok := be.(plugin.DiagnosticsReporter); ok {
		out.Diagnostics.Merge(*rep.Diagnostics())
	}

	report(outKey, &out.Diagnostics)

	if out.Diagnostics.HasErrors() {
		return nil, errors.Wrapf(out.Diagnostics.Error(), "emit %s", outKey)
	}

	logger.Logger.Infow("emitted",
		logger.FieldTarget, outKey,
		logger.FieldFile, out.Filename,
		logger.FieldCount, len(out.Content))

	return out, nil
}

// EmitAll emits src in every key of outKeys, in order.
func (r *Runner) EmitAll(inKey string, src []byte, outKeys []string) ([]*Output, error) {
	if len(outKeys) == 0 {
		return nil, errors.WithHint(errors.ErrNoOutput, "pass --out <key>, --out-<key> or --out-all")
	}

	outputs := make([]*Output, 0, len(outKeys))

	for _, key := range outKeys {
		out, err := r.Emit(inKey, src, key)
		if err != nil {
			return outputs, err
		}

		outputs = append(outputs, out)
	}

	return outputs, nil
}

// AST dumps the module as parsed, before any normalization.
func (r *Runner) AST(inKey string, src []byte) (*Output, error) {
	m, err := r.Parse(inKey, src)
	if err != nil {
		return nil, err
	}

	return &Output{Target: "ast", Filename: r.base() + ".ast", Content: ir.Show(m)}, nil
}

// Source returns src unchanged as an output. Its file name keeps clear of
// the output written in the input notation.
func (r *Runner) Source(inKey string, src []byte) *Output {
	return &Output{Target: "src", Filename: r.base() + ".src." + inKey, Content: string(src)}
}

func (r *Runner) base() string {
	if r.Base == "" {
		return "schema"
	}

	return r.Base
}

func report(target string, diags *diagnostic.Diagnostics) {
	for _, d := range diags.Warnings {
		logger.Logger.Warnw(d.Message,
			logger.FieldTarget, target,
			logger.FieldCode, d.Code,
			logger.FieldPath, d.Path)
	}

	for _, d := range diags.Infos {
		logger.Logger.Debugw(d.Message,
			logger.FieldTarget, target,
			logger.FieldCode, d.Code,
			logger.FieldPath, d.Path)
	}
}
