package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"golang.org/x/sync/errgroup"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/buildcache"
	"github.com/alnah/go-mdsite/internal/config"
	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/fileutil"
	"github.com/alnah/go-mdsite/internal/hints"
	"github.com/alnah/go-mdsite/internal/markdown"
	"github.com/alnah/go-mdsite/internal/yamlutil"
)

// Sentinel errors for build operations.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWritePage    = errors.New("failed to write page")
	ErrBuildFailed  = errors.New("build failed")
)

// filePermissions is used for written pages.
const filePermissions = 0o644 // rw-r--r--: pages are meant to be served

// Status labels.
var (
	labelInfo = color.New(color.FgCyan, color.Bold)
	labelOK   = color.New(color.FgGreen, color.Bold)
	labelWarn = color.New(color.FgYellow, color.Bold)
	labelErr  = color.New(color.FgRed, color.Bold)
	keyColor  = color.New(color.FgCyan)
	strColor  = color.New(color.FgGreen)
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input mdsite.Input) (*mdsite.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*mdsite.Converter)(nil)

// buildParams groups values shared by every document of one build.
type buildParams struct {
	cfg       *config.Config
	date      dateutil.Spec
	buildTime time.Time
	cache     *buildcache.Cache
	force     bool
	keepNodes bool
}

// buildResult holds the outcome of a single document.
type buildResult struct {
	Target   target
	Err      error
	Skipped  bool // unchanged since the last build
	Size     int
	Nodes    []markdown.Node // kept in verbose mode only
	Duration time.Duration
}

// runBuild orchestrates the build command.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, errHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return build(ctx, flags, positional, env)
}

// build runs a parsed build command.
func build(ctx context.Context, flags *buildFlags, positional []string, env *Environment) error {
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected at most one content directory, got %d", ErrUsage, len(positional))
	}
	if flags.set("workers") {
		if err := validateWorkers(flags.workers, config.MaxWorkers); err != nil {
			return err
		}
	}

	quiet, verbose := flags.common.quiet, flags.common.verbose

	if env.SetMaxProcs != nil {
		undo := env.SetMaxProcs(verbose, env.Stderr)
		defer undo()
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, source, err := loadBuildConfig(flags, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, positional, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	dateSpec, err := dateutil.ParseSpec(cfg.Date)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForDateFormat())
	}

	buildTime := env.Now()

	if verbose {
		if source == "" {
			source = "defaults"
		}
		fmt.Fprintf(env.Stdout, "%s %s\n", labelInfo.Sprint("Config"), source)
		if err := dumpConfig(env.Stdout, cfg); err != nil {
			return err
		}
	}

	if !quiet {
		fmt.Fprintf(env.Stdout, "%s build\n", labelInfo.Sprint("Running"))
	}

	targets, err := discoverTargets(cfg.Content.Dir, cfg.Output.Dir)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(env.Stdout, "%s %d targets\n", labelInfo.Sprint("Found"), len(targets))
	}
	if len(targets) == 0 {
		if !quiet {
			fmt.Fprintf(env.Stdout, "%s No targets found\n", labelWarn.Sprint("Warning"))
		}
		return nil
	}

	conv, err := newConverter(cfg, env)
	if err != nil {
		return err
	}

	fingerprint, err := buildFingerprint(cfg, dateSpec, buildTime)
	if err != nil {
		return err
	}
	cache, err := buildcache.Open(cfg.Output.Dir, fingerprint)
	if err != nil {
		// The cache is still usable, only empty
		fmt.Fprintf(env.Stderr, "%s %v, rebuilding all documents\n", labelWarn.Sprint("Warning"), err)
	}

	params := &buildParams{
		cfg:       cfg,
		date:      dateSpec,
		buildTime: buildTime,
		cache:     cache,
		force:     flags.force,
		keepNodes: verbose,
	}

	poolSize := mdsite.ResolvePoolSize(cfg.Build.Workers)
	if verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}

	results := buildAll(ctx, conv, targets, params, poolSize, newProgress(env, flags, len(targets)))

	keep := make([]string, len(targets))
	for i, tg := range targets {
		keep[i] = tg.Key
	}
	if pruned := cache.Prune(keep); pruned > 0 && verbose {
		fmt.Fprintf(env.Stdout, "Pruned %d stale cache entries\n", pruned)
	}
	if err := cache.Save(); err != nil {
		fmt.Fprintf(env.Stderr, "%s saving build cache: %v\n", labelWarn.Sprint("Warning"), err)
	}

	failed := printResults(results, quiet, verbose, env)

	if verbose {
		fmt.Fprintf(env.Stdout, "Done in %v\n", env.Now().Sub(buildTime).Round(time.Millisecond))
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("build interrupted: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d documents failed", ErrBuildFailed, failed, len(results))
	}
	return nil
}

// loadBuildConfig loads the config named by --config, MDSITE_CONFIG or the
// default name, in that order. A missing default config yields defaults.
// Returns the file name used, empty for defaults.
func loadBuildConfig(flags *buildFlags, envCfg *envConfig) (*config.Config, string, error) {
	name := flags.common.config
	explicit := flags.set("config")
	if !explicit && envCfg.ConfigPath != "" {
		name = envCfg.ConfigPath
		explicit = true
	}

	cfg, err := config.LoadConfig(name)
	switch {
	case err == nil:
		return cfg, name, nil
	case errors.Is(err, config.ErrConfigNotFound) && !explicit:
		return config.DefaultConfig(), "", nil
	case errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name):
		return nil, "", fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
	default:
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *buildFlags, positional []string, cfg *config.Config) {
	if len(positional) > 0 {
		cfg.Content.Dir = positional[0]
	}

	overrides := []struct {
		name  string
		value string
		dst   *string
	}{
		{"output", flags.output, &cfg.Output.Dir},
		{"theme", flags.theme, &cfg.Theme},
		{"class", flags.class, &cfg.Class},
		{"engine", flags.engine, &cfg.Engine},
		{"date", flags.date, &cfg.Date},
		{"asset-path", flags.assetPath, &cfg.Assets.BasePath},
	}
	for _, o := range overrides {
		if flags.set(o.name) {
			*o.dst = o.value
		}
	}

	if flags.set("workers") {
		cfg.Build.Workers = flags.workers
	}
}

// newConverter creates the shared converter, adding hints to asset errors.
func newConverter(cfg *config.Config, env *Environment) (*mdsite.Converter, error) {
	opts := []mdsite.Option{
		mdsite.WithEngine(cfg.Engine),
		mdsite.WithClass(cfg.Class),
		mdsite.WithTheme(cfg.Theme),
		mdsite.WithLang(cfg.Lang),
		mdsite.WithRewriteLinks(cfg.Content.RewriteLinks),
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdsite.WithAssetPath(cfg.Assets.BasePath))
	}
	if env.AssetLoader != nil {
		opts = append(opts, mdsite.WithAssetLoader(env.AssetLoader))
	}

	conv, err := mdsite.NewConverter(opts...)
	switch {
	case err == nil:
		return conv, nil
	case errors.Is(err, mdsite.ErrStyleNotFound):
		return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(mdsite.Styles()))
	case errors.Is(err, mdsite.ErrUnknownEngine):
		return nil, fmt.Errorf("%w%s", err, hints.ForEngine([]string{mdsite.EngineNative, mdsite.EngineGoldmark}))
	default:
		return nil, err
	}
}

// buildFingerprint identifies everything outside a source file that shapes
// its page. A build-time date is resolved first so that pages are rebuilt
// when the date changes. A theme file contributes its content.
func buildFingerprint(cfg *config.Config, date dateutil.Spec, buildTime time.Time) (string, error) {
	fp := *cfg
	if date.Source == dateutil.SourceBuild {
		fp.Date = date.Resolve(buildTime, time.Time{})
	}

	var theme []byte
	if fileutil.IsFilePath(cfg.Theme) || strings.HasSuffix(strings.ToLower(cfg.Theme), ".css") {
		content, err := os.ReadFile(cfg.Theme) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: loading theme file %q: %v", mdsite.ErrInvalidTheme, cfg.Theme, err)
		}
		theme = content
	}

	return buildcache.Digest(theme, fp.Fingerprint(), Version), nil
}

// buildAll builds targets concurrently with at most poolSize workers.
// Failures are collected per document and never stop the others.
func buildAll(ctx context.Context, conv CLIConverter, targets []target, params *buildParams, poolSize int, bar progressReporter) []buildResult {
	results := make([]buildResult, len(targets))
	if len(targets) == 0 {
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(poolSize, len(targets)))

	for i, tg := range targets {
		g.Go(func() error {
			results[i] = buildTarget(gctx, conv, tg, params)
			bar.Advance(tg.Key)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	bar.Done()

	return results
}

// buildTarget converts one document unless the cache says it is unchanged.
func buildTarget(ctx context.Context, conv CLIConverter, tg target, p *buildParams) buildResult {
	start := time.Now()
	result := buildResult{Target: tg}
	fail := func(err error) buildResult {
		p.cache.Forget(tg.Key)
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	content, err := os.ReadFile(tg.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	var modTime time.Time
	if p.date.PerDocument() {
		info, err := os.Stat(tg.InputPath)
		if err != nil {
			return fail(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
		}
		modTime = info.ModTime()
	}
	date := p.date.Resolve(p.buildTime, modTime)

	digest := buildcache.Digest(content, date)
	if !p.force && p.cache.Fresh(tg.Key, digest, tg.OutputPath) {
		result.Skipped = true
		result.Duration = time.Since(start)
		return result
	}

	out, err := conv.Convert(ctx, mdsite.Input{
		Markdown:    string(content),
		Title:       p.cfg.Title,
		Description: p.cfg.Description,
		Date:        date,
		Latex:       p.cfg.Content.LatexEnabled,
	})
	if err != nil {
		return fail(err)
	}

	if err := fileutil.WriteFileAtomic(tg.OutputPath, out.HTML, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v%s", ErrWritePage, err, hints.ForOutputDirectory()))
	}
	p.cache.Record(tg.Key, digest, tg.OutputPath)

	result.Size = len(out.HTML)
	if p.keepNodes {
		result.Nodes = out.Nodes
	}
	result.Duration = time.Since(start)
	return result
}

// buildSummary holds the count of built, unchanged and failed documents.
type buildSummary struct {
	Built     int
	Unchanged int
	Failed    int
}

// countResults tallies build outcomes.
func countResults(results []buildResult) buildSummary {
	var summary buildSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Skipped:
			summary.Unchanged++
		default:
			summary.Built++
		}
	}
	return summary
}

// printResults outputs per-document lines and the summary.
// Returns the number of failed documents.
func printResults(results []buildResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "%s %s: %v\n", labelErr.Sprint("Error"), r.Target.InputPath, r.Err)
			continue
		}
		if !verbose {
			continue
		}

		if r.Skipped {
			fmt.Fprintf(env.Stdout, "%s -> %s (unchanged)\n", r.Target.InputPath, r.Target.OutputPath)
			continue
		}
		if r.Nodes != nil {
			fmt.Fprintln(env.Stdout, pp.Sprint(r.Nodes))
		}
		fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n",
			r.Target.InputPath, r.Target.OutputPath,
			humanize.Bytes(uint64(r.Size)), r.Duration.Round(time.Millisecond))
	}

	if !quiet {
		label := labelOK.Sprint("Finished")
		if summary.Failed > 0 {
			label = labelErr.Sprint("Finished")
		}
		fmt.Fprintf(env.Stdout, "%s %d built, %d unchanged, %d failed\n",
			label, summary.Built, summary.Unchanged, summary.Failed)
	}

	return summary.Failed
}

// dumpConfig writes cfg as YAML with highlighted keys and strings.
func dumpConfig(w io.Writer, cfg *config.Config) error {
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("dumping config: %w", err)
	}

	var style yamlutil.Style
	style.KeyPrefix, style.KeySuffix = colorAffixes(keyColor)
	style.StringPrefix, style.StringSuffix = colorAffixes(strColor)

	fmt.Fprintln(w, strings.TrimRight(yamlutil.Highlight(data, style), "\n"))
	return nil
}

// colorAffixes returns the escape sequences c writes around text. Both are
// empty when color output is disabled.
func colorAffixes(c *color.Color) (prefix, suffix string) {
	const marker = "\x00"
	prefix, suffix, _ = strings.Cut(c.Sprint(marker), marker)
	return prefix, suffix
}
