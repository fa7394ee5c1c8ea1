// Package pipeline orchestrates a recompilation run: load the guest
// image, resolve function boundaries, gate on configuration validation,
// then clean and regenerate the output directory.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"ppcrecomp/internal/analysis"
	"ppcrecomp/internal/config"
	"ppcrecomp/internal/diag"
	"ppcrecomp/internal/image"
	"ppcrecomp/internal/observ"
)

// State names one step of the run. Terminal states are Done, Failed and
// Blocked.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateAnalyzing  State = "analyzing"
	StateValidating State = "validating"
	StateBlocked    State = "blocked"
	StateGenerating State = "generating"
	StateCleaning   State = "cleaning-prior-output"
	StateEmitting   State = "emitting"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Result is the outcome of one run.
type Result struct {
	State         State
	FunctionCount int
	Diagnostics   *diag.Bag
}

// Pipeline drives one configuration through the full run. A Pipeline is
// single-use; create a fresh one per invocation.
type Pipeline struct {
	cfg   *config.Config
	rep   diag.Reporter
	timer *observ.Timer
	state State

	// CacheDir enables the analysis cache when non-empty.
	CacheDir string
}

// New creates a pipeline over a loaded configuration. rep may be nil.
func New(cfg *config.Config, rep diag.Reporter) *Pipeline {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Pipeline{cfg: cfg, rep: rep, timer: observ.NewTimer(), state: StateIdle}
}

// Timings returns the phase summary of the last run.
func (p *Pipeline) Timings() string { return p.timer.Summary() }

// State returns the current (or terminal) state.
func (p *Pipeline) State() State { return p.state }

// Run executes the pipeline. When validation reports errors and force is
// false the run stops in Blocked without touching the output directory;
// with force the errors are logged and generation proceeds anyway.
func (p *Pipeline) Run(ctx context.Context, force bool) (Result, error) {
	bag := diag.NewBag()
	rep := diag.MultiReporter{diag.BagReporter{Bag: bag}, p.rep}
	fail := func(err error) (Result, error) {
		p.state = StateFailed
		return Result{State: StateFailed, Diagnostics: bag}, err
	}

	p.state = StateLoading
	t := p.timer.Begin("load")
	imgPath := p.cfg.FilePath
	if !filepath.IsAbs(imgPath) {
		imgPath = filepath.Join(p.cfg.ConfigDir, imgPath)
	}
	img, err := image.Load(imgPath, p.cfg.ImageBase, p.cfg.EntryPoint, nil)
	if err != nil {
		diag.ReportError(rep, diag.IOImageUnreadable, 0, err.Error())
		return fail(err)
	}
	p.timer.End(t, fmt.Sprintf("%d bytes", len(img.Data)))

	p.state = StateAnalyzing
	t = p.timer.Begin("analyze")
	funcs, err := p.analyze(img, rep)
	if err != nil {
		return fail(err)
	}
	p.timer.End(t, fmt.Sprintf("%d functions", len(funcs)))

	p.state = StateValidating
	t = p.timer.Begin("validate")
	vr := p.cfg.Validate()
	bag.Merge(vr.Bag())
	p.timer.End(t, "")
	if !vr.Valid {
		for _, d := range vr.Errors {
			p.rep.Report(d.Code, d.Severity, d.Addr, d.Message)
		}
		if !force {
			p.state = StateBlocked
			return Result{State: StateBlocked, FunctionCount: len(funcs), Diagnostics: bag}, nil
		}
	}

	p.state = StateGenerating
	gen := newGenerator(p.cfg, img, funcs)

	p.state = StateCleaning
	t = p.timer.Begin("clean")
	if err := cleanOutputDir(p.cfg.OutDirectoryPath, p.cfg.ProjectName); err != nil {
		diag.ReportError(rep, diag.IOOutputDir, 0, err.Error())
		return fail(err)
	}
	p.timer.End(t, "")

	p.state = StateEmitting
	t = p.timer.Begin("emit")
	if err := gen.emitAll(ctx); err != nil {
		diag.ReportError(rep, diag.GenEmitFailed, 0, err.Error())
		return fail(err)
	}
	p.timer.End(t, fmt.Sprintf("%d shards", gen.shardCount()))

	p.state = StateDone
	return Result{State: StateDone, FunctionCount: len(funcs), Diagnostics: bag}, nil
}

// analyze resolves function boundaries, consulting the on-disk cache
// when a cache directory is configured.
func (p *Pipeline) analyze(img *image.Image, rep diag.Reporter) ([]*analysis.Function, error) {
	var cache *analysis.Cache
	var imgHash, cfgHash analysis.Digest
	if p.CacheDir != "" {
		var err error
		cache, err = analysis.NewCache(p.CacheDir)
		if err != nil {
			diag.ReportWarning(rep, diag.IOCacheUnusable, 0, err.Error())
			cache = nil
		} else {
			imgHash = analysis.HashBytes(img.Data)
			// fmt prints maps in key order, so the rendering is a
			// stable digest input.
			cfgHash = analysis.HashBytes([]byte(fmt.Sprintf("%+v", *p.cfg)))
			if funcs, ok := cache.Load(imgHash, cfgHash); ok {
				return funcs, nil
			}
		}
	}
	funcs, err := analysis.New(p.cfg, img, rep).Run()
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Store(imgHash, cfgHash, funcs); err != nil {
			diag.ReportWarning(rep, diag.IOCacheUnusable, 0, err.Error())
		}
	}
	return funcs, nil
}
