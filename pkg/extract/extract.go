package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/logging"
)

// Modalities the extractor recognises
const (
	ModalityCT     = "CT"
	ModalityStruct = "RTSTRUCT"
	ModalityPlan   = "RTPLAN"
	ModalityDose   = "RTDOSE"
)

type options struct {
	logger   *slog.Logger
	progress func(Progress)
}

// Option configures Extract
type Option func(*options)

// WithLogger sets the logger, slog.Default otherwise
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithProgress registers a callback invoked after every file
func WithProgress(fn func(Progress)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// Extract parses every path independently and builds the clinical dataset.
// Unparseable files are logged and counted, never fatal. The only error returned
// is the context's, checked between files.
func Extract(ctx context.Context, paths []string, opts ...Option) (*Dataset, *Report, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger
	rep := &Report{}
	warn := func(ctx context.Context, msg string, args ...any) {
		line := fmt.Sprintf(msg, args...)
		rep.Warnings = append(rep.Warnings, line)
		log.WarnContext(ctx, line)
	}

	ds := &Dataset{}
	var cts []*dicom.File
	var structFile, planFile *dicom.File

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		fctx := logging.AppendCtx(ctx, slog.String("path", path))
		f, err := dicom.ReadFile(fctx, path)
		if o.progress != nil {
			o.progress(Progress{Done: i + 1, Total: len(paths), Path: path, Err: err})
		}
		if err != nil {
			log.WarnContext(fctx, "unsuccessfully parsed "+path, slog.Any("error", err))
			rep.Failed++
			continue
		}
		rep.Parsed++

		switch f.Modality() {
		case ModalityCT:
			rep.CT++
			cts = append(cts, f)
		case ModalityStruct:
			rep.Struct++
			if structFile != nil {
				warn(fctx, "multiple structure sets, using %s over %s", path, structFile.Path)
			}
			structFile = f
		case ModalityPlan:
			rep.Plan++
			if planFile != nil {
				warn(fctx, "multiple plans, using %s over %s", path, planFile.Path)
			}
			planFile = f
		case ModalityDose:
			rep.Dose++
			ds.DosePaths = append(ds.DosePaths, path)
		default:
			rep.Other++
			ds.OtherPaths = append(ds.OtherPaths, path)
		}
	}

	if len(cts) > 0 {
		ct, dropped := buildCT(ctx, log, cts)
		for _, d := range dropped {
			warn(ctx, "CT slice skipped: %v", d)
		}
		if len(ct.Slices) > 0 {
			ds.CT = ct
		}
	} else {
		warn(ctx, "no CT files found")
	}

	if structFile != nil {
		ss := buildStructures(structFile)
		if ss.Removed > 0 {
			warn(ctx, "%d structures without contours removed", ss.Removed)
		}
		ds.Structures = ss
	} else {
		warn(ctx, "no structure set found")
	}

	if planFile != nil {
		plan, notes := buildPlan(planFile)
		for _, n := range notes {
			warn(ctx, "%s", n)
		}
		ds.Plan = plan
	} else {
		warn(ctx, "no plan found")
	}

	log.InfoContext(ctx, "extraction complete",
		slog.Int("parsed", rep.Parsed), slog.Int("failed", rep.Failed),
		slog.Int("ct", rep.CT), slog.Int("struct", rep.Struct), slog.Int("plan", rep.Plan),
		slog.Int("dose", rep.Dose), slog.Int("other", rep.Other))
	return ds, rep, nil
}
