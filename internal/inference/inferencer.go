package inference

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/csvtype-cli/internal/patterns"
)

// TypesFileSuffix is appended to the input path when no types file path is set.
const TypesFileSuffix = ".ctypes"

// Inferencer classifies every cell of a delimited file against a pattern
// registry and tallies the labels per column. Each call to Infer or
// InferFile is an independent run; an Inferencer may be reused.
type Inferencer struct {
	reg *patterns.Registry
	opt Options
	log logrus.FieldLogger
}

// New validates the options and returns an Inferencer for reg.
func New(reg *patterns.Registry, opt Options) (*Inferencer, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil pattern registry", ErrInvalidOptions)
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	log := opt.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Inferencer{reg: reg, opt: opt, log: log}, nil
}

// Options returns the options the Inferencer was built with.
func (inf *Inferencer) Options() Options { return inf.opt }

// Registry returns the pattern registry.
func (inf *Inferencer) Registry() *patterns.Registry { return inf.reg }

// TypesPath resolves the types file path for an input path.
func (inf *Inferencer) TypesPath(input string) string {
	if inf.opt.TypesFilepath != "" {
		return inf.opt.TypesFilepath
	}
	return input + TypesFileSuffix
}

// InferFile runs inference over the file at path. When SaveTypesFile is
// set the types file is created first and closed on every exit path.
func (inf *Inferencer) InferFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var sink io.Writer
	if inf.opt.SaveTypesFile {
		tp := inf.TypesPath(path)
		if st, statErr := os.Stat(tp); statErr == nil {
			if in, err := f.Stat(); err == nil && os.SameFile(in, st) {
				return nil, fmt.Errorf("%w: types file %s is the input file", ErrInvalidOptions, tp)
			}
			inf.log.WithField("path", tp).Warn("types file exists and will be overwritten")
		}
		out, err := os.Create(tp)
		if err != nil {
			return nil, fmt.Errorf("create types file: %w", err)
		}
		defer out.Close()
		sink = out
	}

	res, err := inf.Infer(ctx, f, sink)
	if err != nil {
		return nil, err
	}
	res.Name = filepath.Base(path)
	return res, nil
}

// Infer reads delimited rows from in. The first row is the header. If
// sink is non-nil it receives one line per input row: the column names,
// then the labels of each data row, comma-joined. On failure the sink
// holds the lines of every row completed before the error.
func (inf *Inferencer) Infer(ctx context.Context, in io.Reader, sink io.Writer) (*Result, error) {
	runID := uuid.NewString()
	log := inf.log.WithFields(logrus.Fields{"run_id": runID, "parallel": inf.opt.Multithreading})
	start := time.Now()
	log.Debug("inference started")

	var w *bufio.Writer
	if sink != nil {
		w = bufio.NewWriter(sink)
	}
	r := newRun(inf.reg, inf.opt)
	rows, err := inf.process(ctx, r, in, w, log)
	if w != nil {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("write types file: %w", ferr)
		}
	}
	if err != nil {
		log.WithError(err).WithField("rows", rows).Error("inference failed")
		return nil, err
	}

	res := newResult(runID, r, rows)
	log.WithFields(logrus.Fields{
		"rows":    rows,
		"columns": len(res.ColNames),
		"elapsed": time.Since(start).String(),
	}).Info("inference finished")
	return res, nil
}

// process drives the row loop and returns the number of data rows completed.
func (inf *Inferencer) process(ctx context.Context, r *run, in io.Reader, w *bufio.Writer, log logrus.FieldLogger) (uint64, error) {
	cr := csv.NewReader(in)
	cr.Comma = inf.opt.delimiter()
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("read header: %w", err)
	}
	r.cols = initColumns(header, inf.reg.Len())
	numCols := len(r.cols)

	var line strings.Builder
	if w != nil {
		for c, col := range r.cols {
			if c > 0 {
				line.WriteByte(',')
			}
			line.WriteString(col.name)
		}
		if err := writeLine(w, &line); err != nil {
			return 0, err
		}
	}

	window := uint64(inf.opt.RollingCacheWindow)
	labels := make([]int, numCols)
	var n uint64
	step := func(rec []string) error {
		var err error
		if inf.opt.Multithreading {
			err = classifyParallel(r, rec, labels)
		} else {
			err = classifySequential(r, rec, labels)
		}
		if err != nil {
			return fmt.Errorf("data row %d: %w", n+1, err)
		}

		if w != nil {
			line.Reset()
			for c, l := range labels {
				if c > 0 {
					line.WriteByte(',')
				}
				line.WriteString(r.labels[l])
			}
			if err := writeLine(w, &line); err != nil {
				return err
			}
		}

		n++
		if n%window == 0 {
			log.WithFields(logrus.Fields{"row": n, "entries": r.cache.len()}).Debug("value cache reset")
			r.cache.reset()
		}
		return nil
	}

	_, prevEnd := recordLines(cr, header)
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return n, fmt.Errorf("read row %d: %w", n+1, err)
		}

		// The reader drops blank lines; each one is a row of empty cells.
		start, end := recordLines(cr, rec)
		for blank := start - prevEnd - 1; blank > 0; blank-- {
			if err := ctx.Err(); err != nil {
				return n, err
			}
			if err := step(nil); err != nil {
				return n, err
			}
		}
		prevEnd = end

		if len(rec) > numCols {
			return n, &ShapeError{Row: n + 1, Fields: len(rec), Columns: numCols}
		}
		if err := step(rec); err != nil {
			return n, err
		}
	}
	return n, nil
}

// recordLines returns the input lines on which the last read record starts
// and ends. A quoted field may span several lines.
func recordLines(cr *csv.Reader, rec []string) (start, end int) {
	start, _ = cr.FieldPos(0)
	last := len(rec) - 1
	end, _ = cr.FieldPos(last)
	return start, end + strings.Count(rec[last], "\n")
}

// field returns cell c of rec, or "" for cells missing from a short row.
func field(rec []string, c int) string {
	if c < len(rec) {
		return rec[c]
	}
	return ""
}

func classifySequential(r *run, rec []string, labels []int) error {
	for c := range labels {
		l, err := r.classify(field(rec, c), c)
		if err != nil {
			return err
		}
		labels[c] = l
	}
	return nil
}

// classifyParallel runs one task per column and waits for all of them
// before returning. Each task writes only its own slot of labels.
func classifyParallel(r *run, rec []string, labels []int) error {
	var g errgroup.Group
	for c := range labels {
		c := c
		value := field(rec, c)
		g.Go(func() error {
			l, err := r.classify(value, c)
			if err != nil {
				return err
			}
			labels[c] = l
			return nil
		})
	}
	return g.Wait()
}

func writeLine(w *bufio.Writer, line *strings.Builder) error {
	line.WriteByte('\n')
	if _, err := w.WriteString(line.String()); err != nil {
		return fmt.Errorf("write types file: %w", err)
	}
	return nil
}
