package farewatch

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/cubny/farewatch/internal/pipeline"
)

// batchHeader is the first line written by the batch checker
var batchHeader = Line{
	"pickup", "dropoff", "route_id", "overcharge_rows", "anomaly_rows", "rate_status",
	"expected_rate", "observed_rate", "rate_diff_pct", "classification",
	"suggested_pickup", "improvement_pct", "error",
}

// batchChecker takes a reader stream of "pickup,dropoff" lines and streams out
// the check result of each route into the writer stream
type batchChecker struct {
	engine *Engine
	reader io.Reader
	writer io.Writer
	conf   *BatchConfig
}

// batchResult is the outcome of a single line of the batch
type batchResult struct {
	line   Line
	result CheckResult
	err    error
}

// NewBatchChecker creates a batchChecker
func NewBatchChecker(engine *Engine, in io.Reader, out io.Writer, config *BatchConfig) (*batchChecker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &batchChecker{
		engine: engine,
		reader: in,
		writer: out,
		conf:   config,
	}, nil
}

// Run runs the batch pipeline. With more than one worker the output order is not
// the input order. Returning early cancels the upstream stages.
func (b *batchChecker) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := csv.NewReader(b.reader)
	in.FieldsPerRecord = -1
	in.TrimLeadingSpace = true

	linec, errc1 := pipeline.Generate(ctx, streamFromCSV(in))
	outc, errc2 := pipeline.WorkerPool(ctx, b.conf.Concurrency, linec, b.checkLine)
	if err := b.sinkCSV(ctx, outc); err != nil {
		return err
	}

	errm := pipeline.MergeErrors(ctx, errc1, errc2)
	for err := range errm {
		switch {
		case err == io.EOF:
		case err != nil:
			return err
		}
	}

	return nil
}

// checkLine is a pipeline.workerFunc that checks the route of one line.
// A malformed line is reported in the output rather than failing the batch.
func (b *batchChecker) checkLine(ctx context.Context, item interface{}, outc chan<- pipeline.Event) error {
	line, ok := item.(Line)
	if !ok {
		return errors.New("item of the wrong type passed")
	}

	res := batchResult{line: line}
	if len(line) < 2 {
		res.err = ErrInvalidInput
	} else {
		res.result, res.err = b.engine.CheckRoute(line[0], line[1])
	}

	select {
	case <-ctx.Done():
	case outc <- res:
	}
	return nil
}

// sinkCSVRecord writes a batchResult record to csv.Writer
func (b *batchChecker) sinkCSVRecord(w *csv.Writer) func(interface{}) error {
	return func(val interface{}) error {
		res, ok := val.(batchResult)
		if !ok {
			slog.Warn("not of the type batch result")
			return nil
		}
		return w.Write(res.record())
	}
}

// sinkCSV writes the header and all batchResult records to the writer in CSV format
func (b *batchChecker) sinkCSV(ctx context.Context, outc <-chan pipeline.Event) error {
	output := csv.NewWriter(b.writer)
	if err := output.Write(batchHeader); err != nil {
		return err
	}

	err := pipeline.Sink(ctx, outc, b.sinkCSVRecord(output))
	if err != nil {
		return err
	}

	output.Flush()
	if err := output.Error(); err != nil {
		return err
	}

	return nil
}

// record formats the result as an output line matching batchHeader
func (r batchResult) record() Line {
	record := make(Line, len(batchHeader))
	for i := 0; i < 2 && i < len(r.line); i++ {
		record[i] = r.line[i]
	}
	if r.err != nil {
		record[len(record)-1] = r.err.Error()
		return record
	}

	res := r.result
	record[2] = res.RouteID
	record[3] = strconv.Itoa(len(res.Overcharges))
	record[4] = strconv.Itoa(len(res.Anomalies))
	record[5] = string(res.Rate.Status)
	if report := res.Rate.Report; report != nil {
		record[6] = formatRate(report.AvgRate)
		record[7] = formatRate(report.ChargedRate)
		record[8] = strconv.FormatFloat(report.RateDiffPct, 'f', 1, 64)
		record[9] = string(report.Classification)
	}
	if s := res.Alternative.Suggestion; s != nil {
		record[10] = s.Zone
		record[11] = strconv.FormatFloat(s.ImprovementPct, 'f', 1, 64)
	}
	return record
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 2, 64)
}
