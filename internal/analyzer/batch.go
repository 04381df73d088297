package analyzer

import (
	"context"
	"time"

	"github.com/rgehrsitz/goalcalc/internal/domain"
	"golang.org/x/sync/errgroup"
)

// BatchItem is the outcome of one batch row: a result or a typed error
type BatchItem struct {
	Line      int                    `json:"line" yaml:"line"`
	ClientID  string                 `json:"clientId,omitempty" yaml:"client_id,omitempty"`
	Result    *domain.AnalysisResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error     string                 `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind string                 `json:"errorKind,omitempty" yaml:"error_kind,omitempty"`
	Err       error                  `json:"-" yaml:"-"`
}

// BatchSummary aggregates a batch run
type BatchSummary struct {
	Total              int       `json:"total" yaml:"total"`
	Green              int       `json:"green" yaml:"green"`
	Yellow             int       `json:"yellow" yaml:"yellow"`
	Red                int       `json:"red" yaml:"red"`
	Failed             int       `json:"failed" yaml:"failed"`
	AverageProbability float64   `json:"averageProbability" yaml:"average_probability"`
	ProcessedAt        time.Time `json:"processedAt" yaml:"processed_at"`
}

// BatchResult holds every row outcome in input order
type BatchResult struct {
	Summary BatchSummary `json:"summary" yaml:"summary"`
	Items   []BatchItem  `json:"items" yaml:"items"`
}

// AnalyzeBatch analyzes every row independently; a failing row never stops
// the others. Rows that failed to parse are carried through as failures.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, rows []domain.GoalRow) *BatchResult {
	items := make([]BatchItem, len(rows))

	var g errgroup.Group
	g.SetLimit(a.options.BatchConcurrency)
	for i, row := range rows {
		items[i] = BatchItem{Line: row.Line, ClientID: row.Goal.ClientID}
		if row.Err != nil {
			items[i].fail(row.Err)
			a.Metrics.ObserveError(domain.ErrorKind(row.Err))
			continue
		}
		g.Go(func() error {
			res, err := a.Analyze(ctx, row.Goal)
			if err != nil {
				items[i].fail(err)
				return nil
			}
			items[i].Result = res
			return nil
		})
	}
	_ = g.Wait()

	return &BatchResult{Summary: a.summarize(items), Items: items}
}

func (it *BatchItem) fail(err error) {
	it.Err = err
	it.Error = err.Error()
	it.ErrorKind = domain.ErrorKind(err)
}

func (a *Analyzer) summarize(items []BatchItem) BatchSummary {
	s := BatchSummary{Total: len(items), ProcessedAt: a.Now().UTC()}
	var sum float64
	for _, it := range items {
		if it.Result == nil {
			s.Failed++
			continue
		}
		sum += it.Result.ProbabilityOfSuccess
		switch it.Result.Status {
		case domain.StatusGreen:
			s.Green++
		case domain.StatusYellow:
			s.Yellow++
		case domain.StatusRed:
			s.Red++
		}
	}
	if analyzed := s.Total - s.Failed; analyzed > 0 {
		s.AverageProbability = round(sum/float64(analyzed), 4)
	}
	return s
}
