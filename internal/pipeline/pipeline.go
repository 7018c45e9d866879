// Package pipeline runs raw messages through parsing, the agent swarm,
// and routing, with optional archiving. One bad message never aborts a
// batch; failures are collected per message.
package pipeline

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/esperstack/esper-mail/internal/agents"
	"github.com/esperstack/esper-mail/internal/archive"
	"github.com/esperstack/esper-mail/internal/mail"
	"github.com/esperstack/esper-mail/internal/router"
)

// #region processor
// Processor is the end-to-end analysis pipeline.
type Processor struct {
	log   *zap.Logger
	store *archive.Store // nil disables archiving
}

// New builds a Processor. A nil logger logs nothing; a nil store skips
// archiving.
func New(log *zap.Logger, store *archive.Store) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{log: log, store: store}
}

// #endregion processor

// #region process

// ProcessRaw analyzes one raw RFC 822 message.
func (p *Processor) ProcessRaw(raw []byte) (router.Analysis, error) {
	msg, err := mail.ParseBytes(raw)
	if err != nil {
		return router.Analysis{}, fmt.Errorf("pipeline: %w", err)
	}
	return p.ProcessMessage(msg)
}

// ProcessMessage analyzes an already parsed message.
func (p *Processor) ProcessMessage(msg mail.Message) (router.Analysis, error) {
	packets := agents.Analyze(msg.FullText(), msg.Metadata)

	analysis, err := router.Route(packets, msg.Metadata)
	if err != nil {
		return router.Analysis{}, fmt.Errorf("pipeline: %w", err)
	}

	rule, _ := router.FiredRule(analysis)
	p.log.Debug("message routed",
		zap.String("subject", msg.Metadata.Subject),
		zap.String("folder", string(analysis.Folder)),
		zap.String("rule", rule),
		zap.Float64("urgency", analysis.Urgency),
		zap.Float64("importance", analysis.Importance),
	)

	return analysis, nil
}

// #endregion process

// #region batch

// Item is one batch input: an opaque ID (filename, IMAP UID) and the
// raw message.
type Item struct {
	ID  string
	Raw []byte
}

// Failure records one message that could not be analyzed or archived.
type Failure struct {
	ID  string
	Err error
}

// BatchResult holds the outcome of one batch run. Analyses and
// Failures partition the input; their order follows the input order.
type BatchResult struct {
	BatchID  string
	Analyses []router.Analysis
	Failures []Failure
}

// ProcessBatch analyzes items sequentially. Archiving failures count as
// message failures: an analysis that cannot be persisted is reported,
// not silently dropped.
func (p *Processor) ProcessBatch(items []Item) BatchResult {
	res := BatchResult{BatchID: uuid.New().String()}

	for _, item := range items {
		analysis, err := p.ProcessRaw(item.Raw)
		if err == nil && p.store != nil {
			if _, serr := p.store.SaveAnalysis(res.BatchID, analysis); serr != nil {
				err = fmt.Errorf("pipeline: archive: %w", serr)
			}
		}
		if err != nil {
			p.log.Warn("message failed", zap.String("id", item.ID), zap.Error(err))
			res.Failures = append(res.Failures, Failure{ID: item.ID, Err: err})
			continue
		}
		res.Analyses = append(res.Analyses, analysis)
	}

	p.log.Info("batch complete",
		zap.String("batch_id", res.BatchID),
		zap.Int("analyzed", len(res.Analyses)),
		zap.Int("failed", len(res.Failures)),
	)

	return res
}

// #endregion batch
