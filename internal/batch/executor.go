package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"mintforge/internal/config"
	"mintforge/internal/correlate"
	"mintforge/internal/logging"
	"mintforge/internal/manifest"
	"mintforge/internal/metadata"
	"mintforge/internal/notifications"
	"mintforge/internal/records"
	"mintforge/internal/services"
	"mintforge/internal/services/ledger"
)

// Options tunes pacing, concurrency, and reporting.
type Options struct {
	// ItemDelay is the pause between consecutive items in sequential mode.
	ItemDelay time.Duration
	// Workers above one enables the concurrent pool.
	Workers int
	// RateLimitRPS caps item starts per second; zero disables the limiter.
	RateLimitRPS float64
	// StageTimeout bounds each external call; zero leaves calls unbounded.
	StageTimeout time.Duration

	Observer Observer
	Logger   *slog.Logger
	Notifier notifications.Service

	// Wait replaces the inter-item pause. It must return ctx.Err() when ctx
	// ends first.
	Wait func(ctx context.Context, d time.Duration) error
}

// OptionsFromConfig maps the [workflow] section onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{
		ItemDelay:    cfg.ItemDelay(),
		Workers:      cfg.Workflow.Workers,
		RateLimitRPS: cfg.Workflow.RateLimitRPS,
		StageTimeout: cfg.StageTimeout(),
	}
}

// Executor runs batches against a fixed set of services.
type Executor struct {
	svc      Services
	opts     Options
	logger   *slog.Logger
	notifier notifications.Service
	limiter  *rate.Limiter
}

// NewExecutor validates svc and returns an executor.
func NewExecutor(svc Services, opts Options) (*Executor, error) {
	var missing []string
	if svc.Uploader == nil {
		missing = append(missing, "uploader")
	}
	if svc.Minter == nil {
		missing = append(missing, "minter")
	}
	if svc.Recorder == nil {
		missing = append(missing, "recorder")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("batch executor requires %s", strings.Join(missing, ", "))
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Wait == nil {
		opts.Wait = sleepContext
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(nil)
	}
	e := &Executor{
		svc:      svc,
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "batch"),
		notifier: notifier,
	}
	if opts.RateLimitRPS > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1)
	}
	return e, nil
}

// Validate checks the fields minting requires.
func (c CollectionRef) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ID) == "" {
		missing = append(missing, "collection id")
	}
	if strings.TrimSpace(c.ContractAddress) == "" {
		missing = append(missing, "contract address")
	}
	if c.ChainID <= 0 {
		missing = append(missing, "chain id")
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrValidation, "batch", "validate collection",
			"missing "+strings.Join(missing, ", "), nil)
	}
	return nil
}

// Run processes every pair in plan and returns the summary. When ctx is
// cancelled the run stops at the next item boundary and returns the partial
// summary together with the context error.
func (e *Executor) Run(ctx context.Context, collection CollectionRef, plan correlate.Result) (*Summary, error) {
	return e.Execute(ctx, collection, NewJob(plan))
}

// Execute runs a prepared job. Callers that poll progress create the job
// with NewJob and keep a reference to it.
func (e *Executor) Execute(ctx context.Context, collection CollectionRef, job *Job) (*Summary, error) {
	if job == nil {
		return nil, errors.New("batch job is required")
	}
	if err := collection.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx = services.WithBatchID(ctx, job.id)
	logger := logging.WithContext(ctx, e.logger)

	for _, row := range job.unmatched {
		logging.WarnWithContext(logger, "manifest row has no matching asset", "no_asset_match",
			logging.Int(logging.FieldRowIndex, row.Index),
			logging.String("row", row.Label()),
			logging.String("filename", row.Get(manifest.FieldFilename)),
			logging.String("token_id", row.Get(manifest.FieldTokenID)),
			logging.String(logging.FieldErrorHint, "add an image whose name contains the row's name, filename, position, or token_id"),
			logging.String(logging.FieldImpact, "row skipped"),
		)
	}

	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("collection", collection.Name),
		logging.String("contract_address", collection.ContractAddress),
		logging.Int64("chain_id", collection.ChainID),
		logging.Int("items", len(job.pairs)),
		logging.Int("skipped", len(job.unmatched)),
		logging.Int("workers", e.opts.Workers),
	)
	e.publish(ctx, logger, notifications.EventBatchStarted, notifications.Payload{
		"collection": collection.Name,
		"total":      len(job.pairs),
	})
	e.emit(job.Progress())

	var runErr error
	if e.opts.Workers > 1 && len(job.pairs) > 1 {
		runErr = e.runConcurrent(ctx, logger, collection, job)
	} else {
		runErr = e.runSequential(ctx, logger, collection, job)
	}

	cancelled := runErr != nil
	summary := job.summary(collection, time.Since(start), cancelled)
	e.emit(job.finish(cancelled))

	attrs := []logging.Attr{
		logging.Int("attempted", summary.Attempted),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration),
	}
	switch {
	case cancelled:
		logging.WarnWithContext(logger, "batch cancelled", "batch_cancelled", append(attrs,
			logging.Int("remaining", summary.Total-summary.Attempted),
			logging.String(logging.FieldImpact, "remaining rows were not minted"),
			logging.String(logging.FieldErrorHint, "re-run with the retry manifest to mint the rest"),
		)...)
	default:
		attrs = append(attrs, logging.String(logging.FieldEventType, "batch_complete"))
		logger.Info("batch completed", logging.Args(attrs...)...)
	}
	if summary.Orphaned > 0 {
		logging.ErrorWithContext(logger, "minted tokens were not recorded", "orphaned_mints",
			logging.Alert("orphaned_mint"),
			logging.Int("orphaned", summary.Orphaned),
			logging.String(logging.FieldErrorHint, services.ErrorHint(services.ErrPersist)),
		)
	}
	e.publish(ctx, logger, notifications.EventBatchCompleted, notifications.Payload{
		"collection": collection.Name,
		"total":      summary.Total,
		"succeeded":  summary.Succeeded,
		"failed":     summary.Failed,
		"skipped":    summary.Skipped,
		"duration":   summary.Duration,
	})
	return summary, runErr
}

func (e *Executor) runSequential(ctx context.Context, logger *slog.Logger, collection CollectionRef, job *Job) error {
	sampler := logging.NewProgressSampler(10)
	for i, pair := range job.pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 && e.opts.ItemDelay > 0 {
			if err := e.opts.Wait(ctx, e.opts.ItemDelay); err != nil {
				return err
			}
		}
		if err := e.throttle(ctx); err != nil {
			return err
		}
		result := e.processItem(ctx, collection, job, pair, true)
		e.record(ctx, logger, sampler, job, result)
	}
	return nil
}

type indexedResult struct {
	pos    int
	result ItemResult
}

func (e *Executor) runConcurrent(ctx context.Context, logger *slog.Logger, collection CollectionRef, job *Job) error {
	work := make(chan int)
	done := make(chan indexedResult)
	dispatchErr := make(chan error, 1)

	var wg sync.WaitGroup
	for range min(e.opts.Workers, len(job.pairs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range work {
				done <- indexedResult{pos: pos, result: e.processItem(ctx, collection, job, job.pairs[pos], false)}
			}
		}()
	}

	go func() {
		defer close(work)
		for pos := range job.pairs {
			if err := ctx.Err(); err != nil {
				dispatchErr <- err
				return
			}
			if err := e.throttle(ctx); err != nil {
				dispatchErr <- err
				return
			}
			select {
			case work <- pos:
			case <-ctx.Done():
				dispatchErr <- ctx.Err()
				return
			}
		}
		dispatchErr <- nil
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	// Completions arrive in any order; report them in manifest order.
	sampler := logging.NewProgressSampler(10)
	pending := make(map[int]ItemResult)
	next := 0
	for r := range done {
		pending[r.pos] = r.result
		for {
			result, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			e.record(ctx, logger, sampler, job, result)
			next++
		}
	}
	return <-dispatchErr
}

func (e *Executor) throttle(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	if err := e.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// processItem runs one pair through every stage. Stage calls use a context
// that ignores caller cancellation so a started item always completes.
func (e *Executor) processItem(ctx context.Context, collection CollectionRef, job *Job, pair correlate.Pair, reportStages bool) ItemResult {
	start := time.Now()
	itemCtx := services.WithRowIndex(context.WithoutCancel(ctx), pair.Row.Index)
	item := metadata.Synthesize(pair.Row, pair.Asset, collection.Name)
	result := ItemResult{
		RowIndex:  pair.Row.Index,
		Name:      item.Name,
		AssetName: pair.Asset.Name,
		Metadata:  item,
	}
	logger := logging.WithContext(itemCtx, e.logger).With(logging.Args(
		logging.String("item_name", item.Name),
		logging.String("asset", pair.Asset.Name),
		logging.String("match_rule", string(pair.Rule)),
		logging.String("filename", pair.Row.Get(manifest.FieldFilename)),
		logging.String("token_id", pair.Row.Get(manifest.FieldTokenID)),
	)...)
	enter := func(stage Stage) {
		if reportStages {
			e.emit(job.enterStage(pair, item.Name, stage))
		}
	}

	enter(StageUpload)
	var uri string
	err := e.call(itemCtx, StageUpload, func(callCtx context.Context) error {
		var callErr error
		uri, callErr = e.svc.Uploader.Upload(callCtx, pair.Asset)
		return callErr
	})
	if err == nil && strings.TrimSpace(uri) == "" {
		err = errors.New("storage returned an empty uri")
	}
	if err != nil {
		return e.fail(logger, result, UploadFailed, services.ErrUpload, err, start)
	}
	item = item.WithMediaURI(uri)
	result.ImageURI = uri
	result.Metadata = item

	enter(StageMint)
	var receipt ledger.Receipt
	err = e.call(itemCtx, StageMint, func(callCtx context.Context) error {
		var callErr error
		receipt, callErr = e.svc.Minter.Mint(callCtx, collection.ContractAddress, collection.ChainID, item)
		return callErr
	})
	if err == nil && strings.TrimSpace(receipt.TransactionID) == "" {
		err = errors.New("ledger returned no transaction id")
	}
	if err != nil {
		return e.fail(logger, result, MintFailed, services.ErrMint, err, start)
	}
	result.TransactionID = receipt.TransactionID
	result.MetadataURI = receipt.MetadataURI
	if item.TokenID == "" {
		item.TokenID = receipt.TokenID
	}
	result.Metadata = item

	enter(StagePersist)
	var stored records.Record
	err = e.call(itemCtx, StagePersist, func(callCtx context.Context) error {
		var callErr error
		stored, callErr = e.svc.Recorder.CreateRecord(callCtx, records.NewRecord{
			CollectionID:  collection.ID,
			Name:          item.Name,
			Description:   item.Description,
			Image:         item.Image,
			Attributes:    item.Attributes,
			TransactionID: receipt.TransactionID,
			OwnerAddress:  collection.OwnerAddress,
			MetadataURI:   receipt.MetadataURI,
			BatchID:       job.id,
			RowIndex:      pair.Row.Index,
		})
		return callErr
	})
	if err != nil {
		result.Orphaned = true
		return e.fail(logger, result, PersistFailed, services.ErrPersist, err, start)
	}

	result.Record = &stored
	result.Duration = time.Since(start)
	logger.Info("item minted",
		logging.String(logging.FieldEventType, "item_complete"),
		logging.String("transaction_id", receipt.TransactionID),
		logging.String("image_uri", uri),
		logging.String("record_id", stored.ID),
		logging.Duration("duration", result.Duration),
	)
	return result
}

func (e *Executor) call(ctx context.Context, stage Stage, fn func(context.Context) error) error {
	callCtx := services.WithStage(services.WithRequestID(ctx, uuid.NewString()), string(stage))
	if e.opts.StageTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, e.opts.StageTimeout)
		defer cancel()
	}
	logging.WithContext(callCtx, e.logger).Debug("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
	)
	return fn(callCtx)
}

func (e *Executor) fail(logger *slog.Logger, result ItemResult, kind ErrorKind, marker error, err error, start time.Time) ItemResult {
	if !errors.Is(err, marker) {
		err = fmt.Errorf("%w: %w", marker, err)
	}
	details := services.Details(err)
	result.Kind = kind
	result.Error = details.Message
	result.Duration = time.Since(start)

	attrs := []logging.Attr{
		logging.String("error_kind", string(kind)),
		logging.String("error_message", details.Message),
		logging.String(logging.FieldErrorHint, services.ErrorHint(err)),
		logging.Error(err),
	}
	if result.Orphaned {
		attrs = append(attrs,
			logging.Alert("orphaned_mint"),
			logging.String("transaction_id", result.TransactionID),
		)
	}
	logging.ErrorWithContext(logger, "item failed", "item_failed", attrs...)
	return result
}

func (e *Executor) record(ctx context.Context, logger *slog.Logger, sampler *logging.ProgressSampler, job *Job, result ItemResult) {
	progress := job.complete(result)
	e.emit(progress)
	if sampler.ShouldLog(progress.Current, progress.Total, "") {
		logger.Info("batch progress",
			logging.String(logging.FieldEventType, "batch_progress"),
			logging.Int("current", progress.Current),
			logging.Int("total", progress.Total),
			logging.Int("succeeded", progress.Succeeded),
			logging.Int("failed", progress.Failed),
		)
	}
	if result.Succeeded() {
		return
	}
	event := notifications.EventItemFailed
	if result.Orphaned {
		event = notifications.EventOrphanedMint
	}
	e.publish(ctx, logger, event, notifications.Payload{
		"row":         result.RowIndex,
		"name":        result.Name,
		"error":       result.Error,
		"transaction": result.TransactionID,
	})
}

func (e *Executor) emit(p Progress) {
	if e.opts.Observer != nil {
		e.opts.Observer(p)
	}
}

func (e *Executor) publish(ctx context.Context, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	if err := e.notifier.Publish(context.WithoutCancel(ctx), event, payload); err != nil {
		logger.Debug("notification failed",
			logging.String("event", string(event)),
			logging.Error(err),
		)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
