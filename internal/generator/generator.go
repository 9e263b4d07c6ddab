// Package generator produces batches of independent HD wallets for a network.
package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Klingon-tech/hdgen/internal/log"
	"github.com/Klingon-tech/hdgen/internal/network"
	"github.com/Klingon-tech/hdgen/internal/wallet"
)

// DefaultMaxWalletCount caps a single batch unless configured otherwise.
const DefaultMaxWalletCount = 10000

// ErrInvalidCount is returned when the requested count is not in (0, max].
var ErrInvalidCount = errors.New("invalid wallet count")

// Request describes one batch.
type Request struct {
	Count   int
	Network network.Spec
	// WordCount selects the mnemonic length. Zero means 12 words.
	WordCount int
}

// Progress reports how many units of a batch have completed.
type Progress struct {
	Done  int
	Total int
}

// ProgressFunc receives a Progress after every completed unit. Calls are
// serialized and Done never decreases.
type ProgressFunc func(Progress)

// UnitError reports the failure of one wallet in a batch.
type UnitError struct {
	Index int // 1-based, as in Record.Index
	Err   error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("wallet %d: %v", e.Index, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// Generator runs wallet batches against a shared wallet engine.
type Generator struct {
	engine   *wallet.Engine
	maxCount int
	workers  int
	logger   zerolog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxWalletCount sets the per-batch cap. Values below 1 are ignored.
func WithMaxWalletCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxCount = n
		}
	}
}

// WithWorkers sets how many units run at once. One runs the batch
// sequentially.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// New returns a generator using engine. A nil engine gets the default one.
func New(engine *wallet.Engine, opts ...Option) *Generator {
	if engine == nil {
		engine = wallet.NewEngine()
	}
	g := &Generator{
		engine:   engine,
		maxCount: DefaultMaxWalletCount,
		workers:  1,
		logger:   log.Generator,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MaxWalletCount returns the configured per-batch cap.
func (g *Generator) MaxWalletCount() int {
	return g.maxCount
}

// ValidateCount checks 0 < n <= MaxWalletCount.
func (g *Generator) ValidateCount(n int) error {
	if n <= 0 || n > g.maxCount {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidCount, n, g.maxCount)
	}
	return nil
}

// Check runs every precondition of req without generating anything.
func (g *Generator) Check(req Request) error {
	if err := g.ValidateCount(req.Count); err != nil {
		return err
	}
	if !g.engine.Supports(req.Network.Kind) {
		return fmt.Errorf("%w: %s", wallet.ErrUnsupportedChain, req.Network.Kind)
	}
	if err := wallet.ValidateTemplateRange(req.Network.PathTemplate, uint32(req.Count-1)); err != nil {
		return err
	}
	if _, err := wallet.EntropyBits(wordCount(req)); err != nil {
		return err
	}
	return nil
}

func wordCount(req Request) int {
	if req.WordCount == 0 {
		return wallet.DefaultWordCount
	}
	return req.WordCount
}

// Generate produces req.Count wallets in index order. The first failing
// unit aborts the batch: no records are returned and the error is a
// *UnitError. Cancelling ctx stops the batch between units and returns
// ctx.Err(). progress may be nil.
func (g *Generator) Generate(ctx context.Context, req Request, progress ProgressFunc) ([]wallet.Record, error) {
	if err := g.Check(req); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(Progress) {}
	}

	logger := g.logger.With().
		Str("network", req.Network.Name).
		Str("chain", req.Network.Kind.String()).
		Int("count", req.Count).
		Logger()
	logger.Info().Int("workers", g.workers).Msg("Batch started")
	start := time.Now()

	var (
		records []wallet.Record
		err     error
	)
	if g.workers > 1 && req.Count > 1 {
		records, err = g.generateParallel(ctx, req, progress)
	} else {
		records, err = g.generateSequential(ctx, req, progress)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Batch aborted")
		return nil, err
	}

	logger.Info().Dur("elapsed", time.Since(start)).Msg("Batch complete")
	return records, nil
}

func (g *Generator) generateSequential(ctx context.Context, req Request, progress ProgressFunc) ([]wallet.Record, error) {
	records := make([]wallet.Record, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := g.unit(req, i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		progress(Progress{Done: i + 1, Total: req.Count})
	}
	return records, nil
}

func (g *Generator) generateParallel(ctx context.Context, req Request, progress ProgressFunc) ([]wallet.Record, error) {
	records := make([]wallet.Record, req.Count)

	var (
		mu   sync.Mutex
		done int
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i := 0; i < req.Count; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := g.unit(req, i)
			if err != nil {
				return err
			}
			records[i] = rec

			mu.Lock()
			done++
			progress(Progress{Done: done, Total: req.Count})
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// unit generates the wallet at zero-based index i.
func (g *Generator) unit(req Request, i int) (wallet.Record, error) {
	mnemonic, err := g.engine.Mnemonics().Generate(wordCount(req))
	if err != nil {
		return wallet.Record{}, &UnitError{Index: i + 1, Err: err}
	}
	pathStr := wallet.ExpandTemplate(req.Network.PathTemplate, uint32(i))
	path, err := wallet.ParsePath(pathStr)
	if err != nil {
		return wallet.Record{}, &UnitError{Index: i + 1, Err: err}
	}
	acct, err := g.engine.DeriveAccount(req.Network.Kind, mnemonic, path)
	if err != nil {
		return wallet.Record{}, &UnitError{Index: i + 1, Err: err}
	}
	return wallet.Record{
		Index:          i + 1,
		Chain:          req.Network.Kind,
		Network:        req.Network.Name,
		Address:        acct.Address,
		Mnemonic:       mnemonic,
		DerivationPath: pathStr,
		PrivateKey:     acct.PrivateKey,
	}, nil
}
