package assignment

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/wish-santa/backend/internal/model/wish"
)

// ErrPoolExhausted is returned when a new identity arrives and no wish is left.
var ErrPoolExhausted = errors.New("no more wishes available")

// Saver persists the full assignment mapping.
type Saver interface {
	Save(ctx context.Context, assignments map[string]wish.Wish) error
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger used for assignment and persistence events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRand replaces the random source used to pick wishes.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithReserveAssigned controls whether wishes found in the loaded assignments
// are removed from the pool before serving.
func WithReserveAssigned(reserve bool) Option {
	return func(s *Service) {
		s.reserveAssigned = reserve
	}
}

// Service owns the remaining pool and the identity to wish mapping.
type Service struct {
	mu          sync.Mutex
	pool        *wish.Pool
	assignments map[string]wish.Wish
	saver       Saver
	rng         *rand.Rand
	logger      *zap.Logger

	reserveAssigned bool
}

// NewService builds the engine from a freshly loaded pool and the previously
// persisted assignments.
func NewService(pool []wish.Wish, assignments map[string]wish.Wish, saver Saver, opts ...Option) *Service {
	seed := uint64(time.Now().UnixNano())
	s := &Service{
		pool:            wish.NewPool(pool),
		assignments:     make(map[string]wish.Wish, len(assignments)),
		saver:           saver,
		rng:             rand.New(rand.NewPCG(seed, seed>>32|seed<<32)),
		logger:          zap.NewNop(),
		reserveAssigned: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	for identity, item := range assignments {
		s.assignments[identity] = item
	}

	if s.reserveAssigned {
		reserved := 0
		for _, item := range s.assignments {
			if s.pool.Reserve(item) {
				reserved++
			}
		}
		s.logger.Info("reserved previously assigned wishes",
			zap.Int("reserved", reserved),
			zap.Int("remaining", s.pool.Len()))
	}

	return s
}

// GetOrAssign returns the wish bound to identity, drawing and persisting a new
// one on first sight.
func (s *Service) GetOrAssign(ctx context.Context, identity string) (wish.Wish, error) {
	if err := ctx.Err(); err != nil {
		return wish.Wish{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.assignments[identity]; ok {
		return item, nil
	}

	if s.pool.Len() == 0 {
		s.logger.Warn("wish pool exhausted", zap.String("identity", identity))
		return wish.Wish{}, ErrPoolExhausted
	}

	item := s.pool.Take(s.rng.IntN(s.pool.Len()))
	s.assignments[identity] = item
	s.logger.Info("assigned wish",
		zap.String("identity", identity),
		zap.String("trigram", item.Trigram),
		zap.Int("remaining", s.pool.Len()))

	if s.saver != nil {
		if err := s.saver.Save(context.WithoutCancel(ctx), s.assignments); err != nil {
			// the in-memory mapping stays authoritative
			s.logger.Error("failed to persist assignments", zap.Error(err))
		}
	}

	return item, nil
}

// Remaining reports how many wishes are still unassigned.
func (s *Service) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Len()
}

// Assignments returns a copy of the current mapping.
func (s *Service) Assignments() map[string]wish.Wish {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(map[string]wish.Wish, len(s.assignments))
	for identity, item := range s.assignments {
		copied[identity] = item
	}
	return copied
}
