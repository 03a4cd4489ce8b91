package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

// ReliabilityConfig — настройки контура надежности вокруг генератора
type ReliabilityConfig struct {
	RatePerSecond float64
	Burst         int
	Attempts      uint
	CallTimeout   time.Duration
	CBMaxRequests uint32
	CBInterval    time.Duration
	CBTimeout     time.Duration
}

func defaultReliabilityConfig() ReliabilityConfig {
	return ReliabilityConfig{
		RatePerSecond: 2, // Генеративный провайдер, не Jira: щадящий лимит
		Burst:         4,
		Attempts:      3,
		CallTimeout:   60 * time.Second,
		CBMaxRequests: 3,
		CBInterval:    5 * time.Second,
		CBTimeout:     30 * time.Second, // Время, через которое CB попробует "закрыться"
	}
}

// ReliabilityWrapper оборачивает любой Generator в Rate Limiter → Circuit
// Breaker → Retry. Политика ретраев живет здесь, в адаптере провайдера,
// а не в движке пакетной генерации.
type ReliabilityWrapper struct {
	next    Generator
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	cfg     ReliabilityConfig
}

func NewReliabilityWrapper(next Generator, cfg ReliabilityConfig) *ReliabilityWrapper {
	def := defaultReliabilityConfig()
	if cfg.RatePerSecond == 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}
	if cfg.Burst == 0 {
		cfg.Burst = def.Burst
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = def.CallTimeout
	}
	if cfg.CBMaxRequests == 0 {
		cfg.CBMaxRequests = def.CBMaxRequests
	}
	if cfg.CBInterval == 0 {
		cfg.CBInterval = def.CBInterval
	}
	if cfg.CBTimeout == 0 {
		cfg.CBTimeout = def.CBTimeout
	}

	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "content-generator",
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Если более 5 ошибок подряд — открываемся (блокируем трафик)
			return counts.ConsecutiveFailures > 5
		},
	})

	return &ReliabilityWrapper{
		next:    next,
		cb:      cb,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		cfg:     cfg,
	}
}

// execute — общий контур: лимитер, предохранитель, ретраи с учетом ThrottleError
func (w *ReliabilityWrapper) execute(ctx context.Context, call func(ctx context.Context) error) error {
	// 1. Rate Limiter
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	// 2. Circuit Breaker
	_, err := w.cb.Execute(func() (interface{}, error) {
		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(w.cfg.Attempts),
			// Умный расчет задержки
			retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
				// Провайдер попросил подождать (считан Retry-After)
				var tErr *ThrottleError
				if errors.As(err, &tErr) {
					return tErr.RetryAfter
				}

				// В остальных случаях — стандартный экспоненциальный бэкофф
				return retry.BackOffDelay(n, err, config)
			}),
		)

		retryErr := r.Do(func() error {
			tCtx, cancel := context.WithTimeout(ctx, w.cfg.CallTimeout)
			defer cancel()
			return call(tCtx)
		})

		return nil, retryErr
	})

	return err
}

func (w *ReliabilityWrapper) GeneratePolicyDocument(ctx context.Context, policyTitle, frameworkText string) (domain.DocumentContent, error) {
	var content domain.DocumentContent
	err := w.execute(ctx, func(ctx context.Context) error {
		var callErr error
		content, callErr = w.next.GeneratePolicyDocument(ctx, policyTitle, frameworkText)
		return callErr
	})
	if err != nil {
		return domain.DocumentContent{}, err
	}
	return content, nil
}

func (w *ReliabilityWrapper) GenerateCompliancePlan(ctx context.Context, policy domain.Policy, content domain.DocumentContent) (domain.CompliancePlan, error) {
	var plan domain.CompliancePlan
	err := w.execute(ctx, func(ctx context.Context) error {
		var callErr error
		plan, callErr = w.next.GenerateCompliancePlan(ctx, policy, content)
		return callErr
	})
	if err != nil {
		return domain.CompliancePlan{}, err
	}
	return plan, nil
}

func (w *ReliabilityWrapper) AnalyzeRisks(ctx context.Context, items []domain.RiskItem) ([]domain.RiskItem, string, error) {
	var (
		updated []domain.RiskItem
		summary string
	)
	err := w.execute(ctx, func(ctx context.Context) error {
		var callErr error
		updated, summary, callErr = w.next.AnalyzeRisks(ctx, items)
		return callErr
	})
	if err != nil {
		return nil, "", err
	}
	return updated, summary, nil
}

func (w *ReliabilityWrapper) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	var audio []byte
	err := w.execute(ctx, func(ctx context.Context) error {
		var callErr error
		audio, callErr = w.next.GenerateSpeech(ctx, text)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return audio, nil
}

// State отдает текущее состояние предохранителя для метрик
func (w *ReliabilityWrapper) State() gobreaker.State {
	return w.cb.State()
}
