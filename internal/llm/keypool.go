package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vuongtx/thuchi-bot/internal/common"
)

// defaultCooldown is how long a credential stays unusable after a
// quota-class failure.
const defaultCooldown = 30 * time.Minute

// KeyPool routes completion calls across an ordered pool of credentials,
// tracking which are cooling down after quota failures. All state is
// process-lifetime; nothing persists across restarts.
type KeyPool struct {
	cooldownUntil map[string]time.Time
	now           func() time.Time
	logger        *slog.Logger
	keys          []string
	cooldown      time.Duration
	current       int
	mu            sync.Mutex
}

// KeyStatus describes one credential for status reporting.
type KeyStatus struct {
	Preview           string
	CooldownRemaining time.Duration
	Index             int
	CoolingDown       bool
	Current           bool
}

// NewKeyPool creates a pool over the configured credentials in order.
func NewKeyPool(keys []string, logger *slog.Logger) *KeyPool {
	return &KeyPool{
		keys:          keys,
		cooldownUntil: make(map[string]time.Time),
		cooldown:      defaultCooldown,
		now:           time.Now,
		logger:        logger,
	}
}

// Size returns the number of configured credentials.
func (p *KeyPool) Size() int {
	return len(p.keys)
}

// Current returns the first usable credential scanning from the current
// index, advancing the index to it. If every credential is cooling down
// it returns the current one anyway: the pool never blocks and never
// returns empty while at least one credential is configured.
func (p *KeyPool) Current() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentLocked()
}

func (p *KeyPool) currentLocked() (string, error) {
	if len(p.keys) == 0 {
		return "", common.ErrEngineDisabled
	}

	for attempt := 0; attempt < len(p.keys); attempt++ {
		idx := (p.current + attempt) % len(p.keys)
		if p.inCooldownLocked(p.keys[idx]) {
			continue
		}
		if idx != p.current {
			p.logger.Info("rotated to credential", "index", idx+1)
			p.current = idx
		}
		return p.keys[idx], nil
	}

	p.logger.Warn("all credentials cooling down, using current best-effort")
	return p.keys[p.current], nil
}

// MarkFailed records a call failure for the credential. Only quota-class
// failures start a cooldown and advance the rotation index; other
// failures are logged and left alone since rotation cannot fix them.
func (p *KeyPool) MarkFailed(key string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexOf(key)
	if idx < 0 {
		return
	}

	if !common.IsQuotaError(err) {
		p.logger.Error("credential failed with non-quota error", "index", idx+1, "error", err)
		return
	}

	p.cooldownUntil[key] = p.now().Add(p.cooldown)
	p.logger.Warn("credential quota exhausted, cooling down",
		"index", idx+1,
		"cooldown", p.cooldown)

	if len(p.keys) > 1 {
		p.current = (p.current + 1) % len(p.keys)
	}
}

// Execute runs fn with the current credential, rotating on quota failures.
// It is bounded to one attempt per configured credential; exhausting every
// credential returns common.ErrEngineExhausted. Non-quota failures return
// immediately.
func (p *KeyPool) Execute(ctx context.Context, fn func(key string) error) error {
	if len(p.keys) == 0 {
		return common.ErrEngineDisabled
	}

	for attempt := 0; attempt < len(p.keys); attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		key, err := p.Current()
		if err != nil {
			return err
		}

		err = fn(key)
		if err == nil {
			return nil
		}

		if !common.IsQuotaError(err) {
			p.MarkFailed(key, err)
			return err
		}

		p.logger.Warn("completion attempt failed on quota, rotating",
			"attempt", attempt+1,
			"error", err)
		p.MarkFailed(key, err)
	}

	return fmt.Errorf("%w: tried %d credentials", common.ErrEngineExhausted, len(p.keys))
}

// HasUsable reports whether any credential is outside its cooldown.
func (p *KeyPool) HasUsable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, key := range p.keys {
		if !p.inCooldownLocked(key) {
			return true
		}
	}
	return false
}

// Status reports the state of every credential, for the keys command.
func (p *KeyPool) Status() []KeyStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]KeyStatus, len(p.keys))
	for i, key := range p.keys {
		status := KeyStatus{
			Index:   i + 1,
			Preview: preview(key),
			Current: i == p.current,
		}
		if p.inCooldownLocked(key) {
			status.CoolingDown = true
			status.CooldownRemaining = p.cooldownUntil[key].Sub(p.now())
		}
		statuses[i] = status
	}
	return statuses
}

// inCooldownLocked lazily expires a cooldown that has elapsed.
func (p *KeyPool) inCooldownLocked(key string) bool {
	until, failed := p.cooldownUntil[key]
	if !failed {
		return false
	}
	if !p.now().Before(until) {
		delete(p.cooldownUntil, key)
		p.logger.Info("credential cooldown expired", "index", p.indexOf(key)+1)
		return false
	}
	return true
}

func (p *KeyPool) indexOf(key string) int {
	for i, k := range p.keys {
		if k == key {
			return i
		}
	}
	return -1
}

func preview(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "..."
}
