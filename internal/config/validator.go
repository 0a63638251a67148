package config

import (
	"fmt"
	"runtime"

	"github.com/standardbeagle/matchd/internal/apperr"
)

// Validator validates configuration and sets smart defaults, mirroring the
// teacher's two-pass "validate, then fill in derived defaults" shape.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates cfg and applies smart defaults. Returns
// an apperr.KindInvalidInput error if cfg is unusable.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateMatching(&cfg.Matching); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, "config.matching", err)
	}
	if err := v.validateStore(&cfg.Store); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, "config.store", err)
	}
	v.SetSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateMatching(m *Matching) error {
	if m.Threshold < 0 || m.Threshold > 100 {
		return fmt.Errorf("Threshold must be within 0-100, got %d", m.Threshold)
	}
	if m.TopK < 0 {
		return fmt.Errorf("TopK cannot be negative, got %d", m.TopK)
	}
	if m.Workers < 0 {
		return fmt.Errorf("Workers cannot be negative, got %d", m.Workers)
	}
	return nil
}

func (v *Validator) validateStore(s *Store) error {
	switch s.Driver {
	case "memory", "postgres", "":
	default:
		return fmt.Errorf("unknown store driver %q", s.Driver)
	}
	if s.Driver == "postgres" && s.DSN == "" {
		return fmt.Errorf("store.dsn is required when driver is postgres")
	}
	return nil
}

// SetSmartDefaults fills in derived defaults the same way the teacher's
// setSmartDefaults resolves Performance.MaxGoroutines from NumCPU.
func (v *Validator) SetSmartDefaults(cfg *Config) {
	if cfg.Matching.Workers == 0 {
		cfg.Matching.Workers = max(1, runtime.NumCPU()-1)
	}
	if cfg.Matching.TopK == 0 {
		cfg.Matching.TopK = DefaultTopK
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memory"
	}
	if cfg.Store.MaxPoolSize == 0 {
		cfg.Store.MaxPoolSize = 10
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
