package secrets

import (
	"context"
	"fmt"

	"github.com/af-corp/bfhl-service/internal/config"
	"github.com/af-corp/bfhl-service/internal/filter"
	"github.com/af-corp/bfhl-service/internal/types"
)

// Detection represents a detected secret in text.
type Detection struct {
	PatternName string // e.g. "AWS Access Key"
	Start       int    // byte offset
	End         int    // byte offset
}

// Scanner scans text for secrets using pre-compiled regex patterns.
type Scanner struct {
	patterns []Pattern
	cfg      func() config.SecretsFilterConfig
}

// NewScanner creates a scanner with the default secret patterns.
func NewScanner(cfg func() config.SecretsFilterConfig) *Scanner {
	return &Scanner{patterns: DefaultPatterns(), cfg: cfg}
}

func (s *Scanner) Name() string  { return "secrets" }
func (s *Scanner) Enabled() bool { return s.cfg().Enabled }

// Scan checks a single text string for secrets and returns all detections.
func (s *Scanner) Scan(text string) []Detection {
	var detections []Detection
	for _, p := range s.patterns {
		locs := p.Regex.FindAllStringIndex(text, -1)
		for _, loc := range locs {
			detections = append(detections, Detection{
				PatternName: p.Name,
				Start:       loc[0],
				End:         loc[1],
			})
		}
	}
	return detections
}

// ScanRequest implements filter.Filter. Only prompts bound for the delegate
// are scanned; numeric operations always pass.
func (s *Scanner) ScanRequest(_ context.Context, req types.Request) filter.Result {
	prompt, ok := filter.PromptOf(req)
	if !ok {
		return filter.Result{Action: filter.ActionPass, FilterName: s.Name()}
	}
	detections := s.Scan(prompt)
	if len(detections) == 0 {
		return filter.Result{Action: filter.ActionPass, FilterName: s.Name()}
	}
	return filter.Result{
		Action:     filter.ActionBlock,
		FilterName: s.Name(),
		Message:    fmt.Sprintf("Request blocked: %s detected in prompt", detections[0].PatternName),
		Detections: len(detections),
	}
}
