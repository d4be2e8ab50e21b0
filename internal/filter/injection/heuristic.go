package injection

import (
	"context"
	"fmt"

	"github.com/af-corp/bfhl-service/internal/config"
	"github.com/af-corp/bfhl-service/internal/filter"
	"github.com/af-corp/bfhl-service/internal/types"
)

const filterName = "injection"

// Detection records the first match of a rule in a prompt.
type Detection struct {
	RuleName string
	Severity float64
	Category string
	Start    int
	End      int
}

// Scanner scores AI prompts against injection rules.
type Scanner struct {
	rules []Rule
	cfg   func() config.InjectionFilterConfig
}

func NewScanner(cfg func() config.InjectionFilterConfig) *Scanner {
	return &Scanner{rules: DefaultRules(), cfg: cfg}
}

func (s *Scanner) Name() string  { return filterName }
func (s *Scanner) Enabled() bool { return s.cfg().Enabled }

// ScanPrompt returns one detection per matching rule and the highest severity
// among them. A rule matching several times counts once.
func (s *Scanner) ScanPrompt(prompt string) ([]Detection, float64) {
	var detections []Detection
	score := 0.0
	for _, r := range s.rules {
		loc := r.Regex.FindStringIndex(prompt)
		if loc == nil {
			continue
		}
		detections = append(detections, Detection{
			RuleName: r.Name,
			Severity: r.Severity,
			Category: r.Category,
			Start:    loc[0],
			End:      loc[1],
		})
		score = max(score, r.Severity)
	}
	return detections, score
}

// ScanRequest implements filter.Filter. Numeric operations always pass.
func (s *Scanner) ScanRequest(_ context.Context, req types.Request) filter.Result {
	prompt, ok := filter.PromptOf(req)
	if !ok {
		return filter.Result{Action: filter.ActionPass, FilterName: filterName}
	}

	detections, score := s.ScanPrompt(prompt)
	result := filter.Result{
		Action:     filter.ActionPass,
		FilterName: filterName,
		Detections: len(detections),
		Score:      score,
	}

	cfg := s.cfg()
	switch {
	case len(detections) == 0:
	case score >= cfg.BlockThreshold:
		result.Action = filter.ActionBlock
		result.Message = fmt.Sprintf("prompt injection detected: %s (score %.2f)", detections[0].RuleName, score)
	case score >= cfg.FlagThreshold:
		result.Action = filter.ActionFlag
		result.Message = "possible prompt injection: " + detections[0].RuleName
	}
	return result
}
