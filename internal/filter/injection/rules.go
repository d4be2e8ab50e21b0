package injection

import "regexp"

// Rule is one pattern scored against AI prompts. Prompts are short questions
// whose answer is cut down to a single word, so the rules target attempts to
// take over the instructions or dictate the answer rather than topics.
type Rule struct {
	Name     string
	Regex    *regexp.Regexp
	Severity float64 // 0.0 to 1.0
	Category string
}

const (
	categoryOverride = "instruction_override"
	categoryPersona  = "persona_switch"
	categoryLeak     = "prompt_leak"
	categoryAnswer   = "answer_steering"
	categoryEncoding = "encoding_trick"
)

// DefaultRules returns the built-in rules. A single match at or above 0.9
// blocks with the default thresholds; everything else can at most flag.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "ignore_instructions",
			Regex:    regexp.MustCompile(`(?i)\b(ignore|disregard|forget)\s+(all\s+)?(the\s+)?(previous|prior|above|earlier)\s+(instructions|rules|context)\b`),
			Severity: 0.95,
			Category: categoryOverride,
		},
		{
			Name:     "role_header",
			Regex:    regexp.MustCompile("(?im)^\\s*(system|assistant)\\s*:|```system"),
			Severity: 0.9,
			Category: categoryOverride,
		},
		{
			Name:     "mode_switch",
			Regex:    regexp.MustCompile(`(?i)\b(enable|enter|activate|switch\s+to)\s+(jailbreak|unrestricted|developer|god)\s+mode\b`),
			Severity: 0.9,
			Category: categoryPersona,
		},
		{
			// the acronym only; "Dan" and "dan" are ordinary words
			Name:     "dan_persona",
			Regex:    regexp.MustCompile(`\bDAN\b|(?i:\bdo\s+anything\s+now\b)`),
			Severity: 0.8,
			Category: categoryPersona,
		},
		{
			Name:     "reveal_prompt",
			Regex:    regexp.MustCompile(`(?i)\b(reveal|print|repeat|show\s+me)\s+(your|the)\s+(system\s+|hidden\s+)?(prompt|instructions)\b`),
			Severity: 0.85,
			Category: categoryLeak,
		},
		{
			Name:     "forced_answer",
			Regex:    regexp.MustCompile(`(?i)\b(no\s+matter\s+what|regardless\s+of\s+the\s+question)\b.{0,40}\b(answer|reply|respond|say)\b`),
			Severity: 0.75,
			Category: categoryAnswer,
		},
		{
			Name:     "encoded_instruction",
			Regex:    regexp.MustCompile(`(?i)\b(decode|execute|follow)\s+(this|the)\s+(base64|hex|rot13)\b`),
			Severity: 0.85,
			Category: categoryEncoding,
		},
		{
			Name:     "persona_assignment",
			Regex:    regexp.MustCompile(`(?i)\byou\s+are\s+now\s+(a|an|the|my)\s+`),
			Severity: 0.7,
			Category: categoryPersona,
		},
	}
}
