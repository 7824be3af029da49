// Package verdict isolates the pattern matching that turns a decision-maker's
// free-text message into a structured verdict. Every extraction has a narrow,
// named contract so the text-parsing surface stays independently testable.
package verdict

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/blizzardhq/blizzard/internal/models"
)

// Structural markers of the verdict protocol.
const (
	// Header is the banner every final verdict message must carry.
	Header = "SNOW DAY VERDICT"
	// ConfirmationHeader is the banner of the validator's sign-off message.
	ConfirmationHeader = "PROBABILITY CALCULATION CONFIRMATION"
)

var (
	// ErrNoHeader indicates the message is not a verdict at all.
	ErrNoHeader = errors.New("verdict header not found")
	// ErrNoDecision indicates no explicit YES/NO call was made.
	ErrNoDecision = errors.New("no explicit YES/NO decision")
	// ErrNoProbability indicates the final probability is absent or not numeric.
	ErrNoProbability = errors.New("final probability missing or not numeric")
	// ErrIncomplete covers placeholders, open questions, and missing sections.
	ErrIncomplete = errors.New("verdict is structurally incomplete")
)

var (
	decisionRe    = regexp.MustCompile(`SNOW DAY VERDICT\s*[:\-]?\s*\**\s*(YES|NO)\b`)
	finalProbRe   = regexp.MustCompile(`(?i)Final Snow Day Probability\s*[:\-]\s*\**\s*(\d{1,3})\s*%`)
	weatherProbRe = regexp.MustCompile(`(?i)Weather-Based Probability\s*[:\-]\s*\**\s*(\d{1,3})\s*%`)

	// placeholderRe catches a labeled numeric field whose value is a stand-in
	// token rather than a number, e.g. "Weather-Based Probability: X%".
	placeholderRe = regexp.MustCompile(`(?i)(probability|adjustment|influence|chance)\s*[:\-]\s*\**\s*(X+\s*%|N\s*%|\[[^\]]*\]|TBD\b|N/A\b|\?+)`)

	// outOfScopeRe matches discussion of actions other than a binary closure
	// call. A delay or dismissal is not a verdict this system commits.
	outOfScopeRe = regexp.MustCompile(`(?i)\b(two[- ]hour delay|2[- ]hour delay|delayed (start|opening)|late start|early (dismissal|release)|half[- ]day)\b`)

	factorLineRe = regexp.MustCompile(`^\s*[-*•]\s*(.+?)\s*$`)
)

// ExtractProbability returns the final snow day probability if the message
// contains one with a real numeric value in 0..100.
func ExtractProbability(text string) (int, bool) {
	m := finalProbRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}

// HasHeader reports whether the message carries the verdict banner.
func HasHeader(text string) bool {
	return strings.Contains(text, Header)
}

// HasBreakdown reports whether the message contains an explicit probability
// breakdown: a numeric weather-based component and a numeric final value.
func HasBreakdown(text string) bool {
	if _, ok := ExtractProbability(text); !ok {
		return false
	}
	return weatherProbRe.MatchString(text)
}

// ContainsPlaceholder reports whether any required numeric field holds a
// stand-in token instead of a number.
func ContainsPlaceholder(text string) bool {
	return placeholderRe.MatchString(text)
}

// HasOpenQuestion reports whether the message raises a question.
func HasOpenQuestion(text string) bool {
	return strings.Contains(text, "?")
}

// MentionsOutOfScopeAction reports whether the message raises or discusses a
// delay, dismissal, or similar non-closure action.
func MentionsOutOfScopeAction(text string) bool {
	return outOfScopeRe.MatchString(text)
}

// IsConfirmation reports whether a validator message is an explicit
// confirmation: it acknowledges the probability breakdown and declares no
// remaining open questions, without raising new ones.
func IsConfirmation(text string) bool {
	if !strings.Contains(text, ConfirmationHeader) {
		return false
	}
	lower := strings.ToLower(text)
	acknowledged := strings.Contains(lower, "no remaining questions") ||
		strings.Contains(lower, "no remaining open questions") ||
		strings.Contains(lower, "no open questions") ||
		strings.Contains(lower, "no further questions")
	return acknowledged && !strings.Contains(text, "?")
}

// Parse extracts a complete Verdict from a decision-maker message. It fails
// with a descriptive error when any required element is missing; callers
// treat any failure as "not done yet".
func Parse(text string) (*models.Verdict, error) {
	if !HasHeader(text) {
		return nil, ErrNoHeader
	}
	if ContainsPlaceholder(text) {
		return nil, fmt.Errorf("%w: placeholder token in numeric field", ErrIncomplete)
	}
	if HasOpenQuestion(text) {
		return nil, fmt.Errorf("%w: message raises a question", ErrIncomplete)
	}
	if MentionsOutOfScopeAction(text) {
		return nil, fmt.Errorf("%w: discusses a non-closure action", ErrIncomplete)
	}
	if !HasBreakdown(text) {
		return nil, fmt.Errorf("%w: probability breakdown section missing", ErrIncomplete)
	}

	m := decisionRe.FindStringSubmatch(text)
	if m == nil {
		return nil, ErrNoDecision
	}
	decision := models.Decision(m[1])

	prob, ok := ExtractProbability(text)
	if !ok {
		return nil, ErrNoProbability
	}

	v := &models.Verdict{
		CallDecision:       decision,
		ProbabilityPercent: prob,
		Reasoning:          section(text, "Reasoning"),
		SupportingFactors:  factors(text),
		Advisory:           section(text, "Advisory"),
	}
	if v.Reasoning == "" {
		// Fall back to the body after the header line so the narrative is
		// never silently dropped.
		v.Reasoning = afterHeader(text)
	}
	return v, nil
}

// section returns the text of a "Label:" section up to the next labeled line
// or blank line, trimmed. Empty when the label is absent.
func section(text, label string) string {
	re := regexp.MustCompile(`(?im)^\s*\**` + regexp.QuoteMeta(label) + `\**\s*[:\-]\s*(.*)$`)
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return ""
	}
	first := strings.TrimSpace(text[loc[2]:loc[3]])
	rest := text[loc[1]:]

	var lines []string
	if first != "" {
		lines = append(lines, first)
	}
	for _, line := range strings.Split(rest, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.Contains(trimmed, ":") && !factorLineRe.MatchString(line) {
			break
		}
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, " ")
}

// factors collects bullet lines under a supporting/key factors heading.
func factors(text string) []string {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, "supporting factors")
	if idx < 0 {
		idx = strings.Index(lower, "key factors")
	}
	if idx < 0 {
		return nil
	}

	var out []string
	for _, line := range strings.Split(text[idx:], "\n")[1:] {
		m := factorLineRe.FindStringSubmatch(line)
		if m == nil {
			if strings.TrimSpace(line) == "" && len(out) > 0 {
				break
			}
			if strings.TrimSpace(line) != "" {
				break
			}
			continue
		}
		out = append(out, m[1])
	}
	return out
}

func afterHeader(text string) string {
	idx := strings.Index(text, Header)
	if idx < 0 {
		return strings.TrimSpace(text)
	}
	rest := text[idx:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		return strings.TrimSpace(rest[nl+1:])
	}
	return ""
}
