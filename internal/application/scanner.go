package application

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"go.uber.org/zap"
)

// MissPolicy says what a caller does when a target is not found.
type MissPolicy int

const (
	FailClosed MissPolicy = iota
	FailOpen
)

func (p MissPolicy) String() string {
	if p == FailOpen {
		return "fail-open"
	}
	return "fail-closed"
}

// TextScan matches elements by visible text. Every keyword group must match,
// and a group matches when any of its alternatives is a case-insensitive
// substring of the text.
type TextScan struct {
	Candidates string
	Keywords   [][]string
	// MaxTextLen skips elements with longer text when > 0. It keeps a wrapping
	// container from matching before the control itself.
	MaxTextLen int
}

func (s TextScan) empty() bool {
	return s.Candidates == "" || len(s.Keywords) == 0
}

func (s TextScan) Matches(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return false
	}
	if s.MaxTextLen > 0 && utf8.RuneCountInString(text) > s.MaxTextLen {
		return false
	}

	for _, group := range s.Keywords {
		matched := false
		for _, alternative := range group {
			if alternative != "" && strings.Contains(text, strings.ToLower(alternative)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Target describes one logical control: the structured selectors tried first,
// then the exhaustive text scan.
type Target struct {
	Name      string
	Selectors []string
	Scan      TextScan
	Policy    MissPolicy
}

type Match struct {
	Element ports.Element
	Tier    int
	// Via is the selector (tier 1) or the matched text (tier 2).
	Via string
}

type Scanner struct {
	logger *zap.Logger
}

func NewScanner(logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scanner{logger: logger.Named("scanner")}
}

// Find runs both discovery tiers in order and returns the first hit. It wraps
// domain.ErrElementNotFound when neither tier matches.
func (s *Scanner) Find(ctx context.Context, page ports.Page, target Target) (Match, error) {
	if err := ctx.Err(); err != nil {
		return Match{}, err
	}

	for _, selector := range target.Selectors {
		element, err := page.Query(ctx, selector)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Match{}, ctxErr
			}
			s.logger.Debug("selector probe failed", zap.String("target", target.Name), zap.String("selector", selector), zap.Error(err))
			continue
		}
		if element != nil {
			s.logger.Debug("target found", zap.String("target", target.Name), zap.Int("tier", 1), zap.String("selector", selector))
			return Match{Element: element, Tier: 1, Via: selector}, nil
		}
	}

	if !target.Scan.empty() {
		match, found, err := s.scan(ctx, page, target)
		if err != nil {
			return Match{}, err
		}
		if found {
			return match, nil
		}
	}

	return Match{}, fmt.Errorf("find %s: %w", target.Name, domain.ErrElementNotFound)
}

func (s *Scanner) scan(ctx context.Context, page ports.Page, target Target) (Match, bool, error) {
	texts, err := page.QueryTexts(ctx, target.Scan.Candidates)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Match{}, false, ctxErr
		}
		s.logger.Debug("text scan failed", zap.String("target", target.Name), zap.Error(err))
		return Match{}, false, nil
	}

	for index, text := range texts {
		if !target.Scan.Matches(text) {
			continue
		}

		element, err := page.QueryNth(ctx, target.Scan.Candidates, index)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Match{}, false, ctxErr
			}
			s.logger.Debug("scan candidate vanished", zap.String("target", target.Name), zap.Int("index", index), zap.Error(err))
			continue
		}
		if element == nil {
			continue
		}

		matched := strings.TrimSpace(text)
		s.logger.Debug("target found", zap.String("target", target.Name), zap.Int("tier", 2), zap.String("text", matched))
		return Match{Element: element, Tier: 2, Via: matched}, true, nil
	}

	return Match{}, false, nil
}

// Exists reports whether any of selectors matches an element.
func (s *Scanner) Exists(ctx context.Context, page ports.Page, selectors ...string) (bool, error) {
	for _, selector := range selectors {
		element, err := page.Query(ctx, selector)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, ctxErr
			}
			continue
		}
		if element != nil {
			return true, nil
		}
	}

	return false, nil
}
