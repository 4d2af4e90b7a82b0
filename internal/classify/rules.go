// Package classify implements the rule-based fast path, the degraded
// fallback, and the ordered handler chain that ties the classifiers
// together.
package classify

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/vuongtx/thuchi-bot/internal/model"
	"github.com/vuongtx/thuchi-bot/internal/vndate"
)

// Rule-match confidences are fixed above the actionability gate: the fast
// path only fires on unambiguous single-item patterns.
const (
	ruleTransactionConfidence = 0.85
	ruleStatsConfidence       = 0.8
)

// disqualifiers force escalation to the AI classifier: anything hinting
// at multiple items, custom dates, or ranges never matches the fast path.
var disqualifiers = []string{
	",", " và ", "hôm qua", "hôm kia", "ngày", "/", "từ", "đến",
	"tuần trước", "tháng trước",
}

var incomeKeywords = []string{"lương", "thưởng", "thu", "nhận", "được", "tiền lương"}

// Unit letters accept both cases; the patterns run against the
// original message so descriptions keep their casing.
var (
	amountTokenPattern   = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*([kmKM])`)
	expenseClausePattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*([kmKM])\s*([\p{L}\p{N}\s]+)`)
)

// keyword tables for the lightweight category lookup.
var (
	foodWords      = []string{"bún", "phở", "cơm", "bánh", "trà sữa", "cà phê", "nướng", "lẩu", "gà", "thịt"}
	transportWords = []string{"xăng", "taxi", "grab", "xe ôm", "gửi xe"}
	shoppingWords  = []string{"áo", "giày", "laptop", "điện thoại", "mỹ phẩm"}

	salaryWords   = []string{"lương", "tiền lương"}
	bonusWords    = []string{"thưởng", "bonus"}
	businessWords = []string{"bán", "kinh doanh"}
)

// RuleClassifier recognizes simple single-transaction messages without
// invoking the completion engine.
type RuleClassifier struct {
	logger *slog.Logger
}

// NewRuleClassifier creates the fast-path classifier.
func NewRuleClassifier(logger *slog.Logger) *RuleClassifier {
	return &RuleClassifier{logger: logger}
}

// Classify returns a result for high-confidence single-item patterns and
// declines (nil, nil) on anything ambiguous.
func (r *RuleClassifier) Classify(_ context.Context, message string) (*model.ClassificationResult, error) {
	lower := strings.ToLower(message)

	for _, marker := range disqualifiers {
		if strings.Contains(lower, marker) {
			return nil, nil
		}
	}

	// Income keywords take priority so "nhận 500k" is never misread as
	// an expense.
	if containsAny(lower, incomeKeywords) {
		if result := r.matchIncome(lower, message); result != nil {
			r.logger.Debug("fast path matched", "intent", result.Intent)
			return result, nil
		}
	} else if result := r.matchExpense(lower, message); result != nil {
		r.logger.Debug("fast path matched", "intent", result.Intent)
		return result, nil
	}

	if result := r.matchStats(lower); result != nil {
		r.logger.Debug("fast path matched", "intent", result.Intent)
		return result, nil
	}

	return nil, nil
}

func (r *RuleClassifier) matchExpense(lower, message string) *model.ClassificationResult {
	match := expenseClausePattern.FindStringSubmatch(message)
	if match == nil {
		return nil
	}

	amount, err := vndate.ParseAmount(match[1] + match[2])
	if err != nil {
		return nil
	}

	category := model.CategoryOther
	switch {
	case containsAny(lower, foodWords):
		category = "Ăn uống"
	case containsAny(lower, transportWords):
		category = "Di chuyển"
	case containsAny(lower, shoppingWords):
		category = "Mua sắm"
	}

	return &model.ClassificationResult{
		Intent:     model.IntentExpense,
		Confidence: ruleTransactionConfidence,
		Data: model.TransactionData{
			Amount:      amount,
			Description: strings.TrimSpace(match[3]),
			Category:    category,
		},
	}
}

func (r *RuleClassifier) matchIncome(lower, message string) *model.ClassificationResult {
	match := amountTokenPattern.FindStringSubmatch(message)
	if match == nil {
		return nil
	}

	amount, err := vndate.ParseAmount(match[1] + match[2])
	if err != nil {
		return nil
	}

	category := model.CategoryOther
	switch {
	case containsAny(lower, salaryWords):
		category = "Lương"
	case containsAny(lower, bonusWords):
		category = "Thưởng"
	case containsAny(lower, businessWords):
		category = "Kinh doanh"
	}

	return &model.ClassificationResult{
		Intent:     model.IntentIncome,
		Confidence: ruleTransactionConfidence,
		Data: model.TransactionData{
			Amount:      amount,
			Description: strings.TrimSpace(message),
			Category:    category,
		},
	}
}

func (r *RuleClassifier) matchStats(lower string) *model.ClassificationResult {
	if !strings.Contains(lower, "thống kê") && !strings.Contains(lower, "báo cáo") {
		return nil
	}

	period := model.PeriodMonth
	if strings.Contains(lower, "hôm nay") {
		period = model.PeriodDay
	} else if strings.Contains(lower, "tuần") {
		period = model.PeriodWeek
	}

	return &model.ClassificationResult{
		Intent:     model.IntentStats,
		Confidence: ruleStatsConfidence,
		Data:       model.StatsData{Period: period},
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
