// Package bot dispatches classified messages: it records transactions,
// answers statistics queries, and formats every user-facing reply.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vuongtx/thuchi-bot/internal/model"
	"github.com/vuongtx/thuchi-bot/internal/service"
	"github.com/vuongtx/thuchi-bot/internal/vndate"
)

// Dispatcher routes one inbound message through classification and
// executes the resulting intent. Every failure path ends in a
// pre-formatted reply; no raw error ever reaches the user.
type Dispatcher struct {
	gateway    service.Gateway
	ledger     service.Ledger
	classifier service.Classifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewDispatcher wires the dispatcher. classifier is expected to be a
// total chain that never declines.
func NewDispatcher(gateway service.Gateway, ledger service.Ledger, classifier service.Classifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		gateway:    gateway,
		ledger:     ledger,
		classifier: classifier,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle processes one inbound message end to end.
func (d *Dispatcher) Handle(ctx context.Context, msg service.Message) error {
	if err := d.gateway.SendTyping(ctx, msg.ChatID); err != nil {
		d.logger.Debug("typing indicator failed", "error", err)
	}

	result, err := d.classifier.Classify(ctx, msg.Text)
	if err != nil || result == nil {
		d.logger.Error("classification chain returned no result", "error", err)
		return d.reply(ctx, msg, replyProcessingError)
	}

	d.logger.Info("message classified",
		"user", msg.UserID,
		"intent", result.Intent,
		"confidence", result.Confidence)

	if result.Intent == model.IntentHelpGuide {
		return d.handleHelpGuide(ctx, msg, result)
	}

	// Low-confidence results are dropped without side effects.
	if !result.Actionable() {
		d.logger.Info("ignoring low-confidence result",
			"user", msg.UserID, "confidence", result.Confidence)
		return nil
	}

	switch result.Intent {
	case model.IntentExpense:
		data, ok := result.Data.(model.TransactionData)
		if !ok {
			return d.badPayload(ctx, msg, result)
		}
		return d.handleTransaction(ctx, msg, data, model.DirectionExpense)
	case model.IntentIncome:
		data, ok := result.Data.(model.TransactionData)
		if !ok {
			return d.badPayload(ctx, msg, result)
		}
		return d.handleTransaction(ctx, msg, data, model.DirectionIncome)
	case model.IntentMultipleExpenses:
		data, ok := result.Data.(model.MultiTransactionData)
		if !ok {
			return d.badPayload(ctx, msg, result)
		}
		return d.handleBatch(ctx, msg, data)
	case model.IntentLending, model.IntentBorrowing:
		data, ok := result.Data.(model.LoanData)
		if !ok {
			return d.badPayload(ctx, msg, result)
		}
		return d.handleLoan(ctx, msg, result.Intent, data)
	case model.IntentStats:
		data, ok := result.Data.(model.StatsData)
		if !ok {
			return d.badPayload(ctx, msg, result)
		}
		return d.handleStats(ctx, msg, data)
	case model.IntentCategoryStats:
		data, ok := result.Data.(model.StatsData)
		if !ok {
			return d.badPayload(ctx, msg, result)
		}
		return d.handleCategoryStats(ctx, msg, data)
	case model.IntentCategoryList:
		return d.handleCategoryList(ctx, msg)
	case model.IntentHelp:
		return d.reply(ctx, msg, helpReply)
	}

	d.logger.Info("unsupported intent ignored", "intent", result.Intent)
	return nil
}

func (d *Dispatcher) handleHelpGuide(ctx context.Context, msg service.Message, result *model.ClassificationResult) error {
	text := helpGuideReply(msg.DisplayName)
	if fallback, ok := result.Data.(model.FallbackData); ok && fallback.Degraded {
		text = degradedNotice + text
	}
	return d.reply(ctx, msg, text)
}

func (d *Dispatcher) handleTransaction(ctx context.Context, msg service.Message, data model.TransactionData, direction model.Direction) error {
	if data.Amount <= 0 {
		if direction == model.DirectionIncome {
			return d.reply(ctx, msg, replyAmountClarification("5m lương tháng này", "1tr thưởng dự án"))
		}
		return d.reply(ctx, msg, replyAmountClarification("500k trà sữa", "200k đổ xăng"))
	}

	description := data.Description
	if description == "" {
		if direction == model.DirectionIncome {
			description = "thu nhập"
		} else {
			description = "chi tiêu"
		}
	}

	timestamp, backdated := d.resolveTimestamp(data.CustomDate)
	record := model.TransactionRecord{
		Timestamp: timestamp,
		Direction: direction,
		Amount:    data.Amount,
		Category:  model.NormalizeCategory(data.Category, direction),
		Note:      description,
		User:      d.userName(msg),
	}

	if err := d.ledger.Append(ctx, d.userName(msg), record); err != nil {
		d.logger.Error("ledger append failed", "error", err, "user", msg.UserID)
		return d.reply(ctx, msg, replySaveError)
	}

	kind, icon := "khoản chi", "💸"
	if direction == model.DirectionIncome {
		kind, icon = "khoản thu", "💰"
	}

	return d.reply(ctx, msg, transactionReply{
		recordedAt: d.now(),
		timestamp:  timestamp,
		kind:       kind,
		amountIcon: icon,
		category:   record.Category,
		note:       description,
		userName:   d.userName(msg),
		sheetURL:   d.ledger.SheetURL(d.userName(msg)),
		backdated:  backdated,
		aiAssisted: true,
	}.render(data.Amount))
}

func (d *Dispatcher) handleLoan(ctx context.Context, msg service.Message, intent model.Intent, data model.LoanData) error {
	if data.Amount <= 0 {
		if intent == model.IntentLending {
			return d.reply(ctx, msg, replyAmountClarification("cho An vay 2tr", "cho bạn vay 1m"))
		}
		return d.reply(ctx, msg, replyAmountClarification("vay anh Nam 1tr", "mượn bạn 500k"))
	}

	// Lending leaves the wallet, borrowing enters it.
	direction := model.DirectionExpense
	category := model.CategoryLending
	kind, icon, personTag, noteTag := "khoản cho vay", "💸", "Cho vay", "cho"
	if intent == model.IntentBorrowing {
		direction = model.DirectionIncome
		category = model.CategoryBorrowing
		kind, icon, personTag, noteTag = "khoản đi vay", "💰", "Vay từ", "từ"
	}

	description := data.Description
	if description == "" {
		if intent == model.IntentLending {
			description = "cho vay"
		} else {
			description = "đi vay"
		}
	}

	timestamp, backdated := d.resolveTimestamp(data.CustomDate)
	record := model.TransactionRecord{
		Timestamp: timestamp,
		Direction: direction,
		Amount:    data.Amount,
		Category:  category,
		Note:      fmt.Sprintf("%s (%s %s)", description, noteTag, data.Person),
		User:      d.userName(msg),
	}

	if err := d.ledger.Append(ctx, d.userName(msg), record); err != nil {
		d.logger.Error("ledger append failed", "error", err, "user", msg.UserID)
		return d.reply(ctx, msg, replySaveError)
	}

	return d.reply(ctx, msg, transactionReply{
		recordedAt: d.now(),
		timestamp:  timestamp,
		kind:       kind,
		amountIcon: icon,
		category:   category,
		note:       description,
		personTag:  personTag,
		person:     data.Person,
		userName:   d.userName(msg),
		sheetURL:   d.ledger.SheetURL(d.userName(msg)),
		backdated:  backdated,
	}.render(data.Amount))
}

func (d *Dispatcher) handleBatch(ctx context.Context, msg service.Message, data model.MultiTransactionData) error {
	if len(data.Transactions) == 0 {
		return d.reply(ctx, msg, replyEmptyBatch)
	}

	var succeeded []model.TransactionData
	failedCount := 0
	var firstTimestamp time.Time
	backdated := false

	// Entries are appended in extraction order; one failure does not
	// abort the rest of the batch.
	for _, txn := range data.Transactions {
		if txn.Amount <= 0 || txn.Description == "" {
			failedCount++
			continue
		}

		timestamp, wasBackdated := d.resolveTimestamp(txn.CustomDate)
		record := model.TransactionRecord{
			Timestamp: timestamp,
			Direction: model.DirectionExpense,
			Amount:    txn.Amount,
			Category:  model.NormalizeCategory(txn.Category, model.DirectionExpense),
			Note:      txn.Description,
			User:      d.userName(msg),
		}

		if err := d.ledger.Append(ctx, d.userName(msg), record); err != nil {
			d.logger.Error("batch entry append failed",
				"error", err, "user", msg.UserID, "description", txn.Description)
			failedCount++
			continue
		}

		if len(succeeded) == 0 {
			firstTimestamp = timestamp
			backdated = wasBackdated
		}
		txn.Category = record.Category
		succeeded = append(succeeded, txn)
	}

	if len(succeeded) == 0 {
		return d.reply(ctx, msg, replyBatchAllFailed)
	}

	return d.reply(ctx, msg, batchReply(succeeded, failedCount, d.now(), firstTimestamp, backdated, d.userName(msg), d.ledger.SheetURL(d.userName(msg))))
}

func (d *Dispatcher) handleStats(ctx context.Context, msg service.Message, data model.StatsData) error {
	start, end := resolveStatsRange(data, d.now())

	records, err := d.ledger.List(ctx, d.userName(msg), start, end)
	if err != nil {
		d.logger.Error("ledger list failed", "error", err, "user", msg.UserID)
		return d.reply(ctx, msg, replyStatsError)
	}

	stats := buildStatistics(records, start, end)
	return d.reply(ctx, msg, renderStats(stats, data.Period, data.SpecificValue, d.ledger.SheetURL(d.userName(msg))))
}

func (d *Dispatcher) handleCategoryStats(ctx context.Context, msg service.Message, data model.StatsData) error {
	start, end := resolveStatsRange(data, d.now())

	records, err := d.ledger.List(ctx, d.userName(msg), start, end)
	if err != nil {
		d.logger.Error("ledger list failed", "error", err, "user", msg.UserID)
		return d.reply(ctx, msg, replyStatsError)
	}

	stats := buildStatistics(records, start, end)
	sheetURL := d.ledger.SheetURL(d.userName(msg))

	switch {
	case data.CategoryName == "":
		return d.reply(ctx, msg, renderCategoryBreakdown(stats, sheetURL))
	case isTopExpensesRequest(data.CategoryName):
		return d.reply(ctx, msg, renderTopExpenses(stats))
	default:
		return d.reply(ctx, msg, renderSingleCategory(stats, data.CategoryName, sheetURL))
	}
}

func (d *Dispatcher) handleCategoryList(ctx context.Context, msg service.Message) error {
	categories, err := d.ledger.Categories(ctx, d.userName(msg))
	if err != nil {
		d.logger.Error("category listing failed", "error", err, "user", msg.UserID)
		return d.reply(ctx, msg, replyProcessingError)
	}
	return d.reply(ctx, msg, renderCategoryList(categories, d.ledger.SheetURL(d.userName(msg))))
}

// resolveTimestamp turns a relative date expression into a concrete
// timestamp. Unrecognized expressions fall back to the current time
// with a warning.
func (d *Dispatcher) resolveTimestamp(customDate string) (time.Time, bool) {
	if customDate == "" {
		return d.now(), false
	}
	resolved, ok := vndate.ResolveDate(customDate, d.now())
	if !ok {
		d.logger.Warn("unrecognized date expression", "expression", customDate)
		return d.now(), false
	}
	return resolved, true
}

func (d *Dispatcher) badPayload(ctx context.Context, msg service.Message, result *model.ClassificationResult) error {
	d.logger.Error("intent payload has unexpected shape",
		"intent", result.Intent, "payload", fmt.Sprintf("%T", result.Data))
	return d.reply(ctx, msg, replyProcessingError)
}

func (d *Dispatcher) reply(ctx context.Context, msg service.Message, text string) error {
	if err := d.gateway.Reply(ctx, msg.ChatID, text); err != nil {
		d.logger.Error("reply failed", "error", err, "chat", msg.ChatID)
		return err
	}
	return nil
}

// userName picks the ledger identity for a message: the display name
// when present, otherwise the raw user ID.
func (d *Dispatcher) userName(msg service.Message) string {
	if msg.DisplayName != "" {
		return msg.DisplayName
	}
	return msg.UserID
}

func isTopExpensesRequest(categoryName string) bool {
	return strings.ToLower(strings.TrimSpace(categoryName)) == "top chi tiêu"
}
