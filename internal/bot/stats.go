package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vuongtx/thuchi-bot/internal/model"
	"github.com/vuongtx/thuchi-bot/internal/service"
	"github.com/vuongtx/thuchi-bot/internal/vndate"
)

// buildStatistics aggregates ledger records into period totals.
func buildStatistics(records []model.TransactionRecord, start, end time.Time) *service.Statistics {
	stats := &service.Statistics{
		IncomeByCategory:  make(map[string]int64),
		ExpenseByCategory: make(map[string]int64),
		Start:             start,
		End:               end,
	}

	for _, record := range records {
		switch record.Direction {
		case model.DirectionIncome:
			stats.TotalIncome += record.Amount
			stats.IncomeByCategory[record.Category] += record.Amount
		case model.DirectionExpense:
			stats.TotalExpense += record.Amount
			stats.ExpenseByCategory[record.Category] += record.Amount
		default:
			continue
		}
		stats.TransactionCount++
	}

	return stats
}

// categoryEntry pairs a category name with its period total.
type categoryEntry struct {
	Name   string
	Amount int64
}

// sortedByAmount returns the map entries ordered by descending amount,
// ties broken by name so rendering is deterministic.
func sortedByAmount(byCategory map[string]int64) []categoryEntry {
	entries := make([]categoryEntry, 0, len(byCategory))
	for name, amount := range byCategory {
		entries = append(entries, categoryEntry{Name: name, Amount: amount})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount > entries[j].Amount
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// lookupCategory finds a stored category matching the requested name by
// bidirectional substring match. Stored names are scanned in sorted
// order so the first match is deterministic.
func lookupCategory(byCategory map[string]int64, requested string) (string, int64, bool) {
	want := strings.ToLower(strings.TrimSpace(requested))
	if want == "" {
		return "", 0, false
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		have := strings.ToLower(name)
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return name, byCategory[name], true
		}
	}
	return "", 0, false
}

// periodName describes a resolved period for reply headers.
func periodName(period, specific string, start, end time.Time) string {
	switch period {
	case model.PeriodCustom:
		return fmt.Sprintf("từ %s đến %s", start.Format("02/01"), end.Format("02/01"))
	case model.PeriodDay:
		switch specific {
		case "":
			return "hôm nay"
		case "hôm qua", "ngày hôm qua":
			return fmt.Sprintf("hôm qua (%s)", start.Format("02/01/2006"))
		case "hôm kia", "ngày hôm kia":
			return fmt.Sprintf("hôm kia (%s)", start.Format("02/01/2006"))
		default:
			return fmt.Sprintf("ngày %s", start.Format("02/01/2006"))
		}
	case model.PeriodWeek:
		if specific == model.ValuePrevWeek {
			return "tuần trước"
		}
		return "tuần này"
	case model.PeriodMonth:
		if specific == model.ValuePrevMonth {
			return "tháng trước"
		}
		if specific != "" {
			return fmt.Sprintf("tháng %s", specific)
		}
		return "tháng này"
	case model.PeriodYear:
		return "năm này"
	}
	return "khoảng thời gian"
}

// renderStats builds the overall statistics reply.
func renderStats(stats *service.Statistics, period, specific, sheetURL string) string {
	name := periodName(period, specific, stats.Start, stats.End)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 THỐNG KÊ %s\n", strings.ToUpper(name))
	fmt.Fprintf(&b, "📅 %s - %s\n\n", stats.Start.Format("02/01/2006"), stats.End.Format("02/01/2006"))
	fmt.Fprintf(&b, "💰 Tổng thu: %s\n", formatCurrency(stats.TotalIncome))
	fmt.Fprintf(&b, "💸 Tổng chi: %s\n", formatCurrency(stats.TotalExpense))
	balanceIcon := "💵"
	if stats.Balance() < 0 {
		balanceIcon = "⚠️"
	}
	fmt.Fprintf(&b, "%s Số dư: %s\n", balanceIcon, formatCurrency(stats.Balance()))
	fmt.Fprintf(&b, "📝 Giao dịch: %d\n\n", stats.TransactionCount)
	fmt.Fprintf(&b, "🔗 Xem chi tiết: %s", sheetURL)
	return b.String()
}

// renderCategoryBreakdown builds the all-category analysis reply.
func renderCategoryBreakdown(stats *service.Statistics, sheetURL string) string {
	if stats.TransactionCount == 0 {
		return "📊 **THỐNG KÊ THEO DANH MỤC**\n\n" +
			"📭 Không có giao dịch nào trong khoảng thời gian này.\n\n" +
			"💡 Hãy thêm giao dịch đầu tiên!"
	}

	var b strings.Builder
	b.WriteString("📊 **THỐNG KÊ THEO DANH MỤC**\n\n")
	fmt.Fprintf(&b, "💰 Tổng thu: %s\n", formatCurrency(stats.TotalIncome))
	fmt.Fprintf(&b, "💸 Tổng chi: %s\n", formatCurrency(stats.TotalExpense))
	balanceIcon := "💵"
	if stats.Balance() < 0 {
		balanceIcon = "⚠️"
	}
	fmt.Fprintf(&b, "%s Số dư: %s\n", balanceIcon, formatCurrency(stats.Balance()))
	fmt.Fprintf(&b, "📝 Số giao dịch: %d\n\n", stats.TransactionCount)

	if expenses := sortedByAmount(stats.ExpenseByCategory); len(expenses) > 0 {
		b.WriteString("💸 **PHÂN TÍCH CHI TIÊU:**\n")
		for i, entry := range expenses {
			pct := percentOf(entry.Amount, stats.TotalExpense)
			fmt.Fprintf(&b, "  %d. %s\n", i+1, entry.Name)
			fmt.Fprintf(&b, "     💰 %s (%.1f%%)\n", formatCurrency(entry.Amount), pct)
			fmt.Fprintf(&b, "     📊 %s\n\n", progressBar(pct))
		}
	}

	if income := sortedByAmount(stats.IncomeByCategory); len(income) > 0 {
		b.WriteString("💰 **PHÂN TÍCH THU NHẬP:**\n")
		for i, entry := range income {
			pct := percentOf(entry.Amount, stats.TotalIncome)
			fmt.Fprintf(&b, "  %d. %s\n", i+1, entry.Name)
			fmt.Fprintf(&b, "     💰 %s (%.1f%%)\n", formatCurrency(entry.Amount), pct)
			fmt.Fprintf(&b, "     📊 %s\n\n", progressBar(pct))
		}
	}

	if expenses := sortedByAmount(stats.ExpenseByCategory); len(expenses) > 0 {
		top := expenses[0]
		b.WriteString("🎯 **Nhận xét:**\n")
		fmt.Fprintf(&b, "• Danh mục chi nhiều nhất: %s\n", top.Name)
		fmt.Fprintf(&b, "• Chiếm %.1f%% tổng chi tiêu\n", percentOf(top.Amount, stats.TotalExpense))
	}

	fmt.Fprintf(&b, "\n🔗 Xem chi tiết: %s", sheetURL)
	return b.String()
}

var medals = []string{"🥇", "🥈", "🥉", "4️⃣", "5️⃣"}

// renderTopExpenses builds the top-5 expense ranking reply.
func renderTopExpenses(stats *service.Statistics) string {
	expenses := sortedByAmount(stats.ExpenseByCategory)
	if len(expenses) == 0 {
		return "📊 **TOP CHI TIÊU**\n\n" +
			"📭 Chưa có chi tiêu nào trong khoảng thời gian này!"
	}

	var b strings.Builder
	b.WriteString("🔥 **TOP CHI TIÊU**\n\n")
	fmt.Fprintf(&b, "💸 Tổng chi tiêu: %s\n\n", formatCurrency(stats.TotalExpense))

	limit := len(expenses)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		entry := expenses[i]
		pct := percentOf(entry.Amount, stats.TotalExpense)
		fmt.Fprintf(&b, "%s **%s**\n", medals[i], entry.Name)
		fmt.Fprintf(&b, "   💰 %s (%.1f%%)\n", formatCurrency(entry.Amount), pct)
		fmt.Fprintf(&b, "   📊 %s\n\n", progressBar(pct))
	}

	if len(expenses) > 5 {
		fmt.Fprintf(&b, "💡 Còn %d danh mục khác", len(expenses)-5)
	}
	return strings.TrimSpace(b.String())
}

// renderSingleCategory builds the per-category drilldown reply.
func renderSingleCategory(stats *service.Statistics, requested, sheetURL string) string {
	expenseName, expenseAmount, foundExpense := lookupCategory(stats.ExpenseByCategory, requested)
	incomeName, incomeAmount, foundIncome := lookupCategory(stats.IncomeByCategory, requested)

	if !foundExpense && !foundIncome {
		return fmt.Sprintf("📊 **THỐNG KÊ %s**\n\n"+
			"❌ Không tìm thấy danh mục '%s' trong khoảng thời gian này.\n\n"+
			"💡 Dùng lệnh 'danh mục' để xem tất cả danh mục hiện có.",
			strings.ToUpper(requested), requested)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **THỐNG KÊ %s**\n\n", strings.ToUpper(requested))

	if foundExpense {
		pct := percentOf(expenseAmount, stats.TotalExpense)
		fmt.Fprintf(&b, "💸 **Chi tiêu %s:**\n", expenseName)
		fmt.Fprintf(&b, "   💰 %s\n", formatCurrency(expenseAmount))
		fmt.Fprintf(&b, "   📊 %.1f%% tổng chi tiêu\n", pct)

		rank := sortedByAmount(stats.ExpenseByCategory)
		for i, entry := range rank {
			if entry.Name == expenseName {
				fmt.Fprintf(&b, "   🏆 Xếp hạng: #%d/%d\n\n", i+1, len(rank))
				break
			}
		}

		switch {
		case pct > 30:
			b.WriteString("⚠️ **Nhận xét:** Danh mục này chiếm tỷ trọng cao!\n")
		case pct < 5:
			b.WriteString("✅ **Nhận xét:** Chi tiêu hợp lý cho danh mục này.\n")
		default:
			b.WriteString("📈 **Nhận xét:** Mức chi tiêu bình thường.\n")
		}
	}

	if foundIncome {
		pct := percentOf(incomeAmount, stats.TotalIncome)
		fmt.Fprintf(&b, "💰 **Thu nhập %s:**\n", incomeName)
		fmt.Fprintf(&b, "   💰 %s\n", formatCurrency(incomeAmount))
		fmt.Fprintf(&b, "   📊 %.1f%% tổng thu nhập\n\n", pct)
	}

	fmt.Fprintf(&b, "\n🔗 Xem chi tiết: %s", sheetURL)
	return b.String()
}

// renderCategoryList builds the category listing reply.
func renderCategoryList(categories service.CategorySet, sheetURL string) string {
	if len(categories.Income) == 0 && len(categories.Expense) == 0 {
		return "📂 Chưa có danh mục nào!\n\n" +
			"Hãy thêm giao dịch đầu tiên để tạo danh mục."
	}

	var b strings.Builder
	b.WriteString("📂 DANH MỤC HIỆN CÓ:\n\n")

	if len(categories.Income) > 0 {
		b.WriteString("💰 **DANH MỤC THU:**\n")
		for i, category := range categories.Income {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, category)
		}
		b.WriteString("\n")
	}

	if len(categories.Expense) > 0 {
		b.WriteString("💸 **DANH MỤC CHI:**\n")
		for i, category := range categories.Expense {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, category)
		}
	}

	total := len(categories.Income) + len(categories.Expense)
	b.WriteString("\n📊 **Tổng quan:**\n")
	fmt.Fprintf(&b, "• Tổng danh mục: %d\n", total)
	fmt.Fprintf(&b, "• Danh mục thu: %d\n", len(categories.Income))
	fmt.Fprintf(&b, "• Danh mục chi: %d\n", len(categories.Expense))

	b.WriteString("\n💡 **Gợi ý:** Dùng lệnh thống kê để xem chi tiết theo danh mục:\n")
	b.WriteString("• \"thống kê tháng này\"\n")
	b.WriteString("• \"thống kê tuần này\"\n")

	fmt.Fprintf(&b, "\n🔗 Xem chi tiết: %s", sheetURL)
	return b.String()
}

// resolveStatsRange resolves a stats request to a concrete window.
func resolveStatsRange(data model.StatsData, now time.Time) (time.Time, time.Time) {
	return vndate.ResolveRange(data.Period, data.SpecificValue, now)
}
