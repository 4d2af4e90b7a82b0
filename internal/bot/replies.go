package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/vuongtx/thuchi-bot/internal/model"
)

const (
	replyTimeFormat = "15:04 02/01/2006"
	dayFormat       = "02/01/2006"
)

const replyProcessingError = "🚫 Có lỗi xảy ra khi xử lý yêu cầu. Vui lòng thử lại!"

const replySaveError = "🚫 Có lỗi khi lưu dữ liệu. Vui lòng thử lại!"

const replyStatsError = "🚫 Có lỗi khi tạo thống kê. Vui lòng thử lại!"

func replyAmountClarification(example1, example2 string) string {
	return "🤔 Tôi không thấy số tiền rõ ràng. Bạn có thể nói cụ thể hơn không?\n\n" +
		fmt.Sprintf("💡 Ví dụ: '%s' hoặc '%s'", example1, example2)
}

const replyEmptyBatch = "🤔 Tôi không thể tách được các khoản chi. Bạn có thể ghi từng khoản riêng được không?\n\n" +
	"💡 Ví dụ: Gửi 3 tin nhắn riêng:\n• '32k bún gà'\n• '1.5m laptop'\n• '200k xăng'"

const replyBatchAllFailed = "❌ Không thể ghi nhận khoản chi nào. Vui lòng thử lại!"

// degradedNotice prefixes the help guide when the language engine is
// unavailable and only explicit syntax will work.
const degradedNotice = "⚠️ AI tạm thời không khả dụng. Bạn vẫn có thể ghi chép bằng cú pháp rõ ràng như \"500k trà sữa\".\n\n"

// transactionReply renders the confirmation for one recorded
// transaction.kind is the noun in the header ("khoản chi", "khoản thu",
// "khoản cho vay", "khoản đi vay").
type transactionReply struct {
	recordedAt time.Time
	timestamp  time.Time
	kind       string
	amountIcon string
	category   string
	note       string
	personTag  string
	person     string
	userName   string
	sheetURL   string
	backdated  bool
	aiAssisted bool
}

func (r transactionReply) render(amount int64) string {
	recorded := r.recordedAt.Format(replyTimeFormat)

	dateInfo := fmt.Sprintf("📅 Thời gian: %s", recorded)
	if r.backdated {
		dateInfo = fmt.Sprintf("📅 Ngày: %s (ghi lúc %s)", r.timestamp.Format(dayFormat), recorded)
	}

	categoryLine := r.category
	if r.aiAssisted {
		categoryLine += " 🤖"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Đã ghi nhận %s vào %s!\n\n", r.kind, recorded)
	fmt.Fprintf(&b, "%s Số tiền: %s\n", r.amountIcon, formatCurrency(amount))
	fmt.Fprintf(&b, "📂 Danh mục: %s\n", categoryLine)
	if r.person != "" {
		fmt.Fprintf(&b, "👥 %s: %s\n", r.personTag, r.person)
	}
	fmt.Fprintf(&b, "📝 Ghi chú: %s\n", r.note)
	fmt.Fprintf(&b, "%s\n", dateInfo)
	fmt.Fprintf(&b, "👤 Người dùng: %s\n\n", r.userName)
	fmt.Fprintf(&b, "🔗 Xem chi tiết: %s", r.sheetURL)
	return b.String()
}

// batchReply renders the partial-success summary for a multi-expense
// message.
func batchReply(succeeded []model.TransactionData, failedCount int, recordedAt, firstTimestamp time.Time, backdated bool, userName, sheetURL string) string {
	recorded := recordedAt.Format(replyTimeFormat)

	headerDate := recordedAt.Format(dayFormat)
	dateInfo := fmt.Sprintf("📅 Thời gian: %s", recorded)
	if backdated {
		headerDate = firstTimestamp.Format(dayFormat)
		dateInfo = fmt.Sprintf("📅 Ngày: %s (ghi lúc %s)", headerDate, recorded)
	}

	var total int64
	var b strings.Builder
	fmt.Fprintf(&b, "✅ **Đã ghi nhận %d khoản chi vào %s!**\n\n", len(succeeded), headerDate)
	for i, txn := range succeeded {
		total += txn.Amount
		fmt.Fprintf(&b, "%d. 💸 %s\n", i+1, formatCurrency(txn.Amount))
		fmt.Fprintf(&b, "   📂 %s\n", txn.Category)
		fmt.Fprintf(&b, "   📝 %s\n\n", txn.Description)
	}
	fmt.Fprintf(&b, "💰 **Tổng cộng:** %s\n", formatCurrency(total))
	fmt.Fprintf(&b, "%s\n", dateInfo)
	fmt.Fprintf(&b, "👤 **Người dùng:** %s\n\n", userName)
	fmt.Fprintf(&b, "🔗 **Xem chi tiết:** %s", sheetURL)

	if failedCount > 0 {
		fmt.Fprintf(&b, "\n\n⚠️ **Có %d khoản thất bại, vui lòng thử lại!**", failedCount)
	}
	return b.String()
}

func helpGuideReply(displayName string) string {
	name := displayName
	if name == "" {
		name = "bạn"
	}
	return fmt.Sprintf(`👋 Xin chào %s!

🤖 **Tôi là Bot Quản Lý Thu Chi AI - chỉ hỗ trợ về tài chính:**

💸 **VÍ DỤ CHI TIÊU:**
• "500k trà sữa" → Ăn uống
• "hôm qua 200k xăng" → Di chuyển (ngày cụ thể)
• "bún 50k, laptop 1.5m" → Tự tách 2 giao dịch

💰 **VÍ DỤ THU NHẬP:**
• "5m lương" → Lương
• "nhận 1tr thưởng" → Thưởng
• "2/9 được 500k" → Thu nhập ngày 2/9

📊 **VÍ DỤ THỐNG KÊ:**
• "thống kê" → Tháng này
• "ăn uống hôm qua" → Danh mục cụ thể
• "top chi tiêu" → Xếp hạng

✨ **TÍNH NĂNG ĐẶC BIỆT:**
🤖 AI tự động phân loại danh mục
📅 Hỗ trợ ghi ngày quá khứ
🔢 Tự động tách nhiều khoản trong 1 tin nhắn
📊 Thống kê chi tiết với biểu đồ

❓ **Cần trợ giúp chi tiết?** Nhắn "help" hoặc "hướng dẫn"

💡 **Hãy nói chuyện tự nhiên về tài chính với tôi!** 😊`, name)
}

const helpReply = `🤖 **BOT QUẢN LÝ THU CHI THÔNG MINH**

✨ **Tôi hiểu ngôn ngữ tự nhiên và tự động phân loại bằng AI!**

💸 **GHI CHI TIÊU:**
• "500k trà sữa" → Tự động phân loại "Ăn uống"
• "hôm qua 200k xăng" → Có thể ghi ngày cụ thể
• "bún 50k, laptop 1.5m" → Tự tách thành 2 giao dịch
• "5/9 bánh 150k" → Ghi cho ngày 5/9

💰 **GHI THU NHẬP:**
• "5m lương" → Ghi thu nhập
• "nhận 1tr thưởng" → AI hiểu từ khóa
• "2/9 thưởng 500k" → Thu nhập ngày cụ thể

📊 **XEM THỐNG KÊ:**
• "thống kê" → Tháng hiện tại
• "thống kê hôm nay" → Chỉ hôm nay
• "thống kê hôm qua" → Chỉ hôm qua
• "thống kê tháng 8" → Tháng cụ thể
• "thống kê từ 1/8 đến 15/8" → Khoảng tùy chỉnh

📈 **THỐNG KÊ DANH MỤC:**
• "ăn uống" → Chi tiêu ăn uống tháng này
• "ăn uống hôm qua" → Ăn uống ngày cụ thể
• "top chi tiêu" → Top 5 khoản chi lớn nhất
• "danh mục" → Xem tất cả danh mục

🎯 **DANH MỤC TỰ ĐỘNG:**
🍜 Ăn uống • 🛒 Mua sắm • ⛽ Di chuyển • 🏥 Y tế
🎮 Giải trí • 🏠 Nhà cửa • 📚 Học tập

💡 **MẸO HAY:**
• Có thể ghi nhiều món: "bún 12k, gà 20k, laptop 1.5m"
• Hỗ trợ đơn vị: k (nghìn), m (triệu), tr (triệu)
• Hiểu ngày: hôm qua, hôm nay, 5/9

🚀 **Nói chuyện tự nhiên với tôi! Tôi sẽ hiểu và ghi chép cho bạn!**`
