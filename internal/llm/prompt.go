package llm

import "fmt"

// classifyPromptTemplate is the wire contract between the prompt and the
// parser: the engine is instructed to return exactly one JSON object of
// the shape parser.go expects. Keep the two in sync.
const classifyPromptTemplate = `Phân tích tin nhắn sau và xác định có liên quan đến quản lý tài chính không:

Tin nhắn: "%s"

CHỈ XỬ LÝ các ý định liên quan đến tài chính:
1. EXPENSE (Chi tiêu):
   - Một món: "500k trà sữa", "mua áo 300k", "200k xăng"
   - Nhiều món CÙNG danh mục: "bún 80k và phở 150k" → CỘNG TỔNG: 80000 + 150000 = 230000
   - Kèm ngày cụ thể: "5/9 bánh 200k", "hôm qua 80k đi chợ", "tuần trước mua áo 300k"
2. INCOME (Thu nhập): "thu 5m lương", "nhận 1tr", "được 500k", "2/9 thưởng 500k"
3. MULTIPLE_EXPENSES (Nhiều khoản chi KHÁC danh mục):
   - "480k nướng, 575k siêu thị" → TÁCH THÀNH 2 GIAO DỊCH RIÊNG
   - PHẢI tách riêng từng khoản với amount và category riêng biệt
   - KHÔNG ĐƯỢC gộp chung thành một transaction
4. LENDING (Cho vay): "cho An vay 2tr", "cho bạn mượn 500k" → person là người vay
5. BORROWING (Đi vay): "vay anh Nam 1tr", "mượn bạn 500k" → person là người cho vay
6. STATS (Thống kê tổng): "thống kê", "báo cáo tháng 8", "thống kê tuần này"
7. CATEGORY_STATS (Thống kê danh mục): "ăn uống", "ăn uống tháng 8", "top chi tiêu"
8. CATEGORY_LIST (Xem danh mục): "danh mục", "xem danh mục"
9. HELP (Trợ giúp): "help", "hướng dẫn"

HƯỚNG DẪN XỬ LÝ THỜI GIAN:
- "hôm nay", "[danh_mục] hôm nay" → time_period: "ngay"
- "thống kê hôm qua" → time_period: "ngay", specific_value: "hôm qua"
- "thống kê 2/9" → time_period: "ngay", specific_value: "2/9"
- "tuần này" → time_period: "tuan"; "tuần trước" → time_period: "tuan", specific_value: "tuan_truoc"
- "[danh_mục]" (KHÔNG có từ thời gian) → time_period: "thang"
- "tháng trước" → time_period: "thang", specific_value: "thang_truoc"
- "tháng 8" → time_period: "thang", specific_value: "8"
- "năm này" → time_period: "nam"
- "từ 01/08 đến 31/08" → time_period: "custom", specific_value: "01/08-31/08"

NGÀY CHO CHI TIÊU/THU NHẬP:
- "5/9 bánh 200k" → custom_date: "5/9"
- "hôm qua 80k đi chợ" → custom_date: "hôm qua"
- "thứ hai mua sách 50k" → custom_date: "thứ hai"
- KHÔNG có ngày cụ thể → custom_date: null

QUY TẮC TÍNH TOÁN SỐ TIỀN:
- k = 1,000 (VD: 80k = 80000)
- m/tr/triệu = 1,000,000 (VD: 1.5m = 1500000)
- Nhiều món cùng danh mục: PHẢI CỘNG TẤT CẢ (VD: "80k + 150k" = 230000, KHÔNG PHẢI 230)
- Đơn vị: luôn chuyển về VND (số nguyên)

DANH MỤC CHI: Ăn uống, Di chuyển, Mua sắm, Giải trí, Y tế, Học tập, Nhà cửa, Khác
DANH MỤC THU: Lương, Thưởng, Freelance, Kinh doanh, Đầu tư, Khác

LƯU Ý ĐẶC BIỆT - QUAN TRỌNG NHẤT:
- "nướng", "luộc", "xào", "chiên" = NẤU ĂN → Ăn uống (KHÔNG PHẢI Khác!)
- "thịt", "cá", "gà", "tôm", "rau", "củ", "quả" = THỰC PHẨM → Ăn uống
- "đi chợ", "mua đồ ăn" = MUA THỰC PHẨM → Ăn uống (KHÔNG PHẢI Mua sắm!)

QUY TẮC MULTIPLE_EXPENSES:
- Các món KHÁC danh mục → một transaction riêng cho MỖI danh mục
- Các món CÙNG danh mục trong đó → cộng tổng amount, nối description
- Ngày ở ĐẦU tin nhắn → TẤT CẢ transactions dùng cùng custom_date
VD "hôm qua 480k nướng, 575k siêu thị" →
{"intent": "MULTIPLE_EXPENSES", "confidence": 0.9, "data": {"transactions": [
  {"amount": 480000, "description": "nướng", "category": "Ăn uống", "custom_date": "hôm qua"},
  {"amount": 575000, "description": "siêu thị", "category": "Mua sắm", "custom_date": "hôm qua"}
]}}
VD "bún 12k, gà 20k, laptop 1.5m, 200k xăng" →
{"intent": "MULTIPLE_EXPENSES", "confidence": 0.9, "data": {"transactions": [
  {"amount": 32000, "description": "bún, gà", "category": "Ăn uống", "custom_date": null},
  {"amount": 1500000, "description": "laptop", "category": "Mua sắm", "custom_date": null},
  {"amount": 200000, "description": "xăng", "category": "Di chuyển", "custom_date": null}
]}}
TUYỆT ĐỐI KHÔNG gộp chung: amount=1055000, description="nướng và siêu thị"

KHÔNG XỬ LÝ: chào hỏi, câu hỏi cá nhân, trò chuyện chung.
Nếu tin nhắn KHÔNG liên quan tài chính, trả về:
{"intent": "HELP_GUIDE", "confidence": 1.0, "data": {}}

Nếu liên quan tài chính, trả về:
{
  "intent": "EXPENSE|INCOME|MULTIPLE_EXPENSES|LENDING|BORROWING|STATS|CATEGORY_STATS|CATEGORY_LIST|HELP",
  "confidence": 0.0-1.0,
  "data": {
    "amount": số_tiền_hoặc_null,
    "description": "mô_tả",
    "category": "danh_mục" (chỉ EXPENSE/INCOME),
    "person": "tên_người" (chỉ LENDING/BORROWING),
    "custom_date": "ngày_hoặc_null" (VD: "5/9", "hôm qua", "thứ hai"),
    "transactions": [...] (chỉ MULTIPLE_EXPENSES),
    "time_period": "ngay|tuan|thang|nam|custom" (STATS/CATEGORY_STATS, mặc định "thang"),
    "specific_value": "số_hoặc_keyword" (VD: "8", "thang_truoc", "tuan_truoc", "01/08-31/08"),
    "category_name": "tên_danh_mục" (chỉ CATEGORY_STATS)
  }
}

Chỉ trả về JSON, không giải thích gì thêm.`

// buildPrompt embeds the user message into the classification prompt.
func buildPrompt(message string) string {
	return fmt.Sprintf(classifyPromptTemplate, message)
}
