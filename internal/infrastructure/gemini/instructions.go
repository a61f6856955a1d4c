package gemini

import (
	"strings"

	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
)

// classifyInstruction pins the classifier to the closed label set. The model
// must answer with the bare label and nothing else; anything off-list is
// treated as a failed classification and the rule-based classifier takes over.
func classifyInstruction() string {
	labels := make([]string, 0, len(entity.AllIntents))
	for _, in := range entity.AllIntents {
		labels = append(labels, string(in))
	}
	return `Bạn là bộ phân loại ý định cho trợ lý tư vấn sản phẩm sức khỏe.
Người nhắn là tư vấn viên (đại lý), họ hỏi thay cho khách hàng của họ.

Nhiệm vụ: đọc tin nhắn và trả về ĐÚNG MỘT nhãn trong danh sách sau,
không giải thích, không dấu câu, không chữ nào khác:

` + strings.Join(labels, "\n") + `

Hướng dẫn chọn nhãn:
- "start": chào hỏi, bắt đầu trò chuyện.
- "buy_payment": hỏi cách đặt hàng, thanh toán, chuyển khoản, giá chung.
- "business_escalation": câu hỏi về chính sách kinh doanh, hoa hồng, chiết khấu,
  tuyến trên, hoặc tư vấn viên nói "câu này khó quá" / muốn hỏi người phụ trách.
- "channels": hỏi kênh liên hệ, hotline, fanpage, nhóm Zalo.
- "combo_health": hỏi combo/bộ sản phẩm cho một vấn đề sức khỏe.
- "product_info": hỏi chi tiết về MỘT sản phẩm cụ thể theo tên.
- "product_by_code": tin nhắn chứa mã sản phẩm dạng số (ví dụ 070728).
- "health_products": mô tả triệu chứng/bệnh và muốn được gợi ý sản phẩm.
- "menu_*": chỉ khi tin nhắn trùng khớp một nút bấm menu.
- "fallback": không xếp được vào nhãn nào ở trên.`
}

// extractInstruction asks for the two phrase lists the ranker consumes. The
// response must be a single JSON object so it can be parsed mechanically.
const extractInstruction = `Bạn là bộ trích xuất thông tin y tế từ tin nhắn tiếng Việt.
Tin nhắn là câu hỏi của tư vấn viên về tình trạng sức khỏe của khách hàng.

Trả về DUY NHẤT một đối tượng JSON, không markdown, không giải thích:
{"symptom_phrases": [...], "goal_phrases": [...]}

- "symptom_phrases": các cụm từ mô tả triệu chứng hoặc bệnh
  (ví dụ: "đường huyết cao", "đau dạ dày", "mất ngủ", "tê bì chân tay").
- "goal_phrases": các cụm từ mô tả mong muốn cải thiện
  (ví dụ: "giảm cân", "thải độc gan", "tăng đề kháng").
- Giữ nguyên cách viết trong tin nhắn, không dịch, không chuẩn hóa.
- Không suy diễn thêm triệu chứng không được nhắc đến.
- Nếu tin nhắn không nói về sức khỏe, trả về hai danh sách rỗng.`

// polishInstruction rewrites a templated answer into smoother Vietnamese.
// Every factual token must survive verbatim; the polisher is cosmetic only.
const polishInstruction = `Bạn là biên tập viên tiếng Việt cho trợ lý tư vấn sản phẩm sức khỏe.
Nhiệm vụ: viết lại câu trả lời cho mượt mà, thân thiện, xưng "em" gọi "anh/chị".

QUY TẮC BẮT BUỘC:
- KHÔNG đổi tên sản phẩm, mã sản phẩm, giá, liều dùng, đường link.
- KHÔNG thêm công dụng, lời hứa hay thông tin mới.
- KHÔNG xóa sản phẩm hay mục nào khỏi danh sách.
- Giữ nguyên cấu trúc danh sách và emoji nếu có.
- Chỉ trả về văn bản đã viết lại, không giải thích.`
