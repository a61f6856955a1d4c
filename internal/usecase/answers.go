package usecase

import "fmt"

// Links carries the official contact points injected from config. Answers
// quote them verbatim so advisors always forward the right URLs.
type Links struct {
	Hotline         string
	TelegramChannel string
	Fanpage         string
	Website         string
}

func answerStart() string {
	return "*Chào TVV, em là Trợ lý AI hỗ trợ kinh doanh & sản phẩm.* 🤖\n\n" +
		"Anh/chị có thể:\n" +
		"• Hỏi theo vấn đề sức khỏe: _\"Khách bị tiểu đường thì dùng combo nào?\"_\n" +
		"• Hỏi theo sản phẩm: _\"Cho em thành phần, cách dùng của mã 070728\"_\n" +
		"• Hỏi quy trình: _\"Hướng dẫn mua hàng / thanh toán thế nào?\"_\n" +
		"• Nhờ tuyến trên: _\"Câu này khó, cho em xin kết nối leader?\"_\n\n" +
		"Hoặc bấm các nút menu bên dưới để thao tác nhanh. ❤️"
}

func answerMenuCombo() string {
	return "🧩 *Combo theo vấn đề sức khỏe*\n\n" +
		"Anh/chị hãy gõ câu dạng:\n" +
		"- \"Khách *tiểu đường* thì dùng combo nào?\"\n" +
		"- \"Khách bị *cơ xương khớp* đau nhiều thì tư vấn combo gì?\"\n" +
		"- \"Khách bị *huyết áp, tim mạch* thì nên dùng gì?\""
}

func answerMenuProductSearch() string {
	return "🔎 *Tra cứu sản phẩm*\n\n" +
		"Anh/chị có thể hỏi:\n" +
		"- \"Cho em info sản phẩm *ANTISWEET*?\"\n" +
		"- \"Thành phần, cách dùng của mã *070728* là gì?\"\n" +
		"- \"Sản phẩm nào hỗ trợ *tiểu đường / men gan / xương khớp*?\""
}

func answerBuyPayment(links Links) string {
	return "*Hướng dẫn mua hàng & thanh toán* 🛒\n" +
		"\n1️⃣ *Cách mua hàng:*\n" +
		fmt.Sprintf("- Đặt trực tiếp trên website: %s\n", links.Website) +
		"- Nhờ TVV tạo đơn hàng trên hệ thống.\n" +
		"- Gọi Hotline để được hỗ trợ tạo đơn.\n" +
		"\n2️⃣ *Các bước đặt trên website (gợi ý):*\n" +
		"   1. Truy cập website.\n" +
		"   2. Chọn sản phẩm → bấm *“Thêm vào giỏ”*.\n" +
		"   3. Vào *Giỏ hàng* → kiểm tra sản phẩm.\n" +
		"   4. Bấm *“Thanh toán”* → nhập thông tin nhận hàng.\n" +
		"   5. Chọn hình thức thanh toán phù hợp.\n" +
		"\n3️⃣ *Hình thức thanh toán thường dùng:*\n" +
		"- 💵 Thanh toán khi nhận hàng (COD).\n" +
		"- 💳 Chuyển khoản ngân hàng (theo số TK chính thức của công ty).\n" +
		"- 📱 Thanh toán online (QR, ví điện tử…) nếu có."
}

func answerBusinessEscalation(links Links) string {
	return "*Kết nối tuyến trên khi gặp câu hỏi khó* ☎️\n\n" +
		"Anh/chị hãy gửi tiếp *1 tin nhắn nữa* mô tả rõ:\n" +
		"- Câu hỏi / tình huống cụ thể của khách\n" +
		"- Phương án anh/chị đang phân vân hoặc đã trả lời thử\n" +
		"- Mức độ gấp (vd: cần hỗ trợ trong hôm nay)\n\n" +
		"Ngay sau tin nhắn đó, em sẽ *chuyển nguyên văn* cho tuyến trên để hỗ trợ.\n" +
		fmt.Sprintf("Nếu thật sự gấp, anh/chị có thể gọi thêm Hotline: *%s*.", links.Hotline)
}

func answerEscalationForwarded(links Links) string {
	return "Em đã ghi nhận và *chuyển nội dung này cho tuyến trên* rồi ạ. ✅\n" +
		fmt.Sprintf("Nếu cần gấp, anh/chị có thể gọi thêm Hotline: *%s*.\n", links.Hotline) +
		"Khi tuyến trên phản hồi, anh/chị nhớ cập nhật lại cho khách nhé."
}

func answerEscalationConfirmPrompt() string {
	return "Em đã ghi nhận nội dung. Anh/chị gõ *đồng ý* để em chuyển ngay cho tuyến trên, " +
		"hoặc *hủy* nếu không cần nữa ạ."
}

func answerEscalationCancelled() string {
	return "Dạ, em đã hủy yêu cầu kết nối tuyến trên. " +
		"Khi nào cần, anh/chị cứ bấm lại nút *Kết nối tuyến trên* nhé. 🙏"
}

func answerChannels(links Links) string {
	return "*Kênh & Fanpage chính thức của công ty* 📢\n\n" +
		fmt.Sprintf("- 📺 Kênh Telegram: %s\n", links.TelegramChannel) +
		fmt.Sprintf("- 👍 Fanpage Facebook: %s\n", links.Fanpage) +
		fmt.Sprintf("- 🌐 Website: %s\n\n", links.Website) +
		"👉 TVV nên ưu tiên gửi khách các đường link chính thức này."
}

func answerFallback() string {
	return "Hiện tại em chưa hiểu rõ câu hỏi hoặc chưa có dữ liệu cho nội dung này ạ. 🙏\n\n" +
		"Anh/chị có thể:\n" +
		"- Mô tả *cụ thể hơn* tình trạng của khách, hoặc\n" +
		"- Hỏi dạng: \"Khách bị *tiểu đường*...\", \"Khách bị *đau dạ dày*...\", " +
		"\"*Cách mua hàng*?\", \"*Thanh toán thế nào*?\", hoặc\n" +
		"- Bấm nút *Kết nối tuyến trên* để em hướng dẫn liên hệ leader."
}

func answerTextOnly() string {
	return "Hiện tại em chỉ hiểu tin nhắn dạng text thôi ạ. 🙏"
}

func answerCodeNotFound() string {
	return "Em chưa tìm được mã sản phẩm này, anh/chị kiểm tra lại giúp em nhé. 🙏"
}
