package usecase

import (
	"fmt"
	"strings"

	"github.com/greenwayvn/advisor-bot/internal/catalog"
	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/healthtag"
)

// formatComboAnswer renders a full combo block: header, use-case line from
// the combo tags, then one block per item. Item fields were back-filled at
// catalog build time; benefits/ingredients/usage still come from the product
// table because combo items do not carry them.
func formatComboAnswer(c entity.Combo, cat *catalog.Catalog, labels *healthtag.LabelSet) string {
	lines := []string{fmt.Sprintf("*%s*", c.Name)}
	if c.HeaderText != "" {
		lines = append(lines, fmt.Sprintf("_%s_", c.HeaderText))
	}
	if c.DurationText != "" {
		lines = append(lines, fmt.Sprintf("\n⏱ *Thời gian khuyến nghị:* %s", c.DurationText))
	}
	if usecase := labels.Describe(c.HealthTags); usecase != "" {
		lines = append(lines, fmt.Sprintf("\n🎯 *Combo này phù hợp:* %s", usecase))
	}
	lines = append(lines, "\n🧩 *Các sản phẩm trong combo:*")

	var blocks []string
	for _, item := range c.Items {
		p, _ := cat.Product(item.ProductCode)

		name := item.Name
		if name == "" {
			name = item.ProductCode
		}
		var b strings.Builder
		fmt.Fprintf(&b, "• *%s* (%s)", name, item.ProductCode)
		if item.PriceText != "" {
			fmt.Fprintf(&b, "\n  - Giá tham khảo: %s", item.PriceText)
		}
		if p.BenefitsText != "" {
			fmt.Fprintf(&b, "\n  - Lợi ích chính: %s", p.BenefitsText)
		}
		if usecase := labels.Describe(p.HealthTags); usecase != "" {
			fmt.Fprintf(&b, "\n  - Dùng trong các trường hợp: %s", usecase)
		}
		if p.IngredientsText != "" {
			fmt.Fprintf(&b, "\n  - Thành phần nổi bật: %s", p.IngredientsText)
		}

		// The manufacturer usage and the in-combo dose can differ; show both
		// only when they do.
		usage := strings.TrimSpace(p.UsageText)
		dose := strings.TrimSpace(item.DoseText)
		switch {
		case usage != "" && dose != "" && usage != dose:
			fmt.Fprintf(&b, "\n  - Cách dùng theo NSX: %s", usage)
			fmt.Fprintf(&b, "\n  - Cách dùng gợi ý trong combo: %s", dose)
		case dose != "":
			fmt.Fprintf(&b, "\n  - Cách dùng gợi ý: %s", dose)
		case usage != "":
			fmt.Fprintf(&b, "\n  - Cách dùng gợi ý: %s", usage)
		}

		if item.ProductURL != "" {
			fmt.Fprintf(&b, "\n  - 🔗 Link sản phẩm: %s", item.ProductURL)
		}
		blocks = append(blocks, b.String())
	}

	lines = append(lines, "\n"+strings.Join(blocks, "\n\n"))
	lines = append(lines,
		"\n⚠️ Lưu ý: Đây là combo hỗ trợ, không thay thế thuốc điều trị. "+
			"TVV nên nhắc khách tuân thủ tư vấn của bác sĩ, kết hợp chế độ ăn uống, vận động, tái khám định kỳ.")
	lines = append(lines, "\n👉 TVV có thể điều chỉnh câu chữ cho phù hợp với khách hàng cụ thể.")
	return strings.Join(lines, "\n")
}

// formatProductsAnswer renders the ranked product list or the "nothing
// found" prompt.
func formatProductsAnswer(products []entity.Product, labels *healthtag.LabelSet) string {
	if len(products) == 0 {
		return "Em chưa tìm được sản phẩm phù hợp trong danh mục hiện có ạ. 🙏\n" +
			"Anh/chị có thể gửi rõ hơn tên sản phẩm, mã sản phẩm hoặc vấn đề sức khỏe của khách giúp em."
	}

	lines := []string{"Dưới đây là *một số sản phẩm phù hợp* trong danh mục:\n"}
	for _, p := range products {
		lines = append(lines, productBlock(p, labels, "- "))
		lines = append(lines, "")
	}
	lines = append(lines,
		"👉 TVV hãy chọn sản phẩm phù hợp nhất với tình trạng cụ thể của khách, "+
			"và luôn nhắc khách đọc kỹ hướng dẫn sử dụng, tham khảo ý kiến bác sĩ khi cần.")
	return strings.Join(lines, "\n")
}

// formatProductByCode renders the single-product detail answer.
func formatProductByCode(p entity.Product, labels *healthtag.LabelSet) string {
	lines := []string{productBlock(p, labels, "- ")}
	lines = append(lines,
		"\n👉 TVV có thể chỉnh sửa câu chữ cho phù hợp với khách, "+
			"và nhắc khách đọc kỹ hướng dẫn sử dụng, tham khảo ý kiến bác sĩ khi cần.")
	return strings.Join(lines, "\n")
}

func productBlock(p entity.Product, labels *healthtag.LabelSet, bullet string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* (%s)", p.Name, p.Code)
	if p.PriceText != "" {
		fmt.Fprintf(&b, "\n%sGiá tham khảo: %s", bullet, p.PriceText)
	}
	if p.BenefitsText != "" {
		fmt.Fprintf(&b, "\n%sLợi ích chính: %s", bullet, p.BenefitsText)
	}
	if usecase := labels.Describe(p.HealthTags); usecase != "" {
		fmt.Fprintf(&b, "\n%sDùng trong các trường hợp: %s", bullet, usecase)
	}
	if p.IngredientsText != "" {
		fmt.Fprintf(&b, "\n%sThành phần nổi bật: %s", bullet, p.IngredientsText)
	}
	if p.UsageText != "" {
		fmt.Fprintf(&b, "\n%sCách dùng gợi ý: %s", bullet, p.UsageText)
	}
	if p.ProductURL != "" {
		fmt.Fprintf(&b, "\n%s🔗 Link sản phẩm: %s", bullet, p.ProductURL)
	}
	return b.String()
}
