package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/greenwayvn/advisor-bot/internal/domain/repository"
)

const exportDefaultLimit = 1000

// handleExportCommand builds an XLSX of the recent audit log and sends it
// back as a document. "/export 200" bounds the row count.
func (h *BotHandler) handleExportCommand(ctx context.Context, message *tgbotapi.Message) {
	limit := exportDefaultLimit
	if fields := strings.Fields(message.Text); len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.auditRepo.ListRecent(ctx, limit)
	if err != nil {
		log.Printf("audit export list error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Em chưa xuất được nhật ký, anh/chị thử lại sau nhé.")
		return
	}
	if len(entries) == 0 {
		h.sendMessage(message.Chat.ID, "Nhật ký hiện đang trống ạ.")
		return
	}

	xlsxBytes, err := buildAuditExportXLSX(entries)
	if err != nil {
		log.Printf("audit export xlsx error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Em chưa tạo được file Excel, anh/chị thử lại sau nhé.")
		return
	}

	filename := fmt.Sprintf("audit_%s.xlsx", time.Now().Format("20060102_150405"))
	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{Name: filename, Bytes: xlsxBytes})
	doc.Caption = fmt.Sprintf("📒 Nhật ký tư vấn\nTổng: %d dòng", len(entries))
	if _, err := h.bot.Send(doc); err != nil {
		log.Printf("audit export send error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Em chưa gửi được file Excel, anh/chị thử lại sau nhé.")
	}
}

func buildAuditExportXLSX(entries []repository.AuditEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Audit"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"ID", "Chat ID", "User", "Text", "Intent",
		"Combo ID", "Combo Name", "Product Code", "Product Name", "Created At",
	}
	for i, hname := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, hname); err != nil {
			return nil, err
		}
	}

	for row, e := range entries {
		values := []interface{}{
			e.ID, e.ChatID, e.UserName, e.Text, string(e.Intent),
			e.MatchedComboID, e.MatchedComboName, e.MatchedProductCode, e.MatchedProductName,
			e.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
