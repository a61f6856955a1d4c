package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greenwayvn/advisor-bot/config"
	"github.com/greenwayvn/advisor-bot/internal/catalog"
	"github.com/greenwayvn/advisor-bot/internal/delivery/telegram"
	"github.com/greenwayvn/advisor-bot/internal/domain/repository"
	"github.com/greenwayvn/advisor-bot/internal/escalation"
	"github.com/greenwayvn/advisor-bot/internal/healthtag"
	"github.com/greenwayvn/advisor-bot/internal/infrastructure/gemini"
	"github.com/greenwayvn/advisor-bot/internal/infrastructure/storage"
	"github.com/greenwayvn/advisor-bot/internal/server"
	"github.com/greenwayvn/advisor-bot/internal/usecase"
)

func main() {
	log.Println("🚀 Starting advisor bot...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// 1. Catalog: load the data files and build the read-only index.
	src, err := catalog.LoadDir(cfg.DataDir)
	if err != nil {
		log.Fatalf("❌ Failed to load catalog data from %s: %v", cfg.DataDir, err)
	}
	cat := catalog.Build(src)
	labels := healthtag.NewLabelSet(src.TagInfo)
	log.Printf("✅ Catalog ready: %d products, %d combos", len(cat.Products), len(cat.Combos))

	// 2. Gemini client; the bot runs rule-based without it.
	var aiRepo repository.AIRepository
	if cfg.GeminiAPIKey != "" {
		aiRepo, err = gemini.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("❌ Failed to create Gemini client: %v", err)
		}
		log.Println("✅ Gemini AI client ready")
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set, running with rule-based classification only")
	}

	// 3. Stores.
	convRepo := storage.NewMemoryConversationRepository()
	auditRepo := storage.NewAuditRepository(cfg.DatabaseURL)
	log.Println("✅ Stores ready")

	// 4. Telegram handler first: the escalation sink delivers through it.
	botHandler, err := telegram.NewBotHandler(cfg.TelegramToken, cfg.UplineChatID, cfg.UplineThreadID, auditRepo, cfg.WorkerCount)
	if err != nil {
		log.Fatalf("❌ Failed to create bot handler: %v", err)
	}

	machine := escalation.NewMachine(botHandler.UplineSink(), escalation.Options{
		RequireConfirmation: cfg.RequireEscalationConfirm,
	})

	chatUseCase := usecase.NewChatUseCase(cat, labels, machine, aiRepo, convRepo, auditRepo, usecase.Options{
		Links: usecase.Links{
			Hotline:         cfg.Hotline,
			TelegramChannel: cfg.TelegramChannel,
			Fanpage:         cfg.Fanpage,
			Website:         cfg.Website,
		},
		EnablePolish: cfg.EnableAIPolish,
	})
	botHandler.SetChatUseCase(chatUseCase)
	log.Println("✅ Use case wired")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Health/metrics sidecar.
	sidecar := server.New(cfg.HTTPAddr)
	go func() {
		log.Printf("✅ Sidecar listening on %s", cfg.HTTPAddr)
		if err := sidecar.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("❌ Sidecar error: %v", err)
		}
	}()

	go func() {
		if err := botHandler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("❌ Bot error: %v", err)
		}
	}()

	log.Println("🤖 Bot is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := sidecar.Shutdown(shutdownCtx); err != nil {
		log.Printf("Sidecar shutdown error: %v", err)
	}
	log.Println("Bye.")
}
