package telegram

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/greenwayvn/advisor-bot/internal/domain/constants"
)

// messageRequest is one advisor message queued for processing.
type messageRequest struct {
	ctx      context.Context
	chatID   int64
	userName string
	text     string
}

const (
	requestTimeout         = 45 * time.Second
	rateLimiterCleanupTime = 5 * time.Minute
	rateLimiterMaxIdleTime = 10 * time.Minute
)

// workerPool processes messages in parallel with a per-chat rate limit.
type workerPool struct {
	requestQueue chan *messageRequest
	workerCount  int
	handler      *BotHandler
	wg           sync.WaitGroup

	rateLimiterMu sync.Mutex
	rateLimiter   map[int64]*chatRateLimit
}

type chatRateLimit struct {
	lastRequest  time.Time
	requestCount int
}

func newWorkerPool(handler *BotHandler, workerCount int) *workerPool {
	if workerCount <= 0 {
		workerCount = constants.DefaultWorkerCount
	}
	return &workerPool{
		requestQueue: make(chan *messageRequest, constants.RequestQueueSize),
		workerCount:  workerCount,
		handler:      handler,
		rateLimiter:  make(map[int64]*chatRateLimit),
	}
}

func (wp *workerPool) start(ctx context.Context) {
	log.Printf("Starting %d workers for parallel message processing", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
	go wp.cleanupRateLimits(ctx)
}

func (wp *workerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		case req, ok := <-wp.requestQueue:
			if !ok {
				log.Printf("Worker %d shutting down (queue closed)", id)
				return
			}
			if req == nil {
				continue
			}
			if !wp.checkRateLimit(req.chatID) {
				wp.handler.sendMessage(req.chatID, "⚠️ Anh/chị gửi hơi nhanh, đợi em một chút nhé ạ.")
				continue
			}
			wp.process(req)
		}
	}
}

// process runs one message through the use case with a timeout and panic
// recovery, then sends the reply with the main keyboard attached.
func (wp *workerPool) process(req *messageRequest) {
	ctx, cancel := context.WithTimeout(req.ctx, requestTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic while processing message from chat %d: %v", req.chatID, r)
			wp.handler.sendMessage(req.chatID, "⚠️ Có lỗi xảy ra, anh/chị thử lại giúp em nhé ạ.")
		}
	}()

	wp.handler.sendTyping(req.chatID)

	reply, err := wp.handler.chatUseCase.ProcessMessage(ctx, req.chatID, req.userName, req.text)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			log.Printf("Request timeout for chat %d after %v", req.chatID, requestTimeout)
			wp.handler.sendMessage(req.chatID, "⏱️ Xử lý hơi lâu, anh/chị gửi lại câu hỏi giúp em nhé ạ.")
			return
		}
		log.Printf("Process error for chat %d: %v", req.chatID, err)
		wp.handler.sendMessage(req.chatID, "Xin lỗi anh/chị, có lỗi xảy ra. Anh/chị thử lại giúp em nhé. 🙏")
		return
	}

	wp.handler.sendMessage(req.chatID, reply.Text)
}

// checkRateLimit allows up to MaxRequestsPerSecond messages per chat.
func (wp *workerPool) checkRateLimit(chatID int64) bool {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()

	now := time.Now()
	limiter, ok := wp.rateLimiter[chatID]
	if !ok {
		wp.rateLimiter[chatID] = &chatRateLimit{lastRequest: now, requestCount: 1}
		return true
	}

	if now.Sub(limiter.lastRequest) >= time.Second {
		limiter.lastRequest = now
		limiter.requestCount = 1
		return true
	}
	if limiter.requestCount >= constants.MaxRequestsPerSecond {
		log.Printf("Rate limit exceeded for chat %d", chatID)
		return false
	}
	limiter.requestCount++
	return true
}

func (wp *workerPool) cleanupRateLimits(ctx context.Context) {
	ticker := time.NewTicker(rateLimiterCleanupTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			wp.rateLimiterMu.Lock()
			for chatID, limiter := range wp.rateLimiter {
				if now.Sub(limiter.lastRequest) > rateLimiterMaxIdleTime {
					delete(wp.rateLimiter, chatID)
				}
			}
			wp.rateLimiterMu.Unlock()
		}
	}
}

func (wp *workerPool) submit(req *messageRequest) bool {
	select {
	case wp.requestQueue <- req:
		return true
	default:
		log.Printf("Worker pool queue is full (%d), rejecting request from chat %d", len(wp.requestQueue), req.chatID)
		wp.handler.sendMessage(req.chatID, "⚠️ Em đang hơi quá tải, anh/chị đợi một chút rồi gửi lại nhé ạ.")
		return false
	}
}

func (wp *workerPool) shutdown() {
	log.Printf("Shutting down worker pool, %d messages in queue", len(wp.requestQueue))
	close(wp.requestQueue)
	wp.wg.Wait()
	log.Println("Worker pool shut down successfully")
}
