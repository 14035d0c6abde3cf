package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/avachat/chatbot-service/internal/chatbot"
	"github.com/avachat/chatbot-service/internal/config"
	"github.com/avachat/chatbot-service/internal/db"
	"github.com/avachat/chatbot-service/internal/generation"
	"github.com/avachat/chatbot-service/internal/store/rabbitmq"
)

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	repo := chatbot.NewRepo(gdb)

	gen := generation.NewHTTPClient(cfg.GenerationBaseURL, cfg.GenerationAPIKey)
	template := generation.LoadTemplate(cfg.PromptTemplatePath)

	proc := chatbot.NewProcessor(repo, gen, template, cfg.DefaultModelArn)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	if err := rabbitmq.DeclareQueues(ch, cfg.RabbitQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker started, queue=%s concurrency=%d record_ttl=%s", cfg.RabbitQueue, concurrency, cfg.RecordTTL)

	go sweepExpired(ctx, repo, cfg.RecordTTL)

	// worker pool
	deliveries := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range deliveries {
				var m chatbot.DispatchMessage
				if err := json.Unmarshal(d.Body, &m); err != nil || m.ChatbotRequestID == "" {
					log.Printf("worker=%d bad message: %v", workerID, err)
					// unparseable: straight to the DLQ
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := proc.Process(ctx, m); err != nil {
					// record store trouble: leave the message for redelivery
					log.Printf("worker=%d request %s store failure cost=%s err=%v", workerID, m.ChatbotRequestID, time.Since(start), err)
					_ = d.Nack(false, true)
					continue
				}

				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed request=%s err=%v", workerID, m.ChatbotRequestID, err)
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			log.Printf("worker shutting down")
			close(deliveries)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			deliveries <- d
		}
	}
}

// sweepExpired deletes records nobody will ever poll again: terminal results
// left unread and processing rows orphaned by lost messages.
func sweepExpired(ctx context.Context, repo *chatbot.Repo, ttl time.Duration) {
	interval := ttl / 4
	if interval > time.Hour {
		interval = time.Hour
	}
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx, time.Now().Add(-ttl))
			if err != nil {
				log.Printf("sweep: delete expired failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweep: removed %d expired records", n)
			}
		}
	}
}
