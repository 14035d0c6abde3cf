package main

import (
	"log"

	"github.com/avachat/chatbot-service/internal/catalog"
	"github.com/avachat/chatbot-service/internal/chatbot"
	"github.com/avachat/chatbot-service/internal/config"
	"github.com/avachat/chatbot-service/internal/db"
	"github.com/avachat/chatbot-service/internal/httpapi"
	"github.com/avachat/chatbot-service/internal/httpapi/handlers"
	"github.com/avachat/chatbot-service/internal/store/rabbitmq"
	"github.com/avachat/chatbot-service/internal/store/redisstore"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	repo := chatbot.NewRepo(gdb)

	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbit publisher: %v", err)
	}
	defer pub.Close()

	chatbotSvc := chatbot.NewService(repo, pub)

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CatalogCacheTTL)
	defer rds.Close()

	catalogSvc := catalog.NewService(catalog.NewHTTPClient(cfg.CatalogBaseURL), rds)

	h := handlers.NewHandler(chatbotSvc, catalogSvc)
	r := httpapi.NewRouter(h)

	log.Printf("server listening on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
