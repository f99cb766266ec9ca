package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"journal_bot/config"
	"journal_bot/internal/calendar"
	"journal_bot/internal/journal"
	"journal_bot/internal/store"
	"journal_bot/internal/store/memory"
	"journal_bot/internal/store/sqlite"
	"journal_bot/internal/telegram"
	"journal_bot/internal/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("🚀 Starting Trading Journal Bot...")

	cfg := config.Load()

	// Pick the store backend: sqlite when a path is configured, otherwise
	// an in-memory store that loses state on restart.
	var (
		st  store.Store
		err error
	)
	if cfg.DBPath != "" {
		st, err = sqlite.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		log.Printf("💾 Using sqlite store at %s", cfg.DBPath)
	} else {
		st = memory.New()
		log.Println("💾 DB_PATH not set, using in-memory store")
	}
	defer st.Close()

	svc := journal.NewService(st)
	cal := calendar.NewClient(cfg.CalendarURL, cfg.CalendarTimeout)

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.AdminUserID, svc, cal)
	if err != nil {
		log.Fatalf("Failed to create Telegram bot: %v", err)
	}

	webServer := web.NewServer(svc, cfg.Port)
	webServer.Start()

	go bot.Start()

	log.Println("✅ All systems initialized")
	log.Println("📱 Telegram bot is ready")
	log.Printf("🌐 Keep-alive endpoint: http://localhost:%s/api/health\n", cfg.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("\n🛑 Shutting down...")
	bot.Stop()
	log.Println("👋 Goodbye!")
}
