package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken   string
	AdminUserID     int64
	DBPath          string // empty = in-memory store, state lost on restart
	Port            string
	CalendarURL     string
	CalendarTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	adminID, err := strconv.ParseInt(os.Getenv("ADMIN_USER_ID"), 10, 64)
	if err != nil {
		log.Fatal("Invalid ADMIN_USER_ID")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	calendarTimeout := 10 * time.Second
	if t := os.Getenv("CALENDAR_TIMEOUT_SECONDS"); t != "" {
		if val, err := strconv.Atoi(t); err == nil && val > 0 {
			calendarTimeout = time.Duration(val) * time.Second
		}
	}

	return &Config{
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminUserID:     adminID,
		DBPath:          os.Getenv("DB_PATH"),
		Port:            port,
		CalendarURL:     os.Getenv("CALENDAR_URL"),
		CalendarTimeout: calendarTimeout,
	}
}
