package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/page-confessions/confession-relay/src/bot"
	"github.com/page-confessions/confession-relay/src/config"
	"github.com/page-confessions/confession-relay/src/data"
	"github.com/page-confessions/confession-relay/src/facebook"
	"github.com/page-confessions/confession-relay/src/moderation"
	"github.com/page-confessions/confession-relay/src/scheduler"
	"github.com/page-confessions/confession-relay/src/sheets"
	"github.com/page-confessions/confession-relay/src/webserver"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using environment as-is")
	}

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "dev:test@tcp(localhost:3306)/confessions"
	}
	db := data.MustMySQL(dsn)
	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	cfg := config.Load(db)
	rdb := data.MustRedis(cfg.RedisURL)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("timezone %q: %v", cfg.Timezone, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := sheets.New(ctx, sheets.Config{
		CredentialsFile: cfg.GoogleCredentials,
		SpreadsheetID:   cfg.SpreadsheetID,
		SheetName:       cfg.SheetName,
		SheetID:         cfg.SheetID,
		PageSize:        cfg.SheetPageSize,
	})
	if err != nil {
		log.Fatalf("sheets: %v", err)
	}

	feed := facebook.NewClient(cfg.PageID, cfg.PageToken, cfg.GraphURL)
	sched := scheduler.New(scheduler.Config{
		Feed:          feed,
		Prefix:        cfg.PagePrefix,
		IntervalHours: cfg.PageInterval,
		StartHour:     cfg.PageStartHour,
		Location:      loc,
	})

	wm := moderation.NewWatermark(ctx, rdb, cfg.WatermarkBaseline)

	relay, err := bot.New(bot.Config{
		Token:        cfg.DiscordToken,
		GuildID:      cfg.GuildID,
		ModChannelID: cfg.ModChannelID,
		ModRoleID:    cfg.ModRoleID,
	})
	if err != nil {
		log.Fatalf("discord: %v", err)
	}

	engine := moderation.NewEngine(moderation.Config{
		Store:        store,
		Messenger:    relay.Messenger(),
		Scheduler:    sched,
		Watermark:    wm,
		DB:           db,
		ReviewWindow: cfg.ReviewWindow,
	})
	relay.SetEngine(engine)

	if err := relay.Start(); err != nil {
		log.Fatalf("discord start: %v", err)
	}
	log.Printf("relay up, watermark at %d", wm.Current())

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      webserver.New(cfg, engine, wm),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Printf("ops server listening on %s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cancel()
	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := relay.Stop(); err != nil {
		log.Printf("discord stop: %v", err)
	}
}
