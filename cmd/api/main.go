package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/config"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/db"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/handlers"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/notify"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/auth"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/bids"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/jobs"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/lifecycle"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/services/messages"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	rdb := notify.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis not reachable: ", err)
	}
	log.Println("[redis] connected")

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		log.Println("[mail] SMTP_HOST not set, mail is logged only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := notify.NewDispatcher(cfg.NotifyQueueSize, mailer,
		&notify.RedisPublisher{RDB: rdb},
		&stores.GormNotificationStore{DB: gdb},
	)
	go dispatcher.Run(context.Background())

	userStore := &stores.GormUserStore{DB: gdb}
	jobStore := &stores.GormJobStore{DB: gdb}
	bidStore := &stores.GormBidStore{DB: gdb}
	txStore := &stores.GormLifecycleStore{DB: gdb}
	msgStore := &stores.GormMessageStore{DB: gdb}
	codeStore := &stores.RedisCodeStore{RDB: rdb}

	authSvc := auth.NewService(userStore, codeStore, jobStore, bidStore, dispatcher, auth.Config{
		JWTSecret:       cfg.JWTSecret,
		ExpiresMin:      cfg.JWTExpiresMin,
		OTPTTL:          cfg.OTPTTL,
		ResetTTL:        cfg.ResetTTL,
		FrontendBaseURL: cfg.FrontendBaseURL,
	})
	jobSvc := jobs.NewService(jobStore, userStore)
	bidSvc := bids.NewService(jobStore, bidStore, txStore, userStore, dispatcher)
	lifeSvc := lifecycle.NewService(txStore, jobStore, userStore, dispatcher)
	msgSvc := messages.NewService(msgStore, userStore, dispatcher)

	h := handlers.Handlers{
		Auth: &handlers.AuthHandler{
			Auth:         authSvc,
			Photos:       handlers.PhotoUploads{Dir: cfg.UploadDir, PublicBaseURL: cfg.AppBaseURL},
			Expires:      cfg.JWTExpiresMin,
			SecureCookie: cfg.CookieSecure,
		},
		Jobs:     &handlers.JobHandler{Jobs: jobSvc, Lifecycle: lifeSvc},
		Bids:     &handlers.BidHandler{Bids: bidSvc, Lifecycle: lifeSvc},
		Messages: &handlers.MessageHandler{Messages: msgSvc},
	}
	if cfg.GoogleEnabled() {
		h.Google = &handlers.GoogleOAuthHandler{
			Auth:            authSvc,
			Expires:         cfg.JWTExpiresMin,
			SecureCookie:    cfg.CookieSecure,
			GoogleClientID:  cfg.GoogleClientID,
			GoogleSecret:    cfg.GoogleSecret,
			GoogleRedirect:  cfg.GoogleRedirect,
			FrontendBaseURL: cfg.FrontendBaseURL,
		}
	}

	app := handlers.NewApp(handlers.AppConfig{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   cfg.UploadDir,
	}, h)

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Printf("listen: %v", err)
	}

	// queued mail and pushes go out before exit
	dispatcher.Close()
	_ = rdb.Close()
}
