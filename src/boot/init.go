package boot

import (
	"context"
	"foodievent/src/config"
	"foodievent/src/db"
	"foodievent/src/lib"
	"foodievent/src/lifecycle"
	"foodievent/src/storage"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb(cfg config.Config) *gorm.DB {
	d, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	if err := db.Migrate(d); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	return d
}

// InitStorage picks S3 when STORAGE_DRIVER=s3 and a bucket is set, local disk
// otherwise.
func InitStorage(ctx context.Context, cfg config.Config) storage.FileStore {
	if cfg.StorageDriver == "s3" && cfg.AssetsBucket != "" {
		client, err := storage.GetS3Client(ctx)
		if err == nil {
			return storage.NewS3Store(client, cfg.AssetsBucket)
		}
		log.Printf("Falling back to local storage: %s\n", err.Error())
	}
	return storage.NewLocalStore(cfg.UploadDir)
}

func InitBroker(cfg config.Config) lib.Publisher {
	if cfg.AmqpURL == "" {
		log.Println("AMQP_URL not set, lifecycle events will not be published")
		return lib.NoopPublisher{}
	}
	return lib.NewAMQPPublisher(cfg.AmqpURL)
}

func InitMailer(cfg config.Config) lib.Mailer {
	if cfg.SmtpHost == "" {
		log.Println("SMTP_HOST not set, order confirmations are disabled")
		return nil
	}
	return lib.NewSMTPMailer(cfg)
}

func InitDenylist() *lib.TokenDenylist {
	rdb := lib.GetRedisClient()
	if rdb == nil {
		log.Println("REDIS_HOST not set, logout cannot revoke tokens")
		return nil
	}
	return lib.NewTokenDenylist(rdb)
}

// RecomputeStatuses is the body of the scheduled job.
func RecomputeStatuses(engine *lifecycle.Engine) {
	start := time.Now()
	changed, err := engine.RecomputeAll(context.Background(), engine.Now())
	lib.ObserveRecompute(time.Since(start))
	if err != nil {
		log.Printf("[Scheduler] recompute failed: %s\n", err.Error())
		return
	}
	if changed > 0 {
		log.Printf("[Scheduler] %d event status(es) updated\n", changed)
	}
}

func InitScheduler(engine *lifecycle.Engine, every time.Duration) {
	if _, err := lib.CreateCronJob("recompute-event-status", every, RecomputeStatuses, engine); err != nil {
		log.Printf("Error scheduling status recompute: %s\n", err.Error())
		return
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched.Start()
	log.Println("Jobs in queue:", len(sched.Jobs()))
}
