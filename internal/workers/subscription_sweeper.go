package workers

import (
	"context"
	"log"
	"time"

	"plantcare/internal/repositories"
	"plantcare/internal/services"
)

// SubscriptionSweeper periodically expires lapsed subscriptions and, once a
// day, mails renewal notices to users whose term ends soon.
type SubscriptionSweeper struct {
	subs     services.SubscriptionServiceInterface
	subRepo  repositories.ISubscriptionRepository
	mailer   services.IMailService
	interval time.Duration

	stop chan struct{}
	done chan struct{}
}

const expiryNoticeWindowDays = 7

func NewSubscriptionSweeper(
	subs services.SubscriptionServiceInterface,
	subRepo repositories.ISubscriptionRepository,
	mailer services.IMailService,
) *SubscriptionSweeper {
	return &SubscriptionSweeper{
		subs:     subs,
		subRepo:  subRepo,
		mailer:   mailer,
		interval: time.Hour,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *SubscriptionSweeper) Start() {
	go w.run()
}

func (w *SubscriptionSweeper) Stop(ctx context.Context) error {
	close(w.stop)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *SubscriptionSweeper) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Sweep once at startup so a restart never leaves expired rows active.
	w.sweep()
	lastNotice := time.Time{}

	for {
		select {
		case <-w.stop:
			return
		case now := <-ticker.C:
			w.sweep()
			if now.Sub(lastNotice) >= 24*time.Hour {
				w.dailySummary()
				w.sendExpiryNotices()
				lastNotice = now
			}
		}
	}
}

func (w *SubscriptionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := w.subs.HandleExpirationWithFallback(ctx)
	if err != nil {
		log.Printf("subscription sweep failed: %v", err)
		return
	}
	if result.ExpiredWithFallback > 0 || result.RegularExpired > 0 {
		log.Printf("subscription sweep: %d expired with fallback restored, %d expired",
			result.ExpiredWithFallback, result.RegularExpired)
	}
}

func (w *SubscriptionSweeper) dailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stats, err := w.subs.Stats(ctx)
	if err != nil {
		log.Printf("subscription summary failed: %v", err)
		return
	}
	log.Printf("subscription summary: %d active, %d expired, %d expiring within 7 days",
		stats.ActiveCount, stats.ExpiredCount, stats.ExpiringCount)
}

func (w *SubscriptionSweeper) sendExpiryNotices() {
	if w.mailer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	subs, err := w.subRepo.GetExpiring(ctx, expiryNoticeWindowDays)
	if err != nil {
		log.Printf("expiry notice pass failed: %v", err)
		return
	}

	sent := 0
	for _, sub := range subs {
		if sub.User.Email == "" {
			continue
		}
		daysLeft := 0
		if d := sub.DaysUntilExpiry(); d != nil {
			daysLeft = *d
		}
		if err := w.mailer.SendSubscriptionExpiryNotice(sub.User.Email, sub.User.Name, sub.Plan.Name, daysLeft); err != nil {
			log.Printf("expiry notice to %s failed: %v", sub.User.Email, err)
			continue
		}
		sent++
	}
	if sent > 0 {
		log.Printf("expiry notice pass: mailed %d user(s)", sent)
	}
}
