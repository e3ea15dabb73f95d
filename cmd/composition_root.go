package cmd

import (
	"context"
	"fmt"

	httpin "orderreview/internal/adapters/in/http"
	"orderreview/internal/adapters/out/mail"
	"orderreview/internal/adapters/out/postgres"
	"orderreview/internal/adapters/out/postgres/notificationrepo"
	"orderreview/internal/adapters/out/postgres/userrepo"
	redisadapter "orderreview/internal/adapters/out/redis"
	"orderreview/internal/core/application/effects"
	"orderreview/internal/core/application/fanout"
	"orderreview/internal/core/application/usecases/commands"
	"orderreview/internal/core/application/usecases/queries"
	"orderreview/internal/core/domain/services"
	"orderreview/internal/core/ports"
	"orderreview/internal/jobs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	log        *zap.Logger
	uowFactory ports.UnitOfWorkFactory
	runner     *effects.Runner
	planner    *fanout.Planner
	events     *fanout.Publisher
}

// NewCompositionRoot wires the side-effect pipeline. Redis and lmstfy are
// optional; without them notifications and emails go to the log.
func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, log *zap.Logger) (*CompositionRoot, error) {
	templates, err := fanout.ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}

	publisher, err := newNotificationPublisher(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	mailer, err := newMailer(cfg, log)
	if err != nil {
		return nil, err
	}

	runner := effects.NewRunner(log, cfg.SideEffectTimeout, cfg.SideEffectConcurrency)
	planner := fanout.NewPlanner(
		userrepo.NewGormUserRepository(gormDB),
		notificationrepo.NewGormNotificationRepository(gormDB),
		publisher,
		mailer,
		templates,
		fanout.Links{ClientURL: cfg.ClientURL, AdminPanelURL: cfg.FrontendURL},
		cfg.Currency,
	)

	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		log:        log,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, log),
		runner:     runner,
		planner:    planner,
		events:     fanout.NewPublisher(planner, runner),
	}, nil
}

func newNotificationPublisher(ctx context.Context, cfg Config, log *zap.Logger) (ports.NotificationPublisher, error) {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, realtime notifications disabled")
		return redisadapter.NewLogPublisher(log), nil
	}
	client, err := redisadapter.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	return redisadapter.NewNotificationPublisher(client, cfg.RedisChannel), nil
}

func newMailer(cfg Config, log *zap.Logger) (ports.Mailer, error) {
	if cfg.LmstfyHost == "" {
		log.Warn("LMSTFY_HOST not set, emails are logged instead of sent")
		return mail.NewLogMailer(log), nil
	}
	queue := mail.NewLmstfyQueue(cfg.LmstfyHost, cfg.LmstfyPort, cfg.LmstfyNamespace, cfg.LmstfyToken)
	mailer, err := mail.NewQueueMailer(queue, cfg.LmstfyQueue, cfg.MailTTL, log)
	if err != nil {
		return nil, fmt.Errorf("configure mail queue: %w", err)
	}
	return mailer, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateSubmitShippingCommandHandler() *commands.SubmitShippingCommandHandler {
	h := commands.NewSubmitShippingCommandHandler(c.orderUoWFactory(), c.events)
	return &h
}

func (c *CompositionRoot) CreateSetShippingChargeCommandHandler() *commands.SetShippingChargeCommandHandler {
	reviewer := services.NewShippingReviewer(services.NewRandomTokenGenerator())
	h := commands.NewSetShippingChargeCommandHandler(c.orderUoWFactory(), reviewer, c.events)
	return &h
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() *commands.ConfirmOrderCommandHandler {
	h := commands.NewConfirmOrderCommandHandler(c.orderUoWFactory(), c.events)
	return &h
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() *commands.CancelOrderCommandHandler {
	h := commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.events)
	return &h
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() *commands.MarkNotificationReadCommandHandler {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewMarkNotificationReadCommandHandler(f)
	return &h
}

func (c *CompositionRoot) CreateGetOrdersByStatusQueryHandler() queries.GetOrdersByStatusQueryHandler {
	return queries.NewGetOrdersByStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetNotificationsQueryHandler() queries.GetNotificationsQueryHandler {
	return queries.NewGetNotificationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() (*httpin.Server, error) {
	auth, err := httpin.NewAuthenticator(c.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	handlers := httpin.Handlers{
		SubmitShipping:       c.CreateSubmitShippingCommandHandler(),
		SetShippingCharge:    c.CreateSetShippingChargeCommandHandler(),
		ConfirmOrder:         c.CreateConfirmOrderCommandHandler(),
		CancelOrder:          c.CreateCancelOrderCommandHandler(),
		MarkNotificationRead: c.CreateMarkNotificationReadCommandHandler(),
		OrdersByStatus:       c.CreateGetOrdersByStatusQueryHandler(),
		GetOrder:             c.CreateGetOrderQueryHandler(),
		Notifications:        c.CreateGetNotificationsQueryHandler(),
	}
	return httpin.NewServer(handlers, auth, c.cfg.HomeCountry, c.log), nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	digest := jobs.NewPendingReviewDigestJob(
		c.uowFactory.Create().OrderRepository(),
		c.planner,
		c.runner,
		c.cfg.DigestCron,
		c.cfg.DigestMinAge,
		c.log,
	)
	return jobs.NewJobManager(digest)
}

// Wait blocks until dispatched side effects finish or ctx ends.
func (c *CompositionRoot) Wait(ctx context.Context) error {
	return c.runner.Wait(ctx)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}
