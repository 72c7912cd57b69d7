package config

import (
	"HealthTriageBot/database/postgres"
	escalationHandler "HealthTriageBot/internal/api/escalation/handler"
	escalationRepository "HealthTriageBot/internal/api/escalation/repository"
	escalationService "HealthTriageBot/internal/api/escalation/service"
	triageHandler "HealthTriageBot/internal/api/triage/handler"
	triageRepository "HealthTriageBot/internal/api/triage/repository"
	triageService "HealthTriageBot/internal/api/triage/service"
	"HealthTriageBot/internal/middleware"
	"HealthTriageBot/pkg/gemini"
	"HealthTriageBot/pkg/nlp"
	"HealthTriageBot/pkg/redis"
	"HealthTriageBot/pkg/whatsapp"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	handlers       []handler
	redisServer    redis.IRedis
	whatsappClient whatsapp.IWhatsappSender
	engineCfg      triageService.Config
	dispatcherCfg  escalationService.DispatcherConfig
	refData        *nlp.ReferenceData
	classifier     nlp.IClassifier
	escalations    escalationService.IEscalationService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.refData == nil {
		return nil, fmt.Errorf("reference data is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		if os.Getenv("DB_HOST") == "" {
			if s.log != nil {
				s.log.Warn("DB_HOST not set, turn audit and incident persistence are disabled")
			}
			return nil
		}

		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithEngineConfig() ServerOption {
	return func(s *Server) error {
		cfg, err := triageService.NewConfigFromEnv()
		if err != nil {
			return fmt.Errorf("invalid engine config: %w", err)
		}
		s.engineCfg = cfg

		dispatcherCfg, err := escalationService.NewDispatcherConfigFromEnv()
		if err != nil {
			return fmt.Errorf("invalid dispatcher config: %w", err)
		}
		s.dispatcherCfg = dispatcherCfg

		refData, err := nlp.LoadReferenceData(cfg.ReferenceDataPath)
		if err != nil {
			return fmt.Errorf("failed to load reference data: %w", err)
		}
		s.refData = refData
		return nil
	}
}

func WithWhatsappClient() ServerOption {
	return func(s *Server) error {
		if os.Getenv("WHATSAPP_MODE") == "noop" {
			s.whatsappClient = whatsapp.NewNoop()
			return nil
		}

		client, err := whatsapp.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize WhatsApp client: %v", err)
			}
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		s.whatsappClient = client
		return nil
	}
}

// WithClassifier selects the intent backend. CLASSIFIER_BACKEND=gemini swaps
// in the Gemini client, with the rule classifier still behind it as fallback.
func WithClassifier() ServerOption {
	return func(s *Server) error {
		if s.refData == nil {
			return fmt.Errorf("engine config must be initialized before classifier")
		}

		rules := nlp.NewRuleClassifier(s.refData)
		if os.Getenv("CLASSIFIER_BACKEND") != "gemini" {
			s.classifier = rules
			return nil
		}

		client, err := gemini.NewClassifier(rules)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini classifier: %v", err)
			}
			return fmt.Errorf("failed to create Gemini classifier: %w", err)
		}
		s.classifier = client
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Escalation Domain
	var incidentRepo escalationRepository.Repository
	var turnRepo triageRepository.Repository
	if s.db != nil {
		incidentRepo = escalationRepository.New(s.db, s.log)
		turnRepo = triageRepository.New(s.db, s.log)
	}

	s.escalations = escalationService.New(s.log, s.dispatcherCfg, incidentRepo, s.whatsappClient)
	s.escalations.Start()

	// Triage Domain
	var sessions triageRepository.ISessionStore
	if s.redisServer != nil {
		sessions = triageRepository.NewRedisSessionStore(s.redisServer, s.engineCfg.SessionTimeout, s.log)
	} else {
		sessions = triageRepository.NewMemorySessionStore(s.engineCfg.SessionTimeout)
	}

	scorer := nlp.NewOverlapScorer(s.refData)
	triageServices := triageService.New(
		s.log,
		s.engineCfg,
		sessions,
		turnRepo,
		s.classifier,
		scorer,
		s.refData,
		s.escalations,
		s.dispatcherCfg.WebhookVerifyToken,
	)
	triageHandlers := triageHandler.New(s.log, s.validator, s.middleware, triageServices)

	escalationHandlers := escalationHandler.New(s.log, s.validator, s.middleware, s.escalations, triageServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, triageHandlers, escalationHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		s.Shutdown()
		return err
	}

	return nil
}

// Shutdown drains the escalation queue and disconnects outbound channels.
func (s *Server) Shutdown() {
	if s.escalations != nil {
		s.escalations.Shutdown()
	}
	if s.whatsappClient != nil {
		s.whatsappClient.Disconnect()
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
