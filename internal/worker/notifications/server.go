package notifications

import (
	"fmt"

	"github.com/hibiken/asynq"
)

// ServerConfig параметры воркера очереди
type ServerConfig struct {
	Concurrency int
	Queue       string
}

// Server воркер asynq, обрабатывающий задачи уведомлений в том же процессе
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log Logger
}

func NewServer(opt asynq.RedisConnOpt, cfg ServerConfig, handler *Handler, log Logger) *Server {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.Queue == "" {
		cfg.Queue = "default"
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{cfg.Queue: 1},
		Logger:      asynqLogger{log: log},
	})

	return &Server{srv: srv, mux: handler.Mux(), log: log}
}

// Start запускает обработку в фоне
func (s *Server) Start() error {
	if err := s.srv.Start(s.mux); err != nil {
		return fmt.Errorf("start notification worker: %w", err)
	}
	s.log.Info("Notification worker started")
	return nil
}

// Shutdown дожидается текущих задач и останавливает воркер
func (s *Server) Shutdown() {
	s.srv.Shutdown()
	s.log.Info("Notification worker stopped")
}

// asynqLogger адаптер printf-логгера к asynq.Logger
type asynqLogger struct {
	log Logger
}

func (l asynqLogger) Debug(args ...interface{}) {}
func (l asynqLogger) Info(args ...interface{})  { l.log.Info("asynq: %s", fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn("asynq: %s", fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error("asynq: %s", fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Error("asynq: fatal: %s", fmt.Sprint(args...)) }
