package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiznet/internal/config"
	"quiznet/internal/domain"
	fileloader "quiznet/internal/infra/file"
	"quiznet/internal/infra/memory"
	pgloader "quiznet/internal/infra/postgres"
	redisbank "quiznet/internal/infra/redis"
	"quiznet/internal/quiz"
	"quiznet/internal/server"
	transport "quiznet/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// BankRepository resolves the question bank used for the run.
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port, questions *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, *questions)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag, questionsFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		// The config file is optional; flags and defaults carry a bare run.
		if !os.IsNotExist(err) {
			return err
		}
		cfg = config.Config{}
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "9000"
	}

	questionsFile := questionsFlag
	if questionsFile == "" {
		questionsFile = cfg.Quiz.QuestionsFile
	}
	if questionsFile == "" {
		questionsFile = "questions.txt"
	}

	bankID := cfg.Quiz.Bank
	if bankID == "" {
		bankID = "default"
	}
	perQuestion := config.Duration(cfg.Quiz.QuestionTime, 15*time.Second)
	countdown := config.Duration(cfg.Quiz.CountdownTime, 3*time.Second)

	var loader memory.BankLoader = fileloader.NewBankLoader(questionsFile)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgloader.NewBankLoader(pool)
	}

	bankTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)
	var banks BankRepository
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		banks = redisbank.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}

	bank, err := banks.GetBank(ctx, bankID)
	if err != nil {
		return err
	}
	log.Printf("loaded bank %q with %d questions", bank.ID, len(bank.Questions))

	board := quiz.NewScoreboard()
	sched := quiz.NewScheduler(bank)
	hub := server.NewHub(bank, board, sched, countdown, perQuestion)

	tcpServer, err := server.NewTCPServer(hub, ":"+finalPort)
	if err != nil {
		return err
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan struct{})
	go hub.Run(stop)
	go func() {
		if err := tcpServer.Serve(serveCtx); err != nil {
			log.Printf("tcp server stopped: %v", err)
		}
	}()

	var wsServer *http.Server
	if cfg.Server.WSPort != "" {
		wsHandler := transport.NewWSHandler(hub)
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})
		mux.HandleFunc("/ws", wsHandler.ServeWS)
		wsServer = &http.Server{
			Addr:         ":" + cfg.Server.WSPort,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			log.Printf("websocket bridge on :%s", cfg.Server.WSPort)
			if err := wsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("websocket bridge stopped: %v", err)
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sig:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	cancel()
	close(stop)
	<-hub.Done()

	if wsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return wsServer.Shutdown(shutdownCtx)
	}
	return nil
}
