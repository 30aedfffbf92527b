package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/resto-planning/shift-planner/backend/internal/config"
	"github.com/resto-planning/shift-planner/backend/internal/mailer"
	"github.com/resto-planning/shift-planner/backend/internal/notify"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * Logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * Configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossible de charger la configuration", slog.String("error", err.Error()))
		return
	}
	if cfg.RabbitMQ.DSN == "" {
		logger.Error("RABBITMQ_DSN est requis pour le worker mail")
		return
	}

	composer, err := mailer.NewComposer(cfg.Email.SMTP.Username, cfg.Email.TemplateDir)
	if err != nil {
		logger.Error("impossible de charger les modèles de mail", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * Client SMTP
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("impossible de créer le client SMTP", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// vérifie que le serveur SMTP répond avant de consommer la file
	dialCtx, cancelDial := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancelDial()
	if err := client.DialWithContext(dialCtx); err != nil {
		logger.Error("impossible de joindre le serveur SMTP", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * RabbitMQ
	 **********************************************/
	conn, ch, err := notify.Connect(cfg.RabbitMQ.DSN, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Error("impossible de se connecter à RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()
	defer ch.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		cfg.RabbitMQ.Queue,
		"",    // nom attribué par RabbitMQ
		false, // acquittement manuel
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("impossible de consommer la file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Warn("canal RabbitMQ fermé")
					return
				}

				m, err := composer.Compose(msg.Body)
				if err != nil {
					// message inutilisable, on l'abandonne
					logger.Error("message de la file rejeté", slog.String("error", err.Error()), slog.String("body", string(msg.Body)))
					_ = msg.Nack(false, false)
					continue
				}

				if err := client.DialAndSend(m); err != nil {
					logger.Error("échec de l'envoi du mail", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // remis dans la file
					continue
				}

				logger.Info("mail envoyé", slog.Uint64("delivery_tag", msg.DeliveryTag))
				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("en attente de messages... (CTRL+C pour quitter)", "queue", cfg.RabbitMQ.Queue)
	<-sigChan

	slog.Info("arrêt du worker mail...")
	cancel()
	wg.Wait()
	slog.Info("worker mail arrêté")
}
