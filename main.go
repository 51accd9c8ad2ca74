package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/project-eman-Farah/dev-library/app/console"
	"github.com/project-eman-Farah/dev-library/config"
	"github.com/project-eman-Farah/dev-library/model"
	catalogrepo "github.com/project-eman-Farah/dev-library/repository/catalog"
	"github.com/project-eman-Farah/dev-library/repository/mailer"
	"github.com/project-eman-Farah/dev-library/service/auth"
	"github.com/project-eman-Farah/dev-library/service/fine"
	"github.com/project-eman-Farah/dev-library/service/lending"
	"github.com/project-eman-Farah/dev-library/service/reminder"
	"github.com/project-eman-Farah/dev-library/service/user"
	"github.com/project-eman-Farah/dev-library/util/hash"
)

func main() {
	genhash := flag.String("genhash", "", "print env credentials for user:password and exit")
	flag.Parse()

	if *genhash != "" {
		if err := printCredentials(*genhash); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log := zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	store := catalogrepo.New(cfg.LibraryFile, log)
	cat, err := store.Load()
	if err != nil {
		log.Error().Err(err).Str("file", cfg.LibraryFile).Msg("loading library file failed, starting empty")
		cat = model.NewCatalog()
	}

	mail := newMailer(cfg, log)

	fines := fine.NewLedger(log)
	lendSvc := lending.New(cat, fines, store, mail, log)
	authSvc := auth.New(cfg, log)
	users := user.NewManager()
	rem := reminder.New(mail)

	console.NewMenu(os.Stdin, os.Stdout, authSvc, lendSvc, fines, users, rem, log).Run()
}

// newMailer picks the notification transport. An unreachable broker falls
// back to console delivery so the library stays usable offline.
func newMailer(cfg config.App, log zerolog.Logger) mailer.Service {
	switch cfg.Mailer {
	case "smtp":
		return mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, log)
	case "amqp":
		svc, err := mailer.NewAMQP(cfg.AMQPURL, cfg.AMQPQueue, log)
		if err != nil {
			log.Error().Err(err).Msg("amqp connect failed, falling back to console mailer")
			return &mailer.Console{Out: os.Stdout}
		}
		return svc
	default:
		return &mailer.Console{Out: os.Stdout}
	}
}

// printCredentials emits the ADMIN_* env lines for a "user:password" pair.
func printCredentials(pair string) error {
	username, password, ok := strings.Cut(pair, ":")
	if !ok || username == "" || password == "" {
		return fmt.Errorf("expected user:password, got %q", pair)
	}

	salt := hash.NewSalt()

	fmt.Printf("ADMIN_USERNAME=%s\n", username)
	fmt.Printf("ADMIN_SALT=%s\n", hash.Encode(salt))
	fmt.Printf("ADMIN_HASH=%s\n", hash.Encode(hash.Password(password, salt)))
	return nil
}
