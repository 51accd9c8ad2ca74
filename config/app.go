package config

// App holds everything read from the environment at startup.
type App struct {
	LibraryFile string `env:"LIBRARY_FILE" default:"library.txt"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminSalt     string `env:"ADMIN_SALT"`
	AdminHash     string `env:"ADMIN_HASH"`

	// Mailer selects the notification sink: console, smtp or amqp.
	Mailer       string `env:"MAILER" default:"console"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" default:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	AMQPURL      string `env:"AMQP_URL"`
	AMQPQueue    string `env:"AMQP_QUEUE" default:"library.notifications"`

	Env string `env:"APP_ENV" default:"dev"`
}
