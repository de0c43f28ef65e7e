package shared

type ServerConfig struct {
	Caru    CaruConfig    `mapstructure:"caru" validate:"required"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Twilio  TwilioConfig  `mapstructure:"twilio"`
	Owner   OwnerConfig   `mapstructure:"owner"`
}

type CaruConfig struct {
	Listener ListenerConfig `mapstructure:"listener" validate:"required"`
	Cron     CronConfig     `mapstructure:"cron" validate:"required"`
	Cors     CorsConfig     `mapstructure:"cors"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required"`
}

type CronConfig struct {
	TimeZone string `mapstructure:"timeZone" validate:"required"`
}

type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type MonitorConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type TwilioConfig struct {
	AccountSid          string `mapstructure:"accountSid"`
	AuthToken           string `mapstructure:"authToken"`
	MessagingServiceSid string `mapstructure:"messagingServiceSid"`
}

// Enabled reports whether twilio credentials are present; without them
// the sms channel stays on the logging sink.
func (config TwilioConfig) Enabled() bool {
	return config.AccountSid != "" && config.AuthToken != "" && config.MessagingServiceSid != ""
}

// OwnerConfig seeds the singleton user profile at boot.
type OwnerConfig struct {
	Name  string `mapstructure:"name"`
	Phone string `mapstructure:"phone"`
	Email string `mapstructure:"email" validate:"omitempty,email"`
}
