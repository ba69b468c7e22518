package config

// Model ids and tuning constants match what the hosted tutor runs with.
const (
	defaultPrimaryModel = "mistralai/mistral-small-3.2-24b-instruct-2506:free"
	defaultBackupModel  = "meta-llama/llama-3.3-70b-instruct:free"
	defaultVisionModel  = "qwen/qwen2.5-vl-32b-instruct:free"
)

// DefaultConfig returns the default configuration. Credentials default to
// empty slots and are expected to arrive via file or environment overrides.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Credentials: CredentialsConfig{
			Chat:   make([]string, 3),
			Vision: make([]string, 3),
		},
		Models: ModelSelection{
			Primary: defaultPrimaryModel,
			Backup:  defaultBackupModel,
			Vision:  defaultVisionModel,
		},
		Request: RequestConfig{
			MaxTokens:        1500,
			Temperature:      0.2,
			TopP:             0.9,
			FrequencyPenalty: 0.1,
			PresencePenalty:  0.1,
		},
		Dispatch: DispatchConfig{
			ChatTimeoutMs:   15000,
			VisionTimeoutMs: 25000,
			RetryDelayMs:    800,
			MaxRetries:      3,
		},
		Site: SiteConfig{
			Name: "ATOM AI - YO Library",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Data: DataConfig{
			Directory: GetDefaultDataPath(),
		},
	}
}
