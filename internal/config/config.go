package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-moonshot/internal/types"
	"github.com/rxtech-lab/argo-moonshot/internal/version"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the config schema version written by Default.
const CurrentVersion = "1.0.0"

// Exchange kinds accepted by ExchangeConfig.Kind.
const (
	ExchangeSimulated = "simulated"
	ExchangeBinance   = "binance"
	ExchangePolygon   = "polygon"
)

// Indicator modes accepted by IndicatorConfig.Mode.
const (
	IndicatorModeProxy   = "proxy"
	IndicatorModeRolling = "rolling"
)

// Config is the complete engine configuration. Every policy constant lives here so
// that thresholds can be tuned without touching strategy code.
type Config struct {
	Version   string          `yaml:"version" json:"version" validate:"required" jsonschema:"title=Version,description=Config schema version,default=1.0.0"`
	Exchange  ExchangeConfig  `yaml:"exchange" json:"exchange"`
	Data      DataConfig      `yaml:"data" json:"data"`
	Sentiment SentimentConfig `yaml:"sentiment" json:"sentiment"`
	Indicator IndicatorConfig `yaml:"indicator" json:"indicator"`
	Model     ModelConfig     `yaml:"model" json:"model"`
	Core      CoreConfig      `yaml:"core" json:"core"`
	Moonshot  MoonshotConfig  `yaml:"moonshot" json:"moonshot"`
	Journal   JournalConfig   `yaml:"journal" json:"journal"`
	API       APIConfig       `yaml:"api" json:"api"`
}

// ExchangeConfig selects and configures the price source.
// Credentials never come from YAML; see LoadSecrets.
type ExchangeConfig struct {
	Kind       string        `yaml:"kind" json:"kind" validate:"required,oneof=simulated binance polygon" jsonschema:"title=Kind,description=Exchange implementation,enum=simulated,enum=binance,enum=polygon"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0" jsonschema:"title=Timeout,description=Upper bound on a single exchange request"`
	QuoteAsset string        `yaml:"quote_asset" json:"quote_asset" validate:"required" jsonschema:"title=Quote Asset,description=Asset prices are quoted in (USDT for Binance)"`
	Testnet    bool          `yaml:"testnet" json:"testnet" jsonschema:"title=Testnet,description=Use the Binance testnet endpoints"`
	// Seed makes the simulated exchange reproducible; 0 seeds from the clock
	Seed int64 `yaml:"seed" json:"seed" jsonschema:"title=Seed,description=Random seed for the simulated exchange"`

	APIKey        string `yaml:"-" json:"-"`
	SecretKey     string `yaml:"-" json:"-"`
	PolygonAPIKey string `yaml:"-" json:"-"`
}

// DataConfig controls the market and sentiment refresh loop.
type DataConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" json:"refresh_interval" validate:"gt=0" jsonschema:"title=Refresh Interval,description=Cadence of the market and sentiment refresh"`
	HistorySize     int           `yaml:"history_size" json:"history_size" validate:"gte=2" jsonschema:"title=History Size,description=Samples kept per symbol for velocity and rolling indicators"`
}

// SentimentConfig configures the synthetic sentiment source and its classifier.
type SentimentConfig struct {
	BuyThreshold     float64 `yaml:"buy_threshold" json:"buy_threshold" jsonschema:"title=Buy Threshold,description=Scores above this classify as BUY"`
	SellThreshold    float64 `yaml:"sell_threshold" json:"sell_threshold" validate:"ltefield=BuyThreshold" jsonschema:"title=Sell Threshold,description=Scores below this classify as SELL"`
	SpikeProbability float64 `yaml:"spike_probability" json:"spike_probability" validate:"gte=0,lte=1" jsonschema:"title=Spike Probability,description=Chance per refresh that a moonshot symbol shows a social spike"`
	PostsPerSample   int     `yaml:"posts_per_sample" json:"posts_per_sample" validate:"gt=0" jsonschema:"title=Posts Per Sample,description=Mock posts aggregated per symbol and refresh"`
	Seed             int64   `yaml:"seed" json:"seed" jsonschema:"title=Seed,description=Random seed for the synthetic source"`
}

// IndicatorConfig selects how technical indicators are computed.
type IndicatorConfig struct {
	Mode       string  `yaml:"mode" json:"mode" validate:"required,oneof=proxy rolling" jsonschema:"title=Mode,enum=proxy,enum=rolling"`
	RSIPeriod  int     `yaml:"rsi_period" json:"rsi_period" validate:"gt=0"`
	MACDFast   int     `yaml:"macd_fast" json:"macd_fast" validate:"gt=0"`
	MACDSlow   int     `yaml:"macd_slow" json:"macd_slow" validate:"gtfield=MACDFast"`
	BullishRSI float64 `yaml:"bullish_rsi" json:"bullish_rsi" validate:"gte=0,lte=100" jsonschema:"description=Proxy RSI above this is a bullish trend"`
	BearishRSI float64 `yaml:"bearish_rsi" json:"bearish_rsi" validate:"gte=0,ltefield=BullishRSI" jsonschema:"description=Proxy RSI below this is a bearish trend"`
}

// FeatureScales are the values at which each model feature saturates to 1.
type FeatureScales struct {
	SocialVolume  float64 `yaml:"social_volume" json:"social_volume" validate:"gt=0"`
	Sentiment     float64 `yaml:"sentiment" json:"sentiment" validate:"gt=0"`
	PriceVelocity float64 `yaml:"price_velocity" json:"price_velocity" validate:"gt=0"`
	VolumeSpike   float64 `yaml:"volume_spike" json:"volume_spike" validate:"gt=0"`
}

// ActivationThresholds decide which features count as active during learning.
type ActivationThresholds struct {
	SocialVolume  float64 `yaml:"social_volume" json:"social_volume"`
	Sentiment     float64 `yaml:"sentiment" json:"sentiment"`
	PriceVelocity float64 `yaml:"price_velocity" json:"price_velocity"`
	VolumeSpike   float64 `yaml:"volume_spike" json:"volume_spike"`
}

// ModelConfig configures the adaptive signal model.
type ModelConfig struct {
	Weights        types.WeightVector   `yaml:"weights" json:"weights"`
	Confidence     float64              `yaml:"confidence" json:"confidence" validate:"gtefield=MinConfidence,ltefield=MaxConfidence"`
	MinConfidence  float64              `yaml:"min_confidence" json:"min_confidence" validate:"gt=0"`
	MaxConfidence  float64              `yaml:"max_confidence" json:"max_confidence" validate:"lte=1"`
	ConfidenceStep float64              `yaml:"confidence_step" json:"confidence_step" validate:"gt=0"`
	LearningRate   float64              `yaml:"learning_rate" json:"learning_rate" validate:"gt=0"`
	Window         int                  `yaml:"window" json:"window" validate:"gt=0" jsonschema:"description=Trailing outcomes used for the win rate"`
	WinRateHigh    float64              `yaml:"win_rate_high" json:"win_rate_high" validate:"gte=0,lte=1"`
	WinRateLow     float64              `yaml:"win_rate_low" json:"win_rate_low" validate:"gte=0,ltefield=WinRateHigh"`
	BuyThreshold   float64              `yaml:"buy_threshold" json:"buy_threshold" validate:"gte=0,lte=1"`
	SellThreshold  float64              `yaml:"sell_threshold" json:"sell_threshold" validate:"gte=0,ltefield=BuyThreshold"`
	Scales         FeatureScales        `yaml:"scales" json:"scales"`
	Activation     ActivationThresholds `yaml:"activation" json:"activation"`
}

// CoreConfig configures the conservative technical strategy.
type CoreConfig struct {
	InitialBalance    float64       `yaml:"initial_balance" json:"initial_balance" jsonschema:"title=Initial Balance,minimum=0"`
	Interval          time.Duration `yaml:"interval" json:"interval" validate:"gt=0"`
	Universe          []string      `yaml:"universe" json:"universe" validate:"min=1,dive,required"`
	MajorSymbols      []string      `yaml:"major_symbols" json:"major_symbols" jsonschema:"description=Symbols sized with MajorPositionSize"`
	BuyThreshold      float64       `yaml:"buy_threshold" json:"buy_threshold"`
	SellThreshold     float64       `yaml:"sell_threshold" json:"sell_threshold"`
	RSIOverbought     float64       `yaml:"rsi_overbought" json:"rsi_overbought" validate:"gte=0,lte=100"`
	RSIExit           float64       `yaml:"rsi_exit" json:"rsi_exit" validate:"gte=0,lte=100"`
	ProfitTarget      float64       `yaml:"profit_target" json:"profit_target" validate:"gt=0"`
	StopLoss          float64       `yaml:"stop_loss" json:"stop_loss" validate:"lt=0"`
	PositionSize      float64       `yaml:"position_size" json:"position_size" validate:"gt=0,lte=1"`
	MajorPositionSize float64       `yaml:"major_position_size" json:"major_position_size" validate:"gt=0,lte=1"`
}

// MoonshotConfig configures the adaptive strategy.
type MoonshotConfig struct {
	InitialBalance float64       `yaml:"initial_balance" json:"initial_balance" jsonschema:"title=Initial Balance,minimum=0"`
	Interval       time.Duration `yaml:"interval" json:"interval" validate:"gt=0"`
	Universe       []string      `yaml:"universe" json:"universe" validate:"min=1,dive,required"`
	BuyThreshold   float64       `yaml:"buy_threshold" json:"buy_threshold"`
	SellThreshold  float64       `yaml:"sell_threshold" json:"sell_threshold"`
	TakeProfit     float64       `yaml:"take_profit" json:"take_profit" validate:"gt=0"`
	StopLoss       float64       `yaml:"stop_loss" json:"stop_loss" validate:"lt=0"`
	MaxHold        time.Duration `yaml:"max_hold" json:"max_hold" validate:"gt=0"`
	RecycleFloor   float64       `yaml:"recycle_floor" json:"recycle_floor" jsonschema:"description=Positions held past MaxHold below this return are recycled"`
	PositionSize   float64       `yaml:"position_size" json:"position_size" validate:"gt=0,lte=1"`
}

// JournalConfig enables the write-only trade journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path" validate:"required_if=Enabled true" jsonschema:"description=DuckDB file, or :memory:"`
}

// APIConfig enables the read-only HTTP views.
type APIConfig struct {
	// Addr is the listen address; empty disables the server
	Addr           string        `yaml:"addr" json:"addr"`
	StatusInterval time.Duration `yaml:"status_interval" json:"status_interval" validate:"gt=0"`
}

// Default returns a complete configuration with the reference policy constants.
func Default() Config {
	return Config{
		Version: CurrentVersion,
		Exchange: ExchangeConfig{
			Kind:       ExchangeSimulated,
			Timeout:    5 * time.Second,
			QuoteAsset: "USDT",
		},
		Data: DataConfig{
			RefreshInterval: 60 * time.Second,
			HistorySize:     26,
		},
		Sentiment: SentimentConfig{
			BuyThreshold:     0.06,
			SellThreshold:    0.04,
			SpikeProbability: 0.05,
			PostsPerSample:   20,
		},
		Indicator: IndicatorConfig{
			Mode:       IndicatorModeProxy,
			RSIPeriod:  14,
			MACDFast:   12,
			MACDSlow:   26,
			BullishRSI: 55,
			BearishRSI: 45,
		},
		Model: ModelConfig{
			Weights: types.WeightVector{
				SocialVolume:  0.4,
				Sentiment:     0.3,
				PriceVelocity: 0.2,
				VolumeSpike:   0.1,
			},
			Confidence:     0.5,
			MinConfidence:  0.2,
			MaxConfidence:  1.0,
			ConfidenceStep: 0.05,
			LearningRate:   0.01 * 0.1,
			Window:         10,
			WinRateHigh:    0.6,
			WinRateLow:     0.4,
			BuyThreshold:   0.7,
			SellThreshold:  0.3,
			Scales: FeatureScales{
				SocialVolume:  1000,
				Sentiment:     0.15,
				PriceVelocity: 0.1,
				VolumeSpike:   1.0,
			},
			Activation: ActivationThresholds{
				SocialVolume:  500,
				Sentiment:     0.05,
				PriceVelocity: 0.05,
				VolumeSpike:   0.2,
			},
		},
		Core: CoreConfig{
			InitialBalance:    10000,
			Interval:          120 * time.Second,
			Universe:          []string{"BTC", "ETH", "SOL", "ADA", "DOT", "LINK"},
			MajorSymbols:      []string{"BTC", "ETH"},
			BuyThreshold:      0.06,
			SellThreshold:     0.04,
			RSIOverbought:     70,
			RSIExit:           75,
			ProfitTarget:      0.03,
			StopLoss:          -0.05,
			PositionSize:      0.02,
			MajorPositionSize: 0.03,
		},
		Moonshot: MoonshotConfig{
			InitialBalance: 10000,
			Interval:       30 * time.Second,
			Universe:       []string{"PEPE", "SHIB", "DOGE", "FLOKI", "BONK", "WIF"},
			BuyThreshold:   0.08,
			SellThreshold:  0.02,
			TakeProfit:     0.15,
			StopLoss:       -0.05,
			MaxHold:        2 * time.Hour,
			RecycleFloor:   0.03,
			PositionSize:   0.02,
		},
		Journal: JournalConfig{
			Path: "argo-moonshot.duckdb",
		},
		API: APIConfig{
			StatusInterval: 5 * time.Second,
		},
	}
}

// Load reads a YAML config file on top of Default, fills secrets from the environment
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(data)
}

// Parse decodes YAML bytes on top of Default, fills secrets from the environment
// and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	LoadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the config version, the initial capital of every strategy and
// the struct constraints.
func (c *Config) Validate() error {
	if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
		return errors.Wrap(errors.ErrCodeUnsupportedVersion, "unsupported config version", err)
	}

	if c.Core.InitialBalance <= 0 {
		return errors.Newf(errors.ErrCodeInvalidInitialCapital, "core initial balance must be positive, got %v", c.Core.InitialBalance)
	}

	if c.Moonshot.InitialBalance <= 0 {
		return errors.Newf(errors.ErrCodeInvalidInitialCapital, "moonshot initial balance must be positive, got %v", c.Moonshot.InitialBalance)
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if c.Exchange.Kind == ExchangePolygon && c.Exchange.PolygonAPIKey == "" {
		return errors.New(errors.ErrCodeInvalidConfiguration, "polygon exchange requires POLYGON_API_KEY")
	}

	return nil
}

// Marshal encodes the config as YAML. Secrets are never written.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
