package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	OSS      OSSConfig      `mapstructure:"oss"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Plans    PlansConfig    `mapstructure:"plans"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Sweep    SweepConfig    `mapstructure:"sweep"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Mode        string `mapstructure:"mode"`
	FrontendURL string `mapstructure:"frontend_url"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type AdminConfig struct {
	// BootstrapKey 创建首个管理员时必须提供的密钥
	BootstrapKey string `mapstructure:"bootstrap_key"`
}

type PlansConfig struct {
	Levels map[string]PlanLevel `mapstructure:"levels"`
	// DurationDays 支付批准后订阅的时长（默认 30 天）
	DurationDays int `mapstructure:"duration_days"`
}

type PlanLevel struct {
	Price    int      `mapstructure:"price"`
	Features []string `mapstructure:"features"`
}

type PolicyConfig struct {
	// StrictPaymentStates 为 true 时终态支付记录不允许再次提交凭证
	StrictPaymentStates bool `mapstructure:"strict_payment_states"`
	// RejectSamePlan 为 true 时用户切换到当前相同套餐会被拒绝
	RejectSamePlan bool `mapstructure:"reject_same_plan"`
}

type SweepConfig struct {
	// IntervalMinutes 过期订阅巡检的执行间隔
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	// 检查 config.local.yaml 是否存在
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 默认严格：终态支付单不允许再次提交凭证
	viper.SetDefault("policy.strict_payment_states", true)

	// 环境变量覆盖
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Plans.Levels == nil {
		cfg.Plans.Levels = DefaultPlanLevels()
	}
	if cfg.Plans.DurationDays <= 0 {
		cfg.Plans.DurationDays = 30
	}
	if cfg.Sweep.IntervalMinutes <= 0 {
		cfg.Sweep.IntervalMinutes = 60
	}

	return &cfg, nil
}

// DefaultPlanLevels 默认的套餐价格与功能表
func DefaultPlanLevels() map[string]PlanLevel {
	return map[string]PlanLevel{
		"casual": {
			Price:    20,
			Features: []string{"leadsExtraction"},
		},
		"premium": {
			Price:    40,
			Features: []string{"leadsExtraction", "emailMarketing"},
		},
		"golden": {
			Price:    60,
			Features: []string{"leadsExtraction", "emailMarketing", "instagramSetter", "autoAgenda"},
		},
	}
}
