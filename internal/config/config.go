package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hardcodead/go-pi-i2c/mpu6050"
)

const DefaultAppName = "pi-i2c"
const DefaultConfigName = "config"
const DefaultBus = "1"
const DefaultInterval = "500ms"
const DefaultLCDAddress = 0x27
const DefaultLCDWidth = 16

var userHomeDir, _ = os.UserHomeDir()
var DefaultConfig = path.Join(userHomeDir, ".config", DefaultAppName, DefaultConfigName+".yaml")
var DefaultConfigSearchPath0 = path.Join(userHomeDir, ".config", DefaultAppName)

const DefaultConfigSearchPath1 = "/etc/" + DefaultAppName
const DefaultConfigSearchPath2 = "./"

type MPUOpt struct {
	Address            uint16 `yaml:"address" mapstructure:"address"`
	AccelRange         int    `yaml:"accel_range" mapstructure:"accel_range"` // g
	GyroRange          int    `yaml:"gyro_range" mapstructure:"gyro_range"`   // deg/s
	Strict             bool   `yaml:"strict" mapstructure:"strict"`
	PreciseTemperature bool   `yaml:"precise_temperature" mapstructure:"precise_temperature"`
}

type LCDOpt struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Address uint16 `yaml:"address" mapstructure:"address"`
	Width   int    `yaml:"width" mapstructure:"width"`
}

type Opt struct {
	Bus      string `yaml:"bus" mapstructure:"bus"`
	MPU      MPUOpt `yaml:"mpu" mapstructure:"mpu"`
	LCD      LCDOpt `yaml:"lcd" mapstructure:"lcd"`
	Interval string `yaml:"interval" mapstructure:"interval"`
	Debug    bool   `yaml:"debug" mapstructure:"debug"`
}

func NewOpt() Opt {
	return Opt{
		Bus: DefaultBus,
		MPU: MPUOpt{
			Address:    mpu6050.DefaultAddress,
			AccelRange: 2,
			GyroRange:  250,
		},
		LCD: LCDOpt{
			Enabled: true,
			Address: DefaultLCDAddress,
			Width:   DefaultLCDWidth,
		},
		Interval: DefaultInterval,
	}
}

// Validate checks ranges and the poll interval.
func (o Opt) Validate() error {
	if _, ok := mpu6050.AccelRangeFromG(o.MPU.AccelRange); !ok {
		return fmt.Errorf("mpu.accel_range: %d is not one of 2, 4, 8, 16", o.MPU.AccelRange)
	}
	if _, ok := mpu6050.GyroRangeFromDeg(o.MPU.GyroRange); !ok {
		return fmt.Errorf("mpu.gyro_range: %d is not one of 250, 500, 1000, 2000", o.MPU.GyroRange)
	}
	if _, err := o.PollInterval(); err != nil {
		return err
	}
	if o.LCD.Enabled && o.LCD.Width <= 0 {
		return fmt.Errorf("lcd.width: %d must be positive", o.LCD.Width)
	}
	return nil
}

func (o Opt) PollInterval() (time.Duration, error) {
	d, err := time.ParseDuration(o.Interval)
	if err != nil {
		return 0, fmt.Errorf("interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval: %s must be positive", o.Interval)
	}
	return d, nil
}

func setDefaults(v *viper.Viper) {
	def := NewOpt()
	v.SetDefault("bus", def.Bus)
	v.SetDefault("mpu.address", def.MPU.Address)
	v.SetDefault("mpu.accel_range", def.MPU.AccelRange)
	v.SetDefault("mpu.gyro_range", def.MPU.GyroRange)
	v.SetDefault("mpu.strict", def.MPU.Strict)
	v.SetDefault("mpu.precise_temperature", def.MPU.PreciseTemperature)
	v.SetDefault("lcd.enabled", def.LCD.Enabled)
	v.SetDefault("lcd.address", def.LCD.Address)
	v.SetDefault("lcd.width", def.LCD.Width)
	v.SetDefault("interval", def.Interval)
	v.SetDefault("debug", def.Debug)
}

// Parse loads the configuration: --config flag, then PII2C_CONFIG, then the
// default search paths. Environment variables and flags override the file.
func Parse(cmd *cobra.Command) (Opt, error) {
	vipCfg := viper.New()
	setDefaults(vipCfg)

	if configFileCmd, err := cmd.Flags().GetString("config"); err == nil && configFileCmd != "" {
		vipCfg.SetConfigFile(configFileCmd)
	} else if configFileEnv := os.Getenv("PII2C_CONFIG"); configFileEnv != "" {
		vipCfg.SetConfigFile(configFileEnv)
	} else {
		vipCfg.SetConfigName(DefaultConfigName)
		vipCfg.SetConfigType("yaml")
		vipCfg.AddConfigPath(DefaultConfigSearchPath0)
		vipCfg.AddConfigPath(DefaultConfigSearchPath1)
		vipCfg.AddConfigPath(DefaultConfigSearchPath2)
	}

	vipCfg.SetEnvPrefix("PII2C")
	vipCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vipCfg.AutomaticEnv()

	for key, flag := range map[string]string{"bus": "bus", "interval": "interval", "debug": "debug"} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = vipCfg.BindPFlag(key, f)
		}
	}

	if err := vipCfg.ReadInConfig(); err == nil {
		log.Debugln("using config file:", vipCfg.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return Opt{}, fmt.Errorf("read config: %w", err)
	}

	var opt Opt
	if err := vipCfg.Unmarshal(&opt); err != nil {
		return Opt{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := opt.Validate(); err != nil {
		return Opt{}, err
	}
	if opt.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	return opt, nil
}

// Dump writes opt as yaml to path. An existing file is only replaced when
// overwrite is set.
func Dump(opt Opt, p string, overwrite bool) error {
	if _, err := os.Stat(p); err == nil && !overwrite {
		return fmt.Errorf("%s already exists", p)
	}
	if err := os.MkdirAll(path.Dir(p), 0o755); err != nil {
		return err
	}
	buf, err := yaml.Marshal(opt)
	if err != nil {
		return err
	}
	return os.WriteFile(p, buf, 0o644)
}
