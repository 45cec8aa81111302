// Package config loads the hardware profile: ADC device and channel mapping,
// output pins, gas sensor calibration, and alarm thresholds. Runtime knobs
// (intervals, broker, margin) stay on command-line flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/flame-sensor/internal/adc"
	"github.com/sweeney/flame-sensor/internal/alarm"
	"github.com/sweeney/flame-sensor/internal/alert"
	"github.com/sweeney/flame-sensor/internal/gas"
)

// Config represents the hardware profile.
type Config struct {
	ADC   ADCConfig   `yaml:"adc"`
	Pins  PinsConfig  `yaml:"pins"`
	Gas   GasConfig   `yaml:"gas"`
	Temp  TempConfig  `yaml:"temp"`
	Alarm AlarmConfig `yaml:"alarm"`
}

// ADCConfig maps logical channels onto an IIO device.
type ADCConfig struct {
	Device     string `yaml:"device"`      // IIO sysfs directory
	IRChannels []int  `yaml:"ir_channels"` // in_voltageN indices for the 5 IR channels
	GasChannel int    `yaml:"gas_channel"` // in_voltageN index for the MQ-2
}

// PinsConfig holds output pin assignments (BCM numbering).
type PinsConfig struct {
	Green  int `yaml:"green"`
	Yellow int `yaml:"yellow"`
	Red    int `yaml:"red"`
	Buzzer int `yaml:"buzzer"`
}

// GasConfig holds the MQ-2 regression calibration.
type GasConfig struct {
	A    float64 `yaml:"a"`
	B    float64 `yaml:"b"`
	R0   float64 `yaml:"r0"`   // kOhm, from clean-air calibration
	RL   float64 `yaml:"rl"`   // kOhm
	VccV float64 `yaml:"vcc_v"`
}

// TempConfig holds the temperature probe location.
type TempConfig struct {
	Sensor string `yaml:"sensor"` // hwmon temp*_input path; empty disables
}

// AlarmConfig holds alarm trigger thresholds.
type AlarmConfig struct {
	TempC    float64 `yaml:"temp_c"`
	SmokePPM float64 `yaml:"smoke_ppm"`
}

// Default returns the profile for the reference hardware.
func Default() Config {
	return Config{
		ADC: ADCConfig{
			Device:     "/sys/bus/iio/devices/iio:device0",
			IRChannels: []int{0, 1, 2, 3, 4},
			GasChannel: 5,
		},
		Pins: PinsConfig{
			Green:  alert.DefaultPinGreen,
			Yellow: alert.DefaultPinYellow,
			Red:    alert.DefaultPinRed,
			Buzzer: alert.DefaultPinBuzzer,
		},
		Gas: GasConfig{
			A:    gas.DefaultModel.A,
			B:    gas.DefaultModel.B,
			R0:   gas.DefaultModel.R0,
			RL:   gas.DefaultModel.RL,
			VccV: gas.DefaultModel.VccV,
		},
		Alarm: AlarmConfig{
			TempC:    alarm.DefaultThresholds.TempC,
			SmokePPM: alarm.DefaultThresholds.SmokePPM,
		},
	}
}

// Load reads a YAML profile over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.ADC.IRChannels) != adc.DefaultIRChannels {
		return fmt.Errorf("adc.ir_channels: need %d entries, got %d",
			adc.DefaultIRChannels, len(c.ADC.IRChannels))
	}
	if c.Gas.R0 <= 0 || c.Gas.RL <= 0 || c.Gas.VccV <= 0 {
		return fmt.Errorf("gas: r0, rl, and vcc_v must be positive")
	}
	return nil
}

// GasModel returns the gas regression model from the profile.
func (c Config) GasModel() gas.Model {
	return gas.Model{A: c.Gas.A, B: c.Gas.B, R0: c.Gas.R0, RL: c.Gas.RL, VccV: c.Gas.VccV}
}

// AlertPins returns the output pin assignment from the profile.
func (c Config) AlertPins() alert.Pins {
	return alert.Pins{Green: c.Pins.Green, Yellow: c.Pins.Yellow, Red: c.Pins.Red, Buzzer: c.Pins.Buzzer}
}

// AlarmThresholds returns the alarm thresholds from the profile.
func (c Config) AlarmThresholds() alarm.Thresholds {
	return alarm.Thresholds{TempC: c.Alarm.TempC, SmokePPM: c.Alarm.SmokePPM}
}
