package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"

	pii2c "github.com/hardcodead/go-pi-i2c"
	"github.com/hardcodead/go-pi-i2c/internal/config"
	"github.com/hardcodead/go-pi-i2c/lcd"
	"github.com/hardcodead/go-pi-i2c/mpu6050"
	"github.com/hardcodead/go-pi-i2c/synchronized"
)

// station is the sensor and optional display sharing one bus.
type station struct {
	imu     *mpu6050.MPU6050
	display *synchronized.SynchronizedLCD
	bus     i2c.BusCloser
}

type openBusFunc func(name string) (i2c.BusCloser, error)

func openStation(opt config.Opt, open openBusFunc) (*station, error) {
	b, err := open(opt.Bus)
	if err != nil {
		return nil, err
	}
	s, err := newStation(opt, b)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return s, nil
}

func newStation(opt config.Opt, b i2c.BusCloser) (*station, error) {
	var shared synchronized.Bus
	s := &station{bus: b}

	opts := []mpu6050.Option{mpu6050.WithLogger(log.WithField("device", "mpu6050"))}
	if opt.MPU.Strict {
		opts = append(opts, mpu6050.WithStrictRanges())
	}
	if opt.MPU.PreciseTemperature {
		opts = append(opts, mpu6050.WithPreciseTemperature())
	}
	imu, err := mpu6050.New(shared.Guard(pii2c.Bind(b, opt.MPU.Address)), opts...)
	if err != nil {
		return nil, fmt.Errorf("wake mpu6050: %w", err)
	}
	accel, _ := mpu6050.AccelRangeFromG(opt.MPU.AccelRange)
	if err := imu.SetAccelRange(accel); err != nil {
		return nil, fmt.Errorf("set accel range: %w", err)
	}
	gyro, _ := mpu6050.GyroRangeFromDeg(opt.MPU.GyroRange)
	if err := imu.SetGyroRange(gyro); err != nil {
		return nil, fmt.Errorf("set gyro range: %w", err)
	}
	s.imu = imu

	if opt.LCD.Enabled {
		l := lcd.New(shared.Guard(pii2c.Bind(b, opt.LCD.Address)),
			lcd.WithWidth(opt.LCD.Width),
			lcd.WithLogger(log.WithField("device", "lcd")))
		if s.display, err = synchronized.NewSynchronizedLCD(l); err != nil {
			return nil, fmt.Errorf("initialize lcd: %w", err)
		}
	}
	log.WithFields(log.Fields{
		"bus": opt.Bus,
		"mpu": fmt.Sprintf("0x%02x", opt.MPU.Address),
		"lcd": opt.LCD.Enabled,
	}).Debugln("station ready")
	return s, nil
}

func (s *station) Close() error {
	return s.bus.Close()
}
