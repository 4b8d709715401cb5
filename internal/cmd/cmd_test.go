package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"periph.io/x/conn/v3/i2c"

	pii2c "github.com/hardcodead/go-pi-i2c"
	"github.com/hardcodead/go-pi-i2c/internal/config"
	"github.com/hardcodead/go-pi-i2c/lcd"
	"github.com/hardcodead/go-pi-i2c/mpu6050"
	"github.com/hardcodead/go-pi-i2c/pii2ctest"
)

func createTestStation(opt config.Opt) (*pii2ctest.Recorder, *pii2ctest.Recorder, *pii2ctest.Bus) {
	imu := pii2ctest.New(opt.MPU.Address)
	display := pii2ctest.New(opt.LCD.Address)
	return imu, display, pii2ctest.NewBus(imu, display)
}

func TestStation(t *testing.T) {
	lcd.SettleDelay = 0
	lcd.DefaultDelay = 0

	Convey("opening wakes the sensor and applies ranges", t, func() {
		opt := config.NewOpt()
		opt.MPU.AccelRange = 4
		opt.MPU.GyroRange = 2000
		imu, display, bus := createTestStation(opt)

		s, err := openStation(opt, func(string) (i2c.BusCloser, error) { return bus, nil })
		So(err, ShouldBeNil)
		So(imu.Writes(), ShouldResemble, []pii2ctest.Op{
			{Kind: pii2ctest.Write, Reg: mpu6050.RegPowerMgmt1, Value: 0x00},
			{Kind: pii2ctest.Write, Reg: mpu6050.RegAccelConfig, Value: 0x00},
			{Kind: pii2ctest.Write, Reg: mpu6050.RegAccelConfig, Value: 0x08},
			{Kind: pii2ctest.Write, Reg: mpu6050.RegGyroConfig, Value: 0x00},
			{Kind: pii2ctest.Write, Reg: mpu6050.RegGyroConfig, Value: 0x18},
		})
		So(display.Raw(), ShouldNotBeEmpty)

		So(s.Close(), ShouldBeNil)
		So(bus.Closed, ShouldBeTrue)
	})

	Convey("a disabled lcd is left alone", t, func() {
		opt := config.NewOpt()
		opt.LCD.Enabled = false
		_, display, bus := createTestStation(opt)

		s, err := newStation(opt, bus)
		So(err, ShouldBeNil)
		So(s.display, ShouldBeNil)
		So(display.Ops, ShouldBeEmpty)
	})

	Convey("a missing sensor closes the bus", t, func() {
		opt := config.NewOpt()
		bus := pii2ctest.NewBus()

		_, err := openStation(opt, func(string) (i2c.BusCloser, error) { return bus, nil })
		So(err, ShouldNotBeNil)
		So(bus.Closed, ShouldBeTrue)
	})

	Convey("bus open failures are returned", t, func() {
		want := errors.New("no bus")
		_, err := openStation(config.NewOpt(), func(string) (i2c.BusCloser, error) { return nil, want })
		So(err, ShouldEqual, want)
	})
}

func TestPoll(t *testing.T) {
	lcd.SettleDelay = 0
	lcd.DefaultDelay = 0

	Convey("one sample is printed and shown before the context ends", t, func() {
		opt := config.NewOpt()
		imu, display, bus := createTestStation(opt)
		s, err := newStation(opt, bus)
		So(err, ShouldBeNil)
		imu.SetWord(mpu6050.RegAccelZOut, 16384)
		display.Reset()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var out bytes.Buffer
		So(s.poll(ctx, &out, time.Hour), ShouldBeNil)
		So(out.String(), ShouldContainSubstring, "MPU Temp:")
		So(out.String(), ShouldContainSubstring, "9.806")
		So(display.Raw(), ShouldHaveLength, 2*(1+opt.LCD.Width)*6)
	})

	Convey("the loop stops on the first bus fault", t, func() {
		opt := config.NewOpt()
		imu, _, bus := createTestStation(opt)
		s, err := newStation(opt, bus)
		So(err, ShouldBeNil)
		imu.Reset()
		imu.FailAt = 1

		err = s.poll(context.Background(), &bytes.Buffer{}, time.Millisecond)
		So(errors.Is(err, pii2c.ErrTransport), ShouldBeTrue)
	})

	Convey("display lines carry the acceleration", t, func() {
		lines := displayLines(mpu6050.Reading{Accel: [3]float64{1, -2, 9.81}})
		So(lines, ShouldResemble, []string{"x:1.0 y:-2.0", "z:9.8"})
	})
}

func TestSetRange(t *testing.T) {
	opt := config.NewOpt()
	opt.LCD.Enabled = false
	imu, _, bus := createTestStation(opt)
	s, _ := newStation(opt, bus)

	Convey("ranges are set by physical value", t, func() {
		So(s.setRange("accel", "16"), ShouldBeNil)
		So(imu.Registers[mpu6050.RegAccelConfig], ShouldEqual, 0x18)
		So(s.setRange("gyro", "500"), ShouldBeNil)
		So(imu.Registers[mpu6050.RegGyroConfig], ShouldEqual, 0x08)
	})

	Convey("bad input is rejected", t, func() {
		So(s.setRange("accel", "3"), ShouldNotBeNil)
		So(s.setRange("gyro", "x"), ShouldNotBeNil)
		So(s.setRange("mag", "2"), ShouldNotBeNil)
	})
}

func TestInitCmd(t *testing.T) {
	Convey("print writes the default template", t, func() {
		var out bytes.Buffer
		InitCmd.SetOut(&out)
		So(InitCmd.Flags().Set("print", "true"), ShouldBeNil)
		defer InitCmd.Flags().Set("print", "false")

		So(InitCmdRunE(InitCmd, nil), ShouldBeNil)
		So(out.String(), ShouldContainSubstring, "accel_range: 2")
		So(out.String(), ShouldContainSubstring, "interval: 500ms")
	})
}
