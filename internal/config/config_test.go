package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cobra"
)

func testCommand(configFile string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", configFile, "")
	cmd.Flags().String("bus", DefaultBus, "")
	cmd.Flags().String("interval", DefaultInterval, "")
	cmd.Flags().Bool("debug", false, "")
	return cmd
}

func writeConfig(t *testing.T, body string) string {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParse(t *testing.T) {
	Convey("values come from the file", t, func() {
		p := writeConfig(t, `
bus: "0"
mpu:
  address: 0x69
  accel_range: 8
  gyro_range: 1000
  strict: true
lcd:
  enabled: false
interval: 2s
`)
		opt, err := Parse(testCommand(p))
		So(err, ShouldBeNil)
		So(opt.Bus, ShouldEqual, "0")
		So(opt.MPU.Address, ShouldEqual, 0x69)
		So(opt.MPU.AccelRange, ShouldEqual, 8)
		So(opt.MPU.GyroRange, ShouldEqual, 1000)
		So(opt.MPU.Strict, ShouldBeTrue)
		So(opt.LCD.Enabled, ShouldBeFalse)
		So(opt.LCD.Width, ShouldEqual, DefaultLCDWidth)

		d, err := opt.PollInterval()
		So(err, ShouldBeNil)
		So(d, ShouldEqual, 2*time.Second)
	})

	Convey("environment overrides the file", t, func() {
		p := writeConfig(t, "bus: \"0\"\n")
		t.Setenv("PII2C_BUS", "3")
		t.Setenv("PII2C_LCD_WIDTH", "20")

		opt, err := Parse(testCommand(p))
		So(err, ShouldBeNil)
		So(opt.Bus, ShouldEqual, "3")
		So(opt.LCD.Width, ShouldEqual, 20)
	})

	Convey("bad ranges are rejected", t, func() {
		p := writeConfig(t, "mpu:\n  accel_range: 3\n")
		_, err := Parse(testCommand(p))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "accel_range")
	})

	Convey("a missing explicit file is an error", t, func() {
		_, err := Parse(testCommand(filepath.Join(t.TempDir(), "nope.yaml")))
		So(err, ShouldNotBeNil)
	})
}

func TestValidate(t *testing.T) {
	Convey("defaults are valid", t, func() {
		So(NewOpt().Validate(), ShouldBeNil)
	})

	Convey("intervals must parse and be positive", t, func() {
		opt := NewOpt()
		opt.Interval = "soon"
		So(opt.Validate(), ShouldNotBeNil)
		opt.Interval = "-1s"
		So(opt.Validate(), ShouldNotBeNil)
	})

	Convey("gyro ranges are checked", t, func() {
		opt := NewOpt()
		opt.MPU.GyroRange = 300
		So(opt.Validate(), ShouldNotBeNil)
	})

	Convey("an enabled lcd needs a width", t, func() {
		opt := NewOpt()
		opt.LCD.Width = 0
		So(opt.Validate(), ShouldNotBeNil)
		opt.LCD.Enabled = false
		So(opt.Validate(), ShouldBeNil)
	})
}

func TestDump(t *testing.T) {
	Convey("a dumped template parses back", t, func() {
		p := filepath.Join(t.TempDir(), "sub", "config.yaml")
		So(Dump(NewOpt(), p, false), ShouldBeNil)

		opt, err := Parse(testCommand(p))
		So(err, ShouldBeNil)
		So(opt, ShouldResemble, NewOpt())
	})

	Convey("existing files are kept unless overwrite is set", t, func() {
		p := writeConfig(t, "bus: \"0\"\n")
		So(Dump(NewOpt(), p, false), ShouldNotBeNil)
		So(Dump(NewOpt(), p, true), ShouldBeNil)
	})
}
