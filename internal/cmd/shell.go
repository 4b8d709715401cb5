package cmd

import (
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/fatih/color"

	"github.com/hardcodead/go-pi-i2c/mpu6050"
)

var errText = color.New(color.FgRed).SprintFunc()

// shellCmds are the interactive commands bound to a station.
func (s *station) shellCmds() []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name: "temp",
			Help: "temp",
			Func: func(c *ishell.Context) {
				t, err := s.imu.Temperature()
				if err != nil {
					c.Println(errText(err))
					return
				}
				c.Println(label("MPU Temp:"), value("%.2f", t))
			},
		},
		{
			Name: "accel",
			Help: "accel [g]",
			Func: func(c *ishell.Context) {
				inG := len(c.Args) > 0 && c.Args[0] == "g"
				v, err := s.imu.AccelData(inG)
				if err != nil {
					c.Println(errText(err))
					return
				}
				c.Println(label("MPU Accel:"), value("%.4f %.4f %.4f", v.X(), v.Y(), v.Z()))
			},
		},
		{
			Name: "gyro",
			Help: "gyro",
			Func: func(c *ishell.Context) {
				v, err := s.imu.GyroData()
				if err != nil {
					c.Println(errText(err))
					return
				}
				c.Println(label("MPU Gyro:"), value("%.4f %.4f %.4f", v.X(), v.Y(), v.Z()))
			},
		},
		{
			Name: "range",
			Help: "range [accel <g>|gyro <deg>]",
			Func: func(c *ishell.Context) {
				if len(c.Args) == 2 {
					if err := s.setRange(c.Args[0], c.Args[1]); err != nil {
						c.Println(errText(err))
						return
					}
				}
				g, err := s.imu.AccelRangeG()
				if err != nil {
					c.Println(errText(err))
					return
				}
				d, err := s.imu.GyroRangeDeg()
				if err != nil {
					c.Println(errText(err))
					return
				}
				c.Println(label("accel:"), value("%dg", g), label("gyro:"), value("%ddeg/s", d))
			},
		},
		{
			Name: "lcd",
			Help: "lcd <line> <text>",
			Func: func(c *ishell.Context) {
				if s.display == nil {
					c.Println(errText("lcd disabled"))
					return
				}
				if len(c.Args) < 2 {
					c.Println("usage: lcd <line> <text>")
					return
				}
				line, err := strconv.Atoi(c.Args[0])
				if err != nil {
					c.Println(errText(err))
					return
				}
				if err := s.display.WriteString(strings.Join(c.Args[1:], " "), line); err != nil {
					c.Println(errText(err))
				}
			},
		},
		{
			Name: "clear",
			Help: "clear the lcd",
			Func: func(c *ishell.Context) {
				if s.display == nil {
					c.Println(errText("lcd disabled"))
					return
				}
				if err := s.display.Clear(); err != nil {
					c.Println(errText(err))
				}
			},
		},
	}
}

func (s *station) setRange(which, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return err
	}
	switch which {
	case "accel":
		r, ok := mpu6050.AccelRangeFromG(n)
		if !ok {
			return errRange(which, n)
		}
		return s.imu.SetAccelRange(r)
	case "gyro":
		r, ok := mpu6050.GyroRangeFromDeg(n)
		if !ok {
			return errRange(which, n)
		}
		return s.imu.SetGyroRange(r)
	}
	return errRange(which, n)
}
