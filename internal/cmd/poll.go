package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"github.com/hardcodead/go-pi-i2c/mpu6050"
)

var (
	label = color.New(color.FgCyan).SprintFunc()
	value = color.New(color.FgHiWhite, color.Bold).SprintfFunc()
)

func printReading(w io.Writer, r mpu6050.Reading) {
	fmt.Fprintln(w, label("MPU Temp:"), value("%.2f", r.Temperature))
	for i, axis := range []string{"x", "y", "z"} {
		fmt.Fprintln(w, label("MPU Accel "+axis+":"), value("%.4f", r.Accel[i]))
	}
	for i, axis := range []string{"x", "y", "z"} {
		fmt.Fprintln(w, label("MPU Gyro "+axis+":"), value("%.4f", r.Gyro[i]))
	}
}

// displayLines formats the acceleration for a two line display.
func displayLines(r mpu6050.Reading) []string {
	return []string{
		fmt.Sprintf("x:%.1f y:%.1f", r.Accel.X(), r.Accel.Y()),
		fmt.Sprintf("z:%.1f", r.Accel.Z()),
	}
}

// poll samples the station every interval until ctx ends or a read fails.
func (s *station) poll(ctx context.Context, w io.Writer, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r, err := s.imu.Read()
		if err != nil {
			return err
		}
		printReading(w, r)
		if s.display != nil {
			if err := s.display.WriteLines(displayLines(r)...); err != nil {
				return err
			}
		}
		log.WithField("accel", r.Accel.Len()).Debugln("sample")

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
