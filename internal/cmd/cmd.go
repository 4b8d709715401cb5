package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/abiosoft/ishell"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	pii2c "github.com/hardcodead/go-pi-i2c"
	"github.com/hardcodead/go-pi-i2c/internal/config"
)

var RootCmd = &cobra.Command{
	Use:   config.DefaultAppName,
	Short: "MPU6050 and I2C character LCD tools for the Raspberry Pi",
}

func errRange(which string, n int) error {
	return fmt.Errorf("unsupported %s range %d", which, n)
}

func deviceFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "configuration file path")
	cmd.Flags().StringP("bus", "b", config.DefaultBus, "I2C bus name or number")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
}

func PollCmdRunE(cmd *cobra.Command, _ []string) error {
	opt, err := config.Parse(cmd)
	if err != nil {
		return err
	}
	interval, _ := opt.PollInterval()

	s, err := openStation(opt, pii2c.OpenBus)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := s.poll(ctx, cmd.OutOrStdout(), interval); err != nil {
		if errors.Is(err, pii2c.ErrTransport) {
			log.WithError(err).Errorln("bus fault, stopping")
		}
		return err
	}
	return nil
}

var PollCmd = &cobra.Command{
	Use:   "poll",
	Short: "poll prints sensor readings in a loop and mirrors them on the LCD",
	Long: `poll wakes the MPU6050, applies the configured ranges and prints
temperature, acceleration and rotation every interval. When the LCD is
enabled the acceleration is shown on it as well. The loop stops on the first
bus fault or on interrupt.`,
	Example: `  pi-i2c poll --bus 1 --interval 250ms`,
	RunE:    PollCmdRunE,
}

func ShellCmdRunE(cmd *cobra.Command, _ []string) error {
	opt, err := config.Parse(cmd)
	if err != nil {
		return err
	}
	s, err := openStation(opt, pii2c.OpenBus)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	shell := ishell.New()
	shell.Println("pi-i2c shell")
	for _, c := range s.shellCmds() {
		shell.AddCmd(c)
	}
	shell.Start()
	return nil
}

var ShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "shell opens an interactive shell on the devices",
	RunE:  ShellCmdRunE,
}

func InitCmdRunE(cmd *cobra.Command, _ []string) error {
	printFlag, _ := cmd.Flags().GetBool("print")
	outputPath, _ := cmd.Flags().GetString("output")
	overwriteFlag, _ := cmd.Flags().GetBool("yes")

	opt := config.NewOpt()
	if printFlag {
		buf, err := yaml.Marshal(opt)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(buf)
		return err
	}
	if err := config.Dump(opt, outputPath, overwriteFlag); err != nil {
		return err
	}
	log.Infoln("configuration written to", outputPath)
	return nil
}

var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "init creates a configuration template",
	Example: `  pi-i2c init --print
  pi-i2c init -o /etc/pi-i2c/config.yaml -y`,
	RunE: InitCmdRunE,
}

func init() {
	deviceFlags(PollCmd)
	PollCmd.Flags().String("interval", config.DefaultInterval, "time between samples")
	deviceFlags(ShellCmd)

	InitCmd.Flags().Bool("print", false, "print config to stdout")
	InitCmd.Flags().BoolP("yes", "y", false, "overwrite")
	InitCmd.Flags().StringP("output", "o", config.DefaultConfig, "output path")

	RootCmd.AddCommand(PollCmd, ShellCmd, InitCmd)
}
