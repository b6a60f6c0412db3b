// Package config defines the command line surface of cecinput.
package config

import "github.com/cecinput/cecinput/internal/cmd"

// LogConfig configures the process logger and the CEC frame log.
type LogConfig struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"CECINPUT_LOG_LEVEL"`
	File    string `help:"Append logs to this file as well as stderr" type:"path" env:"CECINPUT_LOG_FILE"`
	RawFile string `help:"Write CEC frames as hex to this file (stdout at trace level)" type:"path" env:"CECINPUT_LOG_RAW_FILE"`
}

// CLI is the root kong model.
type CLI struct {
	ConfigFile string    `name:"config" help:"Configuration file (JSON, YAML or TOML)" type:"path" env:"CECINPUT_CONFIG"`
	Log        LogConfig `embed:"" prefix:"log."`

	Run       cmd.Run           `cmd:"" default:"withargs" help:"Translate HDMI-CEC remote keys into keyboard events (default)"`
	List      cmd.List          `cmd:"" help:"List CEC adapters and the devices on their bus"`
	Ctl       cmd.Ctl           `cmd:"" help:"Send a request to a running daemon"`
	Keymap    cmd.KeymapCommand `cmd:"" help:"Key map utilities"`
	Config    cmd.ConfigCommand `cmd:"" help:"Configuration utilities"`
	Install   cmd.Install       `cmd:"" help:"Install and start the systemd service"`
	Uninstall cmd.Uninstall     `cmd:"" help:"Stop and remove the systemd service"`
}
