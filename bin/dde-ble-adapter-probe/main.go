// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-ble-peripheral/peripheral"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

const (
	exitOK = iota
	exitFailed
	exitUnsupported
	exitNoAdapter
)

var logger = log.NewLogger("daemon/dde-ble-adapter-probe")

var _options struct {
	configFile string
	adapter    string
	noPowerOn  bool
	format     string
	logLevel   string
	verbose    bool
	save       bool
	timeout    time.Duration
}

func init() {
	flag.StringVar(&_options.configFile, "c", peripheral.DefaultConfigFile, "Config file.")
	flag.StringVar(&_options.adapter, "a", "", "Adapter object path, e.g. /org/bluez/hci0. Discover when empty.")
	flag.BoolVar(&_options.noPowerOn, "no-power-on", false, "Do not power on the adapter.")
	flag.StringVar(&_options.format, "format", "text", "Output format: text or yaml.")

	const verboseUsage = "Show much more message, shorthand for --loglevel debug."
	flag.BoolVar(&_options.verbose, "v", false, verboseUsage)
	flag.BoolVar(&_options.verbose, "verbose", false, verboseUsage)

	const logLevelUsage = "Set log level, possible value is error/warn/info/debug/no."
	flag.StringVar(&_options.logLevel, "l", "", logLevelUsage)
	flag.StringVar(&_options.logLevel, "loglevel", "", logLevelUsage)

	flag.BoolVar(&_options.save, "save", false, "Save the effective options to the config file.")
	flag.DurationVar(&_options.timeout, "timeout", 10*time.Second, "Timeout of the whole probe.")
}

func toLogLevel(name string) (log.Priority, error) {
	name = strings.ToLower(name)
	logLevel := log.LevelInfo
	var err error
	switch name {
	case "":
		logLevel = log.LevelInfo
	case "error":
		logLevel = log.LevelError
	case "warn":
		logLevel = log.LevelWarning
	case "info":
		logLevel = log.LevelInfo
	case "debug":
		logLevel = log.LevelDebug
	case "no":
		logLevel = log.LevelDisable
	default:
		err = fmt.Errorf("%s is not support", name)
	}

	return logLevel, err
}

type report struct {
	Path        string   `yaml:"path"`
	Address     string   `yaml:"address"`
	AddressType string   `yaml:"address_type"`
	Roles       []string `yaml:"roles"`
	Powered     bool     `yaml:"powered"`
}

func newReport(ctx context.Context, a *peripheral.Adapter, addr peripheral.Address) (*report, error) {
	roles, err := a.Roles(ctx)
	if err != nil {
		return nil, err
	}
	powered, err := a.Powered(ctx)
	if err != nil {
		return nil, err
	}
	if !addr.Type.Valid() {
		logger.Warningf("unknown address type %q", addr.Type)
	}
	return &report{
		Path:        string(a.Path()),
		Address:     addr.Address,
		AddressType: string(addr.Type),
		Roles:       roles,
		Powered:     powered,
	}, nil
}

func (r *report) write(w io.Writer, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(r)
		if err != nil {
			return err
		}
		return enc.Close()
	case "text":
		_, err := fmt.Fprintf(w, "Adapter: %s\nAddress: %s\nAddressType: %s\nRoles: %s\nPowered: %v\n",
			r.Path, r.Address, r.AddressType, strings.Join(r.Roles, ","), r.Powered)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case xerrors.Is(err, peripheral.ErrUnsupportedHardware):
		return exitUnsupported
	case xerrors.Is(err, peripheral.ErrAdapterNotFound):
		return exitNoAdapter
	}
	return exitFailed
}

func loadConfig() (*peripheral.Config, error) {
	cfg := peripheral.NewConfig(_options.configFile)
	err := cfg.Load()
	if err != nil {
		return nil, err
	}
	if _options.adapter != "" {
		cfg.Adapter = _options.adapter
	}
	if _options.noPowerOn {
		cfg.PowerOn = false
	}
	if logger.GetLogLevel() == log.LevelDebug {
		logger.Debugf("config %s: %s", cfg.File(), cfg.Dump())
	}
	return cfg, nil
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		logger.Warning("failed to load config:", err)
		return exitFailed
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		logger.Warning("failed to connect system bus:", err)
		return exitFailed
	}

	ctx, cancel := context.WithTimeout(context.Background(), _options.timeout)
	defer cancel()

	locator := peripheral.NewLocator(conn, peripheral.NewLogObserver(logger))
	adapter, addr, err := locator.Prepare(ctx, cfg.PrepareOptions())
	if err != nil {
		logger.Warning(err)
		return exitCode(err)
	}

	r, err := newReport(ctx, adapter, addr)
	if err != nil {
		logger.Warning(err)
		return exitCode(err)
	}
	err = r.write(os.Stdout, _options.format)
	if err != nil {
		logger.Warning(err)
		return exitFailed
	}

	if _options.save {
		err = cfg.Save()
		if err != nil {
			logger.Warning("failed to save config:", err)
			return exitFailed
		}
	}
	return exitOK
}

func main() {
	flag.Parse()

	logLevel, err := toLogLevel(_options.logLevel)
	if err != nil {
		logger.Warning("failed to parse loglevel:", err)
		os.Exit(exitFailed)
	}
	if _options.verbose {
		logLevel = log.LevelDebug
	}
	logger.SetLogLevel(logLevel)

	os.Exit(run())
}
