/*
 * Hazel - An OpenFlow Switch Agent
 *
 * Copyright (C) 2016 Hazel SDN Project.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/hazelsdn/hazel/api"
	"github.com/hazelsdn/hazel/core"
	"github.com/hazelsdn/hazel/network"
	"github.com/hazelsdn/hazel/soc"

	"github.com/fsnotify/fsnotify"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	programName     = "hazel"
	programVersion  = "0.1.0"
	defaultLogLevel = logging.INFO
)

var (
	logger            = logging.MustGetLogger("main")
	loggerLeveled     logging.LeveledBackend
	showVersion       = flag.Bool("version", false, "Show program version and exit")
	defaultConfigFile = flag.String("config", fmt.Sprintf("/usr/local/etc/%v.yaml", programName), "absolute path of the configuration file")
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	flag.Parse()
	if *showVersion {
		fmt.Printf("Version: %v\n", programVersion)
		os.Exit(0)
	}

	initConfig()
	if err := initLog(getLogLevel(viper.GetString("default.log_level"))); err != nil {
		logger.Fatalf("failed to init log: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := soc.NewRunner()
	controller := network.NewController(runner)
	manager := core.NewStateManager(core.Config{
		Forwarding:  newLocalForwarding(),
		PortManager: newLocalPorts(),
		Connection:  controller,
		Scheduler:   runner,
		DatapathID:  viper.GetUint64("default.datapath_id"),
		Description: core.DescStats{
			Manufacturer: viper.GetString("desc.manufacturer"),
			Hardware:     viper.GetString("desc.hardware"),
			Software:     fmt.Sprintf("%v %v", programName, programVersion),
			SerialNumber: viper.GetString("desc.serial"),
			Datapath:     viper.GetString("desc.datapath"),
		},
	})
	controller.SetHandler(manager)

	initAPIServer(runner, manager)
	initSignalHandler(cancel)

	go func() {
		if err := controller.Serve(ctx, viper.GetInt("default.port")); err != nil {
			logger.Errorf("controller listener stopped: %v", err)
			cancel()
		}
	}()

	// The runner is the agent's single execution thread; every handler and
	// iteration task runs here.
	if err := runner.Run(ctx); err != nil {
		logger.Infof("runner stopped: %v", err)
	}
}

func initConfig() {
	viper.SetConfigFile(*defaultConfigFile)
	// Read the config file.
	if err := viper.ReadInConfig(); err != nil {
		logger.Fatalf("failed to read the config file: %v", err)
	}
	// Watching and re-reading config file whenever it changes.
	viper.OnConfigChange(func(e fsnotify.Event) {
		// React only to the WRITE operation; other operations are ignored.
		if e.Op != fsnotify.Write {
			return
		}

		if loggerLeveled != nil {
			// Set log level for all modules
			loggerLeveled.SetLevel(getLogLevel(viper.GetString("default.log_level")), "")
		}
	})
	viper.WatchConfig()
	if err := validateConfig(); err != nil {
		logger.Fatalf("failed to validate the configuration: %v", err)
	}
}

func validateConfig() error {
	if port := viper.GetInt("default.port"); port <= 0 || port > 0xFFFF {
		return errors.New("invalid default.port")
	}
	if len(viper.GetString("default.log_level")) == 0 {
		return errors.New("invalid default.log_level")
	}
	if viper.GetUint64("default.datapath_id") == 0 {
		return errors.New("invalid default.datapath_id")
	}
	if port := viper.GetInt("api.port"); port < 0 || port > 0xFFFF {
		return errors.New("invalid api.port")
	}

	return nil
}

func getLogLevel(level string) logging.Level {
	l, err := logging.LogLevel(level)
	if err != nil {
		logger.Errorf("invalid log level %v, falling back to the default", level)
		return defaultLogLevel
	}
	return l
}

func initLog(level logging.Level) error {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend,
		logging.MustStringFormatter(`%{time:2006-01-02 15:04:05.000} %{level} %{shortpkg}: %{message}`))
	loggerLeveled = logging.AddModuleLevel(formatted)
	loggerLeveled.SetLevel(level, "")
	logging.SetBackend(loggerLeveled)

	return nil
}

func initAPIServer(runner *soc.Runner, manager *core.StateManager) {
	port := viper.GetInt("api.port")
	if port == 0 {
		logger.Info("api server is disabled")
		return
	}

	server := api.Server{
		Port:   uint16(port),
		Runner: runner,
		Core:   manager,
	}
	server.TLS.Cert = viper.GetString("api.tls.cert")
	server.TLS.Key = viper.GetString("api.tls.key")

	go func() {
		if err := server.Serve(); err != nil {
			logger.Errorf("api server stopped: %v", err)
		}
	}()
}

func initSignalHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-c
		logger.Infof("caught signal %v, shutting down", s)
		cancel()
	}()
}
