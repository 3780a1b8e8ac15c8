// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package peripheral

import (
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-ble-peripheral/common/bluetooth"
	"github.com/linuxdeepin/go-lib/utils"
)

const DefaultConfigFile = "/var/lib/dde-daemon/ble-peripheral/config.json"

type Config struct {
	core utils.Config

	// Adapter is an explicit object path, empty means discover.
	Adapter string
	// PowerOn switches an unpowered adapter on.
	PowerOn       bool
	RequiredRoles []string
}

func NewConfig(filename string) *Config {
	c := &Config{
		PowerOn:       true,
		RequiredRoles: []string{bluetooth.RolePeripheral},
	}
	c.core.SetConfigFile(filename)
	return c
}

func (c *Config) File() string {
	return c.core.GetConfigFile()
}

// Load reads the config file. A missing file keeps the defaults.
func (c *Config) Load() error {
	if _, err := os.Stat(c.core.GetConfigFile()); os.IsNotExist(err) {
		return nil
	}
	return c.core.Load(c)
}

func (c *Config) Save() error {
	return c.core.Save(c)
}

func (c *Config) PrepareOptions() PrepareOptions {
	return PrepareOptions{
		Path:          dbus.ObjectPath(c.Adapter),
		SkipPowerOn:   !c.PowerOn,
		RequiredRoles: c.RequiredRoles,
	}
}

func (c *Config) Dump() string {
	return spew.Sdump(struct {
		Adapter       string
		PowerOn       bool
		RequiredRoles []string
	}{c.Adapter, c.PowerOn, c.RequiredRoles})
}
