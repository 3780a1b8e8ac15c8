// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package peripheral

import (
	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/go-lib/log"
)

// Observer receives the intermediate state seen while preparing an adapter.
// Callbacks have no effect on control flow.
type Observer interface {
	AdapterFound(path dbus.ObjectPath)
	PowerState(path dbus.ObjectPath, powered bool)
	PoweringOn(path dbus.ObjectPath)
	SupportedRoles(path dbus.ObjectPath, roles RoleSet)
	RoleUnsupported(path dbus.ObjectPath, role string, roles RoleSet)
}

type nopObserver struct{}

func (nopObserver) AdapterFound(dbus.ObjectPath)                     {}
func (nopObserver) PowerState(dbus.ObjectPath, bool)                 {}
func (nopObserver) PoweringOn(dbus.ObjectPath)                       {}
func (nopObserver) SupportedRoles(dbus.ObjectPath, RoleSet)          {}
func (nopObserver) RoleUnsupported(dbus.ObjectPath, string, RoleSet) {}

type logObserver struct {
	logger *log.Logger
}

// NewLogObserver reports through a go-lib logger.
func NewLogObserver(logger *log.Logger) Observer {
	return &logObserver{logger: logger}
}

func (o *logObserver) AdapterFound(path dbus.ObjectPath) {
	o.logger.Debugf("found adapter %s", path)
}

func (o *logObserver) PowerState(path dbus.ObjectPath, powered bool) {
	o.logger.Debugf("adapter %s powered = %v", path, powered)
}

func (o *logObserver) PoweringOn(path dbus.ObjectPath) {
	o.logger.Infof("adapter %s not powered, trying to power on", path)
}

func (o *logObserver) SupportedRoles(path dbus.ObjectPath, roles RoleSet) {
	o.logger.Debugf("adapter %s supported roles %s", path, roles)
}

func (o *logObserver) RoleUnsupported(path dbus.ObjectPath, role string, roles RoleSet) {
	o.logger.Warningf("%s role not supported by %s in %s", role, path, roles)
}
