// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package peripheral

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-ble-peripheral/common/bluetooth"
	"golang.org/x/xerrors"
)

var (
	// ErrUnsupportedHardware is matched by every UnsupportedHardwareError.
	ErrUnsupportedHardware = bluetooth.ErrUnsupportedHardware
	// ErrAdapterNotFound means no path was given and the registry had no adapter.
	ErrAdapterNotFound = bluetooth.ErrAdapterNotFound
	// ErrNotAdapter means the introspected object lacks the adapter interface.
	ErrNotAdapter = bluetooth.ErrNotAdapter

	ErrPropertyUnsupported = xerrors.New("property not exported by adapter")
)

// UnsupportedHardwareError is returned when an adapter does not report a
// required role, normally peripheral. It is terminal.
type UnsupportedHardwareError struct {
	Path    dbus.ObjectPath
	Missing string
	Roles   RoleSet
}

func (e *UnsupportedHardwareError) Error() string {
	return fmt.Sprintf("adapter %s does not support %s role, supported roles: %s",
		e.Path, e.Missing, e.Roles)
}

func (e *UnsupportedHardwareError) Is(target error) bool {
	return target == ErrUnsupportedHardware
}

// ToDBusError converts err into the *dbus.Error a D-Bus method should
// return. Errors raised by the remote side keep their original name.
func ToDBusError(err error) *dbus.Error {
	if err == nil {
		return nil
	}
	var dbusErr *dbus.Error
	switch {
	case xerrors.Is(err, ErrUnsupportedHardware):
		return dbus.NewError(bluetooth.ErrNameUnsupportedHardware, []interface{}{err.Error()})
	case xerrors.Is(err, ErrAdapterNotFound):
		return dbus.NewError(bluetooth.ErrNameAdapterNotFound, []interface{}{err.Error()})
	case xerrors.Is(err, ErrNotAdapter):
		return dbus.NewError(bluetooth.ErrNameNotAdapter, []interface{}{err.Error()})
	case xerrors.As(err, &dbusErr):
		return dbusErr
	}
	return dbus.MakeFailedError(err)
}
