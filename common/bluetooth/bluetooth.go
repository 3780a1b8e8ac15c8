// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluetooth

import "github.com/godbus/dbus/v5"

const (
	BluezServiceName          = "org.bluez"
	BluezRootPath             = dbus.ObjectPath("/")
	BluezAdapterDBusInterface = "org.bluez.Adapter1"

	ObjectManagerInterface = "org.freedesktop.DBus.ObjectManager"
	PropertiesInterface    = "org.freedesktop.DBus.Properties"
	IntrospectableMethod   = "org.freedesktop.DBus.Introspectable.Introspect"
)

// Adapter1 properties used by the peripheral side.
const (
	AdapterPropPowered     = "Powered"
	AdapterPropRoles       = "Roles"
	AdapterPropAddress     = "Address"
	AdapterPropAddressType = "AddressType"
)

// RolePeripheral is the Adapter1.Roles entry required to advertise.
const RolePeripheral = "peripheral"

const (
	ErrNameUnsupportedHardware = "org.deepin.dde.BlePeripheral1.Error.UnsupportedHardware"
	ErrNameAdapterNotFound     = "org.deepin.dde.BlePeripheral1.Error.AdapterNotFound"
	ErrNameNotAdapter          = "org.deepin.dde.BlePeripheral1.Error.NotAdapter"
)

var ErrUnsupportedHardware = &dbus.Error{
	Name: ErrNameUnsupportedHardware,
	Body: []interface{}{"peripheral role not supported"},
}

var ErrAdapterNotFound = &dbus.Error{
	Name: ErrNameAdapterNotFound,
	Body: []interface{}{"no bluetooth adapter found"},
}

var ErrNotAdapter = &dbus.Error{
	Name: ErrNameNotAdapter,
	Body: []interface{}{"object does not expose " + BluezAdapterDBusInterface},
}
