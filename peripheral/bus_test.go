// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package peripheral

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/dde-ble-peripheral/common/bluetooth"
)

const (
	methodGetManagedObjects = bluetooth.ObjectManagerInterface + ".GetManagedObjects"
	methodGet               = bluetooth.PropertiesInterface + ".Get"
	methodSet               = bluetooth.PropertiesInterface + ".Set"
)

const adapterXML = `<node>
  <interface name="org.freedesktop.DBus.Introspectable">
    <method name="Introspect"><arg name="xml" type="s" direction="out"/></method>
  </interface>
  <interface name="org.bluez.Adapter1">
    <method name="StartDiscovery"></method>
    <method name="StopDiscovery"></method>
    <property name="Address" type="s" access="read"></property>
    <property name="AddressType" type="s" access="read"></property>
    <property name="Name" type="s" access="read"></property>
    <property name="Powered" type="b" access="readwrite"></property>
    <property name="Roles" type="as" access="read"></property>
  </interface>
  <interface name="org.freedesktop.DBus.Properties"></interface>
</node>`

// older bluez without Roles; Powered made read-only to exercise the write guard
const oldAdapterXML = `<node>
  <interface name="org.bluez.Adapter1">
    <property name="Address" type="s" access="read"></property>
    <property name="AddressType" type="s" access="read"></property>
    <property name="Powered" type="b" access="read"></property>
  </interface>
</node>`

const deviceXML = `<node>
  <interface name="org.bluez.Device1">
    <property name="Address" type="s" access="read"></property>
  </interface>
</node>`

var errBusFailed = &dbus.Error{
	Name: "org.bluez.Error.Failed",
	Body: []interface{}{"operation failed"},
}

type busCall struct {
	dest   string
	path   dbus.ObjectPath
	method string
	args   []interface{}
}

type fakeBus struct {
	objects    managedObjects
	objectsErr error

	introspection map[dbus.ObjectPath]string
	props         map[dbus.ObjectPath]map[string]interface{}
	getErr        map[string]error
	setErr        error

	calls []busCall
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		objects:       make(managedObjects),
		introspection: make(map[dbus.ObjectPath]string),
		props:         make(map[dbus.ObjectPath]map[string]interface{}),
		getErr:        make(map[string]error),
	}
}

// addAdapter registers a complete hci adapter object.
func (b *fakeBus) addAdapter(path dbus.ObjectPath, powered bool, roles []string, addr, addrType string) {
	b.objects[path] = map[string]map[string]dbus.Variant{
		bluetooth.BluezAdapterDBusInterface: {
			bluetooth.AdapterPropAddress: dbus.MakeVariant(addr),
		},
		"org.freedesktop.DBus.Properties": {},
	}
	b.introspection[path] = adapterXML
	b.props[path] = map[string]interface{}{
		bluetooth.AdapterPropPowered:     powered,
		bluetooth.AdapterPropRoles:       roles,
		bluetooth.AdapterPropAddress:     addr,
		bluetooth.AdapterPropAddressType: addrType,
	}
}

func (b *fakeBus) addObject(path dbus.ObjectPath, ifaces ...string) {
	obj := make(map[string]map[string]dbus.Variant)
	for _, iface := range ifaces {
		obj[iface] = map[string]dbus.Variant{}
	}
	b.objects[path] = obj
}

func (b *fakeBus) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return &fakeObject{bus: b, dest: dest, path: path}
}

func (b *fakeBus) count(method string) int {
	n := 0
	for _, c := range b.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

func (b *fakeBus) countGet(prop string) int {
	n := 0
	for _, c := range b.calls {
		if c.method == methodGet && c.args[1] == prop {
			n++
		}
	}
	return n
}

type fakeObject struct {
	dbus.BusObject
	bus  *fakeBus
	dest string
	path dbus.ObjectPath
}

func (o *fakeObject) Path() dbus.ObjectPath {
	return o.path
}

func (o *fakeObject) Destination() string {
	return o.dest
}

func (o *fakeObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags,
	args ...interface{}) *dbus.Call {
	b := o.bus
	b.calls = append(b.calls, busCall{dest: o.dest, path: o.path, method: method, args: args})

	if err := ctx.Err(); err != nil {
		return &dbus.Call{Err: err}
	}

	switch method {
	case methodGetManagedObjects:
		if b.objectsErr != nil {
			return &dbus.Call{Err: b.objectsErr}
		}
		return &dbus.Call{Body: []interface{}{b.objects}}

	case bluetooth.IntrospectableMethod:
		data, ok := b.introspection[o.path]
		if !ok {
			return &dbus.Call{Err: &dbus.Error{
				Name: "org.freedesktop.DBus.Error.UnknownObject",
				Body: []interface{}{"unknown object " + string(o.path)},
			}}
		}
		return &dbus.Call{Body: []interface{}{data}}

	case methodGet:
		name := args[1].(string)
		if err := b.getErr[name]; err != nil {
			return &dbus.Call{Err: err}
		}
		value, ok := b.props[o.path][name]
		if !ok {
			return &dbus.Call{Err: &dbus.Error{
				Name: "org.freedesktop.DBus.Error.InvalidArgs",
				Body: []interface{}{"no such property " + name},
			}}
		}
		return &dbus.Call{Body: []interface{}{dbus.MakeVariant(value)}}

	case methodSet:
		if b.setErr != nil {
			return &dbus.Call{Err: b.setErr}
		}
		name := args[1].(string)
		b.props[o.path][name] = args[2].(dbus.Variant).Value()
		return &dbus.Call{}
	}

	return &dbus.Call{Err: &dbus.Error{
		Name: "org.freedesktop.DBus.Error.UnknownMethod",
		Body: []interface{}{method},
	}}
}

type recordObserver struct {
	events []string
}

func (r *recordObserver) AdapterFound(path dbus.ObjectPath) {
	r.events = append(r.events, "found "+string(path))
}

func (r *recordObserver) PowerState(path dbus.ObjectPath, powered bool) {
	if powered {
		r.events = append(r.events, "powered "+string(path))
	} else {
		r.events = append(r.events, "unpowered "+string(path))
	}
}

func (r *recordObserver) PoweringOn(path dbus.ObjectPath) {
	r.events = append(r.events, "power-on "+string(path))
}

func (r *recordObserver) SupportedRoles(path dbus.ObjectPath, roles RoleSet) {
	r.events = append(r.events, "roles "+roles.String())
}

func (r *recordObserver) RoleUnsupported(path dbus.ObjectPath, role string, roles RoleSet) {
	r.events = append(r.events, "unsupported "+role)
}
