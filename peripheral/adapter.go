// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package peripheral

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/linuxdeepin/dde-ble-peripheral/common/bluetooth"
	"golang.org/x/xerrors"
)

// adapterProperties is the static set of Adapter1 properties this client
// knows how to read. Anything the daemon exports beyond it is ignored.
var adapterProperties = []string{
	bluetooth.AdapterPropPowered,
	bluetooth.AdapterPropRoles,
	bluetooth.AdapterPropAddress,
	bluetooth.AdapterPropAddressType,
}

// Adapter is a typed client for one org.bluez.Adapter1 object. It stays
// bound to the path it was created with.
type Adapter struct {
	path       dbus.ObjectPath
	obj        dbus.BusObject
	descriptor introspect.Interface
	props      map[string]introspect.Property
}

func newAdapter(obj dbus.BusObject, node *introspect.Node) (*Adapter, error) {
	path := obj.Path()
	for _, iface := range node.Interfaces {
		if iface.Name != bluetooth.BluezAdapterDBusInterface {
			continue
		}

		a := &Adapter{
			path:       path,
			obj:        obj,
			descriptor: iface,
			props:      make(map[string]introspect.Property),
		}
		for _, prop := range iface.Properties {
			for _, name := range adapterProperties {
				if prop.Name == name {
					a.props[name] = prop
				}
			}
		}
		return a, nil
	}
	return nil, xerrors.Errorf("introspect %s: %w", path, ErrNotAdapter)
}

func (a *Adapter) Path() dbus.ObjectPath {
	return a.path
}

// Descriptor returns the introspected Adapter1 interface.
func (a *Adapter) Descriptor() introspect.Interface {
	return a.descriptor
}

func (a *Adapter) HasProperty(name string) bool {
	_, ok := a.props[name]
	return ok
}

func (a *Adapter) getProperty(ctx context.Context, name string, value interface{}) error {
	if !a.HasProperty(name) {
		return xerrors.Errorf("get %s.%s: %w", a.path, name, ErrPropertyUnsupported)
	}

	var variant dbus.Variant
	err := a.obj.CallWithContext(ctx, bluetooth.PropertiesInterface+".Get", 0,
		bluetooth.BluezAdapterDBusInterface, name).Store(&variant)
	if err != nil {
		return xerrors.Errorf("get %s.%s: %w", a.path, name, err)
	}
	err = variant.Store(value)
	if err != nil {
		return xerrors.Errorf("get %s.%s: %w", a.path, name, err)
	}
	return nil
}

func (a *Adapter) setProperty(ctx context.Context, name string, value interface{}) error {
	prop, ok := a.props[name]
	if !ok {
		return xerrors.Errorf("set %s.%s: %w", a.path, name, ErrPropertyUnsupported)
	}
	if prop.Access == "read" {
		return xerrors.Errorf("set %s.%s: property is read-only", a.path, name)
	}

	err := a.obj.CallWithContext(ctx, bluetooth.PropertiesInterface+".Set", 0,
		bluetooth.BluezAdapterDBusInterface, name, dbus.MakeVariant(value)).Err
	if err != nil {
		return xerrors.Errorf("set %s.%s: %w", a.path, name, err)
	}
	return nil
}

func (a *Adapter) Powered(ctx context.Context) (bool, error) {
	var powered bool
	err := a.getProperty(ctx, bluetooth.AdapterPropPowered, &powered)
	return powered, err
}

// SetPowered returns once the daemon has accepted the write. It does not
// wait for the adapter to report the new state.
func (a *Adapter) SetPowered(ctx context.Context, powered bool) error {
	return a.setProperty(ctx, bluetooth.AdapterPropPowered, powered)
}

func (a *Adapter) Roles(ctx context.Context) (RoleSet, error) {
	var roles []string
	err := a.getProperty(ctx, bluetooth.AdapterPropRoles, &roles)
	if err != nil {
		return nil, err
	}
	return RoleSet(roles), nil
}

func (a *Adapter) Address(ctx context.Context) (string, error) {
	var address string
	err := a.getProperty(ctx, bluetooth.AdapterPropAddress, &address)
	return address, err
}

func (a *Adapter) AddressType(ctx context.Context) (AddressType, error) {
	var addrType string
	err := a.getProperty(ctx, bluetooth.AdapterPropAddressType, &addrType)
	return AddressType(addrType), err
}
