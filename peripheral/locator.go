// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package peripheral

import (
	"context"
	"encoding/xml"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/linuxdeepin/dde-ble-peripheral/common/bluetooth"
	"golang.org/x/xerrors"
)

// Conn is the part of *dbus.Conn the locator needs.
type Conn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Locator finds and prepares the BlueZ adapter used for the peripheral
// role. It keeps no state between calls; callers own the returned *Adapter
// and use it sequentially.
type Locator struct {
	conn     Conn
	observer Observer
}

// NewLocator returns a locator on conn. A nil observer discards all
// progress reports.
func NewLocator(conn Conn, observer Observer) *Locator {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Locator{
		conn:     conn,
		observer: observer,
	}
}

func (l *Locator) getManagedObjects(ctx context.Context) (managedObjects, error) {
	var objects managedObjects
	obj := l.conn.Object(bluetooth.BluezServiceName, bluetooth.BluezRootPath)
	err := obj.CallWithContext(ctx, bluetooth.ObjectManagerInterface+".GetManagedObjects", 0).
		Store(&objects)
	if err != nil {
		return nil, xerrors.Errorf("get managed objects: %w", err)
	}
	return objects, nil
}

// FindAdapter returns the first object in the BlueZ registry exposing
// org.bluez.Adapter1. Paths are scanned in sorted order. ok is false when
// no object qualifies.
func (l *Locator) FindAdapter(ctx context.Context) (path dbus.ObjectPath, ok bool, err error) {
	objects, err := l.getManagedObjects(ctx)
	if err != nil {
		return "", false, err
	}

	paths := make([]dbus.ObjectPath, 0, len(objects))
	for p := range objects {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		return paths[i] < paths[j]
	})

	for _, p := range paths {
		if _, has := objects[p][bluetooth.BluezAdapterDBusInterface]; has {
			l.observer.AdapterFound(p)
			return p, true, nil
		}
	}
	return "", false, nil
}

func (l *Locator) introspectNode(ctx context.Context, obj dbus.BusObject) (*introspect.Node, error) {
	var data string
	err := obj.CallWithContext(ctx, bluetooth.IntrospectableMethod, 0).Store(&data)
	if err != nil {
		return nil, err
	}
	var node introspect.Node
	err = xml.NewDecoder(strings.NewReader(data)).Decode(&node)
	if err != nil {
		return nil, err
	}
	if node.Name == "" {
		node.Name = string(obj.Path())
	}
	return &node, nil
}

// ResolveAdapter binds a typed client to path. With an empty path the
// registry is searched first and ErrAdapterNotFound is returned when it
// holds no adapter.
func (l *Locator) ResolveAdapter(ctx context.Context, path dbus.ObjectPath) (*Adapter, error) {
	if path == "" {
		found, ok, err := l.FindAdapter(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, xerrors.Errorf("resolve adapter: %w", ErrAdapterNotFound)
		}
		path = found
	}
	if !path.IsValid() {
		return nil, xerrors.Errorf("resolve adapter: invalid object path %q", path)
	}

	obj := l.conn.Object(bluetooth.BluezServiceName, path)
	node, err := l.introspectNode(ctx, obj)
	if err != nil {
		return nil, xerrors.Errorf("introspect %s: %w", path, err)
	}
	return newAdapter(obj, node)
}

// EnsurePoweredOn writes Powered=true only when the adapter reports it is
// off. It returns once the write is accepted.
func (l *Locator) EnsurePoweredOn(ctx context.Context, a *Adapter) error {
	powered, err := a.Powered(ctx)
	if err != nil {
		return err
	}
	l.observer.PowerState(a.Path(), powered)
	if powered {
		return nil
	}

	l.observer.PoweringOn(a.Path())
	return a.SetPowered(ctx, true)
}

// CheckPeripheralCompat fails with an *UnsupportedHardwareError when the
// adapter does not list the peripheral role.
func (l *Locator) CheckPeripheralCompat(ctx context.Context, a *Adapter) error {
	return l.checkRoles(ctx, a, []string{bluetooth.RolePeripheral})
}

func (l *Locator) checkRoles(ctx context.Context, a *Adapter, required []string) error {
	roles, err := a.Roles(ctx)
	if err != nil {
		return err
	}
	l.observer.SupportedRoles(a.Path(), roles)

	for _, role := range required {
		if !roles.Has(role) {
			l.observer.RoleUnsupported(a.Path(), role, roles)
			return &UnsupportedHardwareError{
				Path:    a.Path(),
				Missing: role,
				Roles:   roles,
			}
		}
	}
	return nil
}

// GetAddress reads Address and then AddressType. The two reads are not
// atomic with respect to each other.
func (l *Locator) GetAddress(ctx context.Context, a *Adapter) (Address, error) {
	addr, err := a.Address(ctx)
	if err != nil {
		return Address{}, err
	}
	addrType, err := a.AddressType(ctx)
	if err != nil {
		return Address{}, err
	}
	return Address{
		Address: addr,
		Type:    addrType,
	}, nil
}

// PrepareOptions controls Prepare. The zero value powers the adapter on
// and requires the peripheral role.
type PrepareOptions struct {
	Path          dbus.ObjectPath
	SkipPowerOn   bool
	RequiredRoles []string
}

// Prepare runs resolve, ensure-powered, compat check and address read in
// that order, stopping at the first failure.
func (l *Locator) Prepare(ctx context.Context, opts PrepareOptions) (*Adapter, Address, error) {
	a, err := l.ResolveAdapter(ctx, opts.Path)
	if err != nil {
		return nil, Address{}, err
	}

	if !opts.SkipPowerOn {
		err = l.EnsurePoweredOn(ctx, a)
		if err != nil {
			return nil, Address{}, err
		}
	}

	required := opts.RequiredRoles
	if len(required) == 0 {
		required = []string{bluetooth.RolePeripheral}
	}
	err = l.checkRoles(ctx, a, required)
	if err != nil {
		return nil, Address{}, err
	}

	addr, err := l.GetAddress(ctx, a)
	if err != nil {
		return nil, Address{}, err
	}
	return a, addr, nil
}
