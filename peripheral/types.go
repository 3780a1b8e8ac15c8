// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package peripheral

import (
	"fmt"
	"strings"
)

type AddressType string

const (
	AddressTypePublic AddressType = "public"
	AddressTypeRandom AddressType = "random"
)

func (t AddressType) Valid() bool {
	return t == AddressTypePublic || t == AddressTypeRandom
}

// Address is the adapter's own address as reported by the daemon. It is
// never cached; every GetAddress call reads it again.
type Address struct {
	Address string      `json:"address" yaml:"address"`
	Type    AddressType `json:"address_type" yaml:"address_type"`
}

func (a Address) String() string {
	return fmt.Sprintf("%s (%s)", a.Address, a.Type)
}

// RoleSet is a snapshot of Adapter1.Roles in the order the daemon reports.
type RoleSet []string

func (r RoleSet) Has(role string) bool {
	for _, item := range r {
		if item == role {
			return true
		}
	}
	return false
}

func (r RoleSet) String() string {
	return "[" + strings.Join(r, ", ") + "]"
}
