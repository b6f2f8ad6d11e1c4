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

package core

import (
	baseerrors "errors"

	"github.com/pkg/errors"
)

// Internal error taxonomy. Collaborators return these, possibly wrapped with
// context; the error encoder resolves the cause before mapping to a wire
// error.
var (
	ErrParam        = baseerrors.New("invalid parameter")
	ErrResource     = baseerrors.New("out of resources")
	ErrNotFound     = baseerrors.New("not found")
	ErrRange        = baseerrors.New("out of range")
	ErrNotSupported = baseerrors.New("not supported")
	ErrUnknown      = baseerrors.New("unknown error")
)

// cause unwraps err to one of the sentinels above, or returns err itself for
// foreign errors (treated as UNKNOWN by the encoder).
func cause(err error) error {
	return errors.Cause(err)
}
