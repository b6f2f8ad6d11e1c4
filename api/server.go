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

// Package api exposes a read-only REST view of the agent's state.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hazelsdn/hazel/core"
	"github.com/hazelsdn/hazel/soc"

	"github.com/ant0ine/go-json-rest/rest"
)

// Snapshot is one consistent view of the agent's state, taken on the runner
// goroutine.
type Snapshot struct {
	FlowTable   core.FlowTableStatus `json:"flow_table"`
	Config      core.SwitchConfig    `json:"config"`
	Description core.DescStats       `json:"description"`
}

type Server struct {
	Port uint16
	TLS  struct {
		Cert string // Path for a TLS certification file.
		Key  string // Path for a TLS private key file.
	}
	Runner *soc.Runner
	Core   *core.StateManager
}

func (r *Server) validate() error {
	if r.Runner == nil {
		return errors.New("nil runner")
	}
	if r.Core == nil {
		return errors.New("nil core")
	}

	return nil
}

func (r *Server) snapshot() Snapshot {
	var v Snapshot
	r.Runner.Call(func() {
		v.FlowTable = r.Core.FlowTable().Status()
		v.Config = r.Core.SwitchConfig()
		v.Description = r.Core.Description()
	})

	return v
}

func (r *Server) Serve() error {
	if err := r.validate(); err != nil {
		return err
	}

	api := rest.NewApi()
	// Middleware to set the CORS header.
	api.Use(rest.MiddlewareSimple(func(handler rest.HandlerFunc) rest.HandlerFunc {
		return func(writer rest.ResponseWriter, request *rest.Request) {
			writer.Header().Set("Access-Control-Allow-Origin", "*")
			handler(writer, request)
		}
	}))

	router, err := rest.MakeRouter(
		rest.Get("/v1/status", r.status),
		rest.Get("/v1/config", r.config),
		rest.Get("/v1/description", r.description),
	)
	if err != nil {
		return err
	}
	api.SetApp(router)

	// Listen on all interfaces.
	addr := fmt.Sprintf(":%v", r.Port)
	if r.TLS.Cert != "" && r.TLS.Key != "" {
		return http.ListenAndServeTLS(addr, r.TLS.Cert, r.TLS.Key, api.MakeHandler())
	}
	return http.ListenAndServe(addr, api.MakeHandler())
}

func (r *Server) status(w rest.ResponseWriter, req *rest.Request) {
	w.WriteJson(Response{Status: StatusOkay, Data: r.snapshot().FlowTable})
}

func (r *Server) config(w rest.ResponseWriter, req *rest.Request) {
	w.WriteJson(Response{Status: StatusOkay, Data: r.snapshot().Config})
}

func (r *Server) description(w rest.ResponseWriter, req *rest.Request) {
	w.WriteJson(Response{Status: StatusOkay, Data: r.snapshot().Description})
}
