/*
 *
 *  MIT License
 *
 *  (C) Copyright 2022 Hewlett Packard Enterprise Development LP
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a
 *  copy of this software and associated documentation files (the "Software"),
 *  to deal in the Software without restriction, including without limitation
 *  the rights to use, copy, modify, merge, publish, distribute, sublicense,
 *  and/or sell copies of the Software, and to permit persons to whom the
 *  Software is furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included
 *  in all copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
 *  THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR
 *  OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
 *  ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
 *  OTHER DEALINGS IN THE SOFTWARE.
 *
 */

// Package api serves the probes and manager controls over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/topology"
	"github.com/Cray-HPE/cray-topology-dns-manager/internal/trueup"
)

// Loop is the part of the true up loop the API drives.
type Loop interface {
	Trigger() bool
	Status() trueup.Status
}

type Server struct {
	router *gin.Engine
	srv    *http.Server
	loop   Loop
	zone   func() *topology.Zone
	logger *zap.Logger
}

// New wires the routes. zone returns the topology currently in effect.
func New(addr string, loop Loop, zone func() *topology.Zone, logger *zap.Logger) *Server {
	s := &Server{
		router: gin.Default(),
		loop:   loop,
		zone:   zone,
		logger: logger,
	}

	// Version everything.
	apiV1 := s.router.Group("/v1")

	// Liveness/readiness probes.
	apiV1.GET("/liveness", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	apiV1.GET("/readiness", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// True up loop control.
	apiV1.POST("/manager/jobs", s.runJob)
	apiV1.GET("/manager/status", s.status)

	apiV1.GET("/records", s.records)

	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) runJob(c *gin.Context) {
	if !s.loop.Trigger() {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.loop.Status())
}

func (s *Server) records(c *gin.Context) {
	filter, err := topology.ParseFilter(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zone := s.zone()
	if zone == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no topology loaded"})
		return
	}

	records := topology.Expand(zone, filter)
	if records == nil {
		c.JSON(http.StatusOK, []interface{}{})
		return
	}
	c.JSON(http.StatusOK, records)
}

// ListenAndServe blocks until the server stops. A clean Shutdown is not an
// error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("API server started.", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("API Server shutdown.")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
