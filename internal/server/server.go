// SPDX-License-Identifier: AGPL-3.0-only

// Package server exposes the scheduler facade as MCP tools so the UI shell
// (or any MCP client) can drive the engine over stdio or SSE.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	"github.com/ThinkInAIXYZ/go-mcp/transport"

	"github.com/Traves-Theberge/Tasky/internal/config"
	"github.com/Traves-Theberge/Tasky/internal/errors"
	"github.com/Traves-Theberge/Tasky/internal/logging"
	"github.com/Traves-Theberge/Tasky/internal/scheduler"
	"github.com/Traves-Theberge/Tasky/internal/storage"
)

// MCPServer is the control surface for the reminder engine.
type MCPServer struct {
	scheduler      scheduler.Scheduler
	store          storage.Store
	server         *server.Server
	config         *config.Config
	logger         *logging.Logger
	stopCh         chan struct{}
	wg             sync.WaitGroup
	shutdownMutex  sync.Mutex
	isShuttingDown bool
}

// NewMCPServer creates the MCP control surface. The store may be nil, in
// which case mutations are applied to the live registry only.
func NewMCPServer(cfg *config.Config, sched scheduler.Scheduler, store storage.Store) (*MCPServer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var logger *logging.Logger
	if cfg.Logging.FilePath != "" {
		var err error
		logger, err = logging.FileLogger(cfg.Logging.FilePath, logging.ParseLevel(cfg.Logging.Level))
		if err != nil {
			return nil, fmt.Errorf("failed to create file logger: %w", err)
		}
	} else {
		logger = logging.New(logging.Options{Level: logging.ParseLevel(cfg.Logging.Level)})
	}
	logging.SetDefaultLogger(logger)

	s := &MCPServer{
		scheduler: sched,
		store:     store,
		config:    cfg,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}

	var svrTransport transport.ServerTransport
	var err error
	switch cfg.Server.TransportMode {
	case "stdio":
		// Stdout carries JSON-RPC frames in stdio mode; logging must
		// already be pointed at a file by the caller.
		logger.Infof("Using stdio transport")
		svrTransport = transport.NewStdioServerTransport()
	case "sse":
		addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
		logger.Infof("Using SSE transport on %s", addr)
		svrTransport, err = transport.NewSSEServerTransport(addr)
		if err != nil {
			return nil, errors.Internal(fmt.Errorf("failed to create SSE transport: %w", err))
		}
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported transport mode: %s", cfg.Server.TransportMode))
	}

	s.server, err = server.NewServer(
		svrTransport,
		server.WithServerInfo(protocol.Implementation{
			Name:    cfg.Server.Name,
			Version: cfg.Server.Version,
		}),
	)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to create MCP server: %w", err))
	}

	return s, nil
}

// Start registers the tools and begins serving.
func (s *MCPServer) Start(ctx context.Context) error {
	s.registerToolsDeclarative()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.server.Run(); err != nil {
			s.logger.Errorf("Error running MCP server: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Stop(); err != nil {
			s.logger.Errorf("Error stopping MCP server: %v", err)
		}
	}()

	return nil
}

// Stop shuts the server down. Safe to call more than once.
func (s *MCPServer) Stop() error {
	s.shutdownMutex.Lock()
	defer s.shutdownMutex.Unlock()

	if s.isShuttingDown {
		s.logger.Debugf("Stop called but server is already shutting down, ignoring")
		return nil
	}
	s.isShuttingDown = true

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Internal(fmt.Errorf("error shutting down MCP server: %w", err))
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.wg.Wait()
	return nil
}

// mutateDocument applies fn to the persisted document under a
// load-modify-save cycle. Without a store the mutation is registry-only.
func (s *MCPServer) mutateDocument(ctx context.Context, fn func(doc *storage.Document) error) error {
	if s.store == nil {
		return nil
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return errors.Internal(fmt.Errorf("load document: %w", err))
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.store.Save(ctx, doc); err != nil {
		return errors.Internal(fmt.Errorf("save document: %w", err))
	}
	return nil
}
