package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecofamily/famsync/internal/config"
	"github.com/ecofamily/famsync/pkg/famclient"
)

var errSignedOut = errors.New("not signed in to a family, run \"famsync family create\" or \"famsync family join\" first")

// resolveClient builds a famclient from the loaded configuration. The client
// restores any persisted session but does not touch the network.
func resolveClient() (*famclient.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	client, err := famclient.New(famclient.Config{
		RemoteURL: cfg.Remote.BaseURL,
		StateDir:  cfg.Client.StateDir,
		Family:    cfg.Family,
		Timeout:   time.Duration(cfg.Remote.Timeout),
	})
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// resolveConnectedClient additionally requires a session and brings the
// shared document up to date before returning.
func resolveConnectedClient(ctx context.Context) (*famclient.Client, *config.Config, error) {
	client, cfg, err := resolveClient()
	if err != nil {
		return nil, nil, err
	}
	if client.Session() == nil {
		return nil, nil, errSignedOut
	}
	if err := client.Connect(ctx); err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}
