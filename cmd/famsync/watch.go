package main

import (
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecofamily/famsync/internal/config"
	"github.com/ecofamily/famsync/internal/types"
	"github.com/ecofamily/famsync/pkg/famclient"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the family week live",
	Long:  "Render the week and re-render whenever anyone in the family changes the shared data. Stop with Ctrl-C.",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	render := func(data types.SharedData) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprint(cmd.OutOrStdout(), "\033[2J\033[H")
		renderWeek(cmd.OutOrStdout(), data, cfg.Family, time.Now(), 0)
		fmt.Fprintln(cmd.OutOrStdout(), "\nFöljer ändringar, avsluta med Ctrl-C.")
	}

	client, err := famclient.New(famclient.Config{
		RemoteURL: cfg.Remote.BaseURL,
		StateDir:  cfg.Client.StateDir,
		Family:    cfg.Family,
		Timeout:   time.Duration(cfg.Remote.Timeout),
		OnChange:  render,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	if client.Session() == nil {
		return errSignedOut
	}
	if err := client.Connect(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
