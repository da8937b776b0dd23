////////////////////////////////////////////////////////////////////////////////
// Collective DAO: local runtime for the collective DAO contract
////////////////////////////////////////////////////////////////////////////////

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"collective_dao/contract"
	"collective_dao/internal/config"
	"collective_dao/internal/host"
	"collective_dao/internal/logging"
	"collective_dao/internal/market"
	"collective_dao/internal/store"
	"collective_dao/internal/telemetry"
	"collective_dao/sdk"

	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("collective", pflag.ExitOnError)
	config.RegisterFlags(fs)
	script := fs.String("script", "", "yaml script of mints, calls and checks to replay")
	_ = fs.Parse(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, fs, *script); err != nil {
		logging.LogCLI(err, logging.Fatal)
		os.Exit(1)
	}
}

func run(ctx context.Context, fs *pflag.FlagSet, scriptPath string) error {
	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.Options())
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logging.LogCLI(err, logging.Warn)
		}
	}()

	backend, err := store.Open(ctx, cfg.Store.Options())
	if err != nil {
		return err
	}
	defer backend.Close()

	rt := host.NewRuntime(backend, host.WithMaxDepth(cfg.Runtime.MaxCallDepth))
	var mp contract.Marketplace
	if cfg.Gateway.URL != "" {
		gw := market.NewGateway(cfg.Gateway.URL, sdk.Address(cfg.Gateway.Escrow))
		gw.Timeout = cfg.Gateway.Timeout
		defer gw.Close()
		mp = gw
	} else if err := rt.Register(cfg.Runtime.MarketID, market.NewStub()); err != nil {
		return err
	}
	if err := rt.Register(cfg.Runtime.DAOID, contract.NewHandler(mp)); err != nil {
		return err
	}
	logging.Logf(logging.Info, "dao %q ready on %s backend", cfg.Runtime.DAOID, cfg.Store.Backend)

	if scriptPath == "" {
		logging.Logf(logging.Info, "no --script given, entry points: %s", strings.Join(contract.Actions(), ", "))
		return nil
	}
	f, err := os.Open(scriptPath)
	if err != nil {
		return err
	}
	defer f.Close()
	s, err := host.ParseScript(f)
	if err != nil {
		return err
	}
	results, err := s.Run(ctx, rt)
	for _, r := range results {
		status := "ok"
		if !r.Result.Success {
			status = "failed: " + r.Result.Err.Error()
		}
		fmt.Printf("%3d %-24s %s %s\n", r.Index, r.Name, status, r.Result.Ret)
		for _, l := range r.Result.Logs {
			fmt.Printf("      %s\n", l)
		}
	}
	return err
}
