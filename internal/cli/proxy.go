package cli

import (
	"context"
	"strings"

	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/rileyhilliard/actop/internal/logger"
	"github.com/rileyhilliard/actop/internal/proxy"
	"github.com/rileyhilliard/actop/internal/ui"
)

// proxyCommand runs the guarded reverse proxy until ctx is cancelled.
func proxyCommand(ctx context.Context, flags *ProxyFlags) error {
	cfg, _, err := loadConfig(flags.Apply)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Name: "proxy"})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't set up logging", "")
	}
	defer logger.Sync(log)

	srv, err := proxy.New(proxy.Options{
		Listen:        cfg.Proxy.Listen,
		Target:        cfg.Proxy.Target,
		Prefix:        flags.Prefix,
		FilterEnabled: cfg.Proxy.FilterEnabled,
		AllowedIPs:    cfg.Proxy.AllowedIPs,
		Log:           log,
	})
	if err != nil {
		return err
	}

	if cfg.Proxy.FilterEnabled {
		log.Info("allowing %s", strings.Join(cfg.Proxy.AllowedIPs, ", "))
	} else {
		ui.PrintWarning("IP filtering is off: anyone who can reach " + cfg.Proxy.Listen + " can read the actuator")
	}

	return srv.Run(ctx)
}
