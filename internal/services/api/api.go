// Package api provides the HTTP API for the application
package api

import (
	"clicktrail/internal/platform/config"
	"clicktrail/internal/platform/logger"
	phttp "clicktrail/internal/platform/net/http"
	"clicktrail/internal/platform/store"

	"clicktrail/internal/modkit"
	"clicktrail/internal/modkit/httpkit"
	"clicktrail/internal/modkit/module"

	"clicktrail/internal/core/platforms"
	recordsmod "clicktrail/internal/services/attribution/module"
	capturemod "clicktrail/internal/services/capture/module"
	touchdom "clicktrail/internal/services/touchlog/domain"
	touchmod "clicktrail/internal/services/touchlog/module"
	"clicktrail/internal/session"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Sessions       *session.Store
	Logger         *logger.Logger
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	reg := platforms.MustLoad()

	// The touchlog module owns the click-id log port; the records
	// module consumes it for merge-on-create detection
	touchlog := touchmod.New(deps)
	touches := module.MustPortsOf[touchdom.ServicePort](touchlog)

	capture := capturemod.New(deps, reg, opt.Sessions, capturemod.FromConfig(deps.Cfg))
	records := recordsmod.New(deps, reg, touches, recordsmod.FromConfig(deps.Cfg))

	mods := []module.Module{
		capture,
		records,
		touchlog,
	}

	// Every visitor-facing route runs behind the common stack plus the
	// session capture middleware
	mw := append(httpkit.CommonStack(), capture.Middleware())
	httpkit.MountUnder(r, "/", mw, func(api httpkit.Router) {
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}
