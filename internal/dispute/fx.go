package dispute

import (
	"github.com/cashtrail/console/internal/dispute/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dispute.service",
	fx.Provide(service.New),
)
