package onboarding

import (
	"github.com/cashtrail/console/internal/onboarding/service"
	"go.uber.org/fx"
)

var Module = fx.Module("onboarding.service",
	fx.Provide(service.New),
)
