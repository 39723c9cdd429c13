package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cashtrail/console/internal/clock"
	"github.com/cashtrail/console/internal/commission"
	"github.com/cashtrail/console/internal/config"
	"github.com/cashtrail/console/internal/dispute"
	"github.com/cashtrail/console/internal/export"
	"github.com/cashtrail/console/internal/observability"
	"github.com/cashtrail/console/internal/onboarding"
	"github.com/cashtrail/console/internal/report"
	"github.com/cashtrail/console/internal/seed"
	"github.com/cashtrail/console/internal/server"
	"github.com/cashtrail/console/internal/simulator"
	"github.com/cashtrail/console/internal/store"
	"github.com/cashtrail/console/internal/transaction"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		clock.Module,
		store.Module,

		// Functional domains
		commission.Module,
		transaction.Module,
		dispute.Module,
		onboarding.Module,
		report.Module,
		export.Module,
		simulator.Module,
		seed.Module,

		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
