package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/orchardworks/presshouse/internal/config"
	"github.com/orchardworks/presshouse/internal/logger"
	"github.com/orchardworks/presshouse/internal/migration"
	"github.com/orchardworks/presshouse/internal/server"
	"github.com/orchardworks/presshouse/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
