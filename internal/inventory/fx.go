package inventory

import (
	"github.com/orchardworks/presshouse/internal/inventory/repository"
	"github.com/orchardworks/presshouse/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
