package purchasing

import (
	"github.com/orchardworks/presshouse/internal/purchasing/repository"
	"github.com/orchardworks/presshouse/internal/purchasing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("purchasing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
