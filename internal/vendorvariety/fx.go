package vendorvariety

import (
	"github.com/orchardworks/presshouse/internal/vendorvariety/repository"
	"github.com/orchardworks/presshouse/internal/vendorvariety/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vendorvariety.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
