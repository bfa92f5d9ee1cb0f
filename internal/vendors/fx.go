package vendors

import (
	"github.com/orchardworks/presshouse/internal/vendors/repository"
	"github.com/orchardworks/presshouse/internal/vendors/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vendors.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
