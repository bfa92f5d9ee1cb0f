package production

import (
	"github.com/orchardworks/presshouse/internal/production/repository"
	"github.com/orchardworks/presshouse/internal/production/service"
	"go.uber.org/fx"
)

var Module = fx.Module("production.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
