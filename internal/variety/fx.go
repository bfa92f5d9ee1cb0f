package variety

import (
	"github.com/orchardworks/presshouse/internal/variety/repository"
	"github.com/orchardworks/presshouse/internal/variety/service"
	"go.uber.org/fx"
)

var Module = fx.Module("variety.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
