package audit

import (
	"github.com/orchardworks/presshouse/internal/audit/repository"
	"github.com/orchardworks/presshouse/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
