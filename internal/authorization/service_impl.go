package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/orchardworks/presshouse/internal/actorcontext"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectVendor           = "vendor"
	ObjectVariety          = "variety"
	ObjectVendorVariety    = "vendor_variety"
	ObjectPurchase         = "purchase"
	ObjectInventory        = "inventory"
	ObjectProductionReport = "production_report"
	ObjectAuditLog         = "audit_log"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLink   = "link"
	ActionUnlink = "unlink"
)

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, object string, action string) error {
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return ErrInvalidActor
	}
	role := strings.ToLower(strings.TrimSpace(actor.Role))
	if role == "" {
		s.auditDenied(ctx, actor, object, action)
		return ErrForbidden
	}

	subject := fmt.Sprintf("user:%s", actor.ID)
	roleName := fmt.Sprintf("role:%s", role)
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, actor, object, action)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps exactly one role binding per subject so a role change
// in the token takes effect on the next request.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, actor actorcontext.Actor, object string, action string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.Record(ctx, nil, auditdomain.Entry{
		TableName: "authorization",
		RecordID:  object,
		Operation: auditdomain.OperationCreate,
		NewData: map[string]any{
			"object": object,
			"action": action,
			"actor":  actor.ID,
			"role":   actor.Role,
		},
		Reason: "authorization denied",
	}); err != nil {
		s.log.Warn("audit denied write failed", zap.Error(err))
	}
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	viewObjects := []string{
		ObjectVendor,
		ObjectVariety,
		ObjectVendorVariety,
		ObjectPurchase,
		ObjectInventory,
		ObjectProductionReport,
	}

	policies := [][]string{
		// Operator permissions on top of view
		{"role:operator", ObjectVendor, ActionCreate},
		{"role:operator", ObjectVendor, ActionUpdate},
		{"role:operator", ObjectVariety, ActionCreate},
		{"role:operator", ObjectVendorVariety, ActionLink},
		{"role:operator", ObjectVendorVariety, ActionUnlink},
		{"role:operator", ObjectPurchase, ActionCreate},
		{"role:operator", ObjectInventory, ActionCreate},
		{"role:operator", ObjectInventory, ActionUpdate},
		{"role:operator", ObjectProductionReport, ActionCreate},
		{"role:operator", ObjectProductionReport, ActionUpdate},

		// Admin permissions on top of operator
		{"role:admin", ObjectVendor, ActionDelete},
		{"role:admin", ObjectVariety, ActionDelete},
		{"role:admin", ObjectAuditLog, ActionView},
	}

	for _, object := range viewObjects {
		policies = append(policies,
			[]string{"role:viewer", object, ActionView},
		)
	}

	// Role inheritance: admin > operator > viewer.
	groupings := [][]string{
		{"role:operator", "role:viewer"},
		{"role:admin", "role:operator"},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	for _, grouping := range groupings {
		if _, err := enforcer.AddGroupingPolicy(grouping[0], grouping[1]); err != nil {
			return err
		}
	}
	return nil
}
