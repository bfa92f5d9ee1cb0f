package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	auditdomain "github.com/orchardworks/presshouse/internal/audit/domain"
	auditrepository "github.com/orchardworks/presshouse/internal/audit/repository"
	auditservice "github.com/orchardworks/presshouse/internal/audit/service"
	varietydomain "github.com/orchardworks/presshouse/internal/variety/domain"
	varietyrepository "github.com/orchardworks/presshouse/internal/variety/repository"
	vendordomain "github.com/orchardworks/presshouse/internal/vendors/domain"
	vendorrepository "github.com/orchardworks/presshouse/internal/vendors/repository"
	"github.com/orchardworks/presshouse/internal/vendorvariety/domain"
	"github.com/orchardworks/presshouse/internal/vendorvariety/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var schemaStatements = []string{
	`CREATE TABLE vendors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE TABLE audit_logs (
		id INTEGER PRIMARY KEY,
		table_name TEXT NOT NULL,
		record_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		old_data TEXT,
		new_data TEXT,
		actor_id TEXT,
		actor_role TEXT,
		reason TEXT,
		request_id TEXT,
		ip_address TEXT,
		created_at DATETIME NOT NULL
	)`,
}

func init() {
	for _, kind := range varietydomain.Kinds() {
		schemaStatements = append(schemaStatements,
			fmt.Sprintf(`CREATE TABLE %s (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				category TEXT,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				deleted_at DATETIME
			)`, kind.TableName()),
			fmt.Sprintf(`CREATE UNIQUE INDEX idx_%s_name_live ON %s (LOWER(name)) WHERE deleted_at IS NULL`,
				kind.TableName(), kind.TableName()),
			fmt.Sprintf(`CREATE TABLE %s (
				id TEXT PRIMARY KEY,
				vendor_id TEXT NOT NULL,
				variety_id TEXT NOT NULL,
				notes TEXT,
				created_at DATETIME NOT NULL,
				deleted_at DATETIME
			)`, kind.LinkTableName()),
			fmt.Sprintf(`CREATE UNIQUE INDEX idx_%s_live ON %s (vendor_id, variety_id) WHERE deleted_at IS NULL`,
				kind.LinkTableName(), kind.LinkTableName()),
		)
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	for _, stmt := range schemaStatements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type fixture struct {
	db          *gorm.DB
	svc         domain.Service
	repo        domain.Repository
	vendorRepo  vendordomain.Repository
	varietyRepo varietydomain.Repository
	auditSvc    auditdomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := openTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	auditSvc := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  auditrepository.Provide(),
	})

	repo := repository.Provide()
	vendorRepo := vendorrepository.Provide()
	varietyRepo := varietyrepository.Provide()

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Repo:        repo,
		VendorRepo:  vendorRepo,
		VarietyRepo: varietyRepo,
		AuditSvc:    auditSvc,
	})

	return &fixture{
		db:          db,
		svc:         svc,
		repo:        repo,
		vendorRepo:  vendorRepo,
		varietyRepo: varietyRepo,
		auditSvc:    auditSvc,
	}
}

func (f *fixture) createVendor(t *testing.T, name string) vendordomain.Vendor {
	t.Helper()

	now := time.Now().UTC()
	vendor := vendordomain.Vendor{
		ID:        uuid.New(),
		Name:      name,
		Code:      fmt.Sprintf("code-%s", uuid.NewString()[:8]),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.vendorRepo.Insert(context.Background(), f.db, &vendor))
	return vendor
}

func (f *fixture) createVariety(t *testing.T, kind varietydomain.Kind, name string, active bool) varietydomain.Variety {
	t.Helper()

	now := time.Now().UTC()
	variety := varietydomain.Variety{
		ID:        uuid.New(),
		Name:      name,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.varietyRepo.Insert(context.Background(), f.db, kind, &variety))
	return variety
}

func (f *fixture) countLinks(t *testing.T, kind varietydomain.Kind, vendorID, varietyID uuid.UUID, liveOnly bool) int64 {
	t.Helper()

	var count int64
	stmt := f.db.Table(kind.LinkTableName()).
		Where("vendor_id = ? AND variety_id = ?", vendorID, varietyID)
	if liveOnly {
		stmt = stmt.Where("deleted_at IS NULL")
	}
	require.NoError(t, stmt.Count(&count).Error)
	return count
}

func (f *fixture) auditReasons(t *testing.T, tableName string) []string {
	t.Helper()

	var reasons []string
	require.NoError(t, f.db.
		Table("audit_logs").
		Where("table_name = ?", tableName).
		Order("id asc").
		Pluck("reason", &reasons).Error)
	return reasons
}

func TestAttachCreatesLinkAndAudit(t *testing.T) {
	f := newFixture(t)
	vendor := f.createVendor(t, "Hillside Orchard")
	variety := f.createVariety(t, varietydomain.KindBaseFruit, "Dabinett", true)

	resp, err := f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.KindBaseFruit,
		NameOrID: variety.ID.String(),
		Notes:    "2026 harvest contract",
	})
	require.NoError(t, err)

	assert.Equal(t, vendor.ID, resp.VendorID)
	assert.Equal(t, variety.ID, resp.VarietyID)
	assert.Equal(t, "Dabinett", resp.VarietyName)
	assert.False(t, resp.AlreadyExists)
	assert.False(t, resp.Created)

	assert.EqualValues(t, 1, f.countLinks(t, varietydomain.KindBaseFruit, vendor.ID, variety.ID, true))
	assert.Equal(t, []string{"link created via API"},
		f.auditReasons(t, varietydomain.KindBaseFruit.LinkTableName()))
}

func TestAttachIsIdempotent(t *testing.T) {
	f := newFixture(t)
	vendor := f.createVendor(t, "Hillside Orchard")
	variety := f.createVariety(t, varietydomain.KindBaseFruit, "Dabinett", true)

	req := domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.KindBaseFruit,
		NameOrID: variety.ID.String(),
	}

	first, err := f.svc.Attach(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.AlreadyExists)

	second, err := f.svc.Attach(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.VarietyID, second.VarietyID)

	// Still exactly one live link and one create audit record.
	assert.EqualValues(t, 1, f.countLinks(t, varietydomain.KindBaseFruit, vendor.ID, variety.ID, true))
	assert.Len(t, f.auditReasons(t, varietydomain.KindBaseFruit.LinkTableName()), 1)
}

func TestAttachByNameAutoCreatesVariety(t *testing.T) {
	f := newFixture(t)
	vendor := f.createVendor(t, "Hillside Orchard")

	resp, err := f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.KindJuice,
		NameOrID: "  Kingston Black  ",
	})
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, "Kingston Black", resp.VarietyName)

	created, err := f.varietyRepo.FindByID(context.Background(), f.db, varietydomain.KindJuice, resp.VarietyID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.IsActive)

	assert.Equal(t, []string{"auto-created when linking to vendor"},
		f.auditReasons(t, varietydomain.KindJuice.TableName()))
}

func TestAttachByNameReusesExistingCaseInsensitively(t *testing.T) {
	f := newFixture(t)
	vendor := f.createVendor(t, "Hillside Orchard")
	variety := f.createVariety(t, varietydomain.KindBaseFruit, "Kingston Black", true)

	resp, err := f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.KindBaseFruit,
		NameOrID: "kingston black",
	})
	require.NoError(t, err)
	assert.False(t, resp.Created)
	assert.Equal(t, variety.ID, resp.VarietyID)
	assert.Equal(t, "Kingston Black", resp.VarietyName)
}

// raceLosingVarietyRepo reports the first name lookup as a miss, the way a
// writer racing another auto-create sees the table before its insert collides.
type raceLosingVarietyRepo struct {
	varietydomain.Repository
	missed bool
}

func (r *raceLosingVarietyRepo) FindByName(ctx context.Context, db *gorm.DB, kind varietydomain.Kind, name string) (*varietydomain.Variety, error) {
	if !r.missed {
		r.missed = true
		return nil, nil
	}
	return r.Repository.FindByName(ctx, db, kind, name)
}

func TestAttachByNameRaceResolvesToExistingVariety(t *testing.T) {
	f := newFixture(t)
	vendor := f.createVendor(t, "Hillside Orchard")
	existing := f.createVariety(t, varietydomain.KindBaseFruit, "Gala", true)

	svc := New(Params{
		DB:          f.db,
		Log:         zap.NewNop(),
		Repo:        f.repo,
		VendorRepo:  f.vendorRepo,
		VarietyRepo: &raceLosingVarietyRepo{Repository: f.varietyRepo},
		AuditSvc:    f.auditSvc,
	})

	resp, err := svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.KindBaseFruit,
		NameOrID: "gala",
	})
	require.NoError(t, err)
	assert.False(t, resp.Created)
	assert.Equal(t, existing.ID, resp.VarietyID)

	// The unique LOWER(name) index kept the loser's row out.
	var count int64
	require.NoError(t, f.db.Table(varietydomain.KindBaseFruit.TableName()).
		Where("LOWER(name) = ? AND deleted_at IS NULL", "gala").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAttachUUIDShapedInputIsAlwaysIDLookup(t *testing.T) {
	f := newFixture(t)
	vendor := f.createVendor(t, "Hillside Orchard")

	// A variety whose name happens to be a UUID must not be matched by name.
	unknown := uuid.New()
	f.createVariety(t, varietydomain.KindBaseFruit, unknown.String(), true)

	_, err := f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.KindBaseFruit,
		NameOrID: unknown.String(),
	})
	assert.ErrorIs(t, err, domain.ErrVarietyNotFound)
}

func TestAttachRejectsUnknownOrInactiveVendor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: uuid.NewString(),
		Kind:     varietydomain.KindBaseFruit,
		NameOrID: "Dabinett",
	})
	assert.ErrorIs(t, err, domain.ErrVendorNotFound)

	inactive := f.createVendor(t, "Closed Farm")
	require.NoError(t, f.vendorRepo.SetActive(context.Background(), f.db, inactive.ID, false))

	_, err = f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: inactive.ID.String(),
		Kind:     varietydomain.KindBaseFruit,
		NameOrID: "Dabinett",
	})
	assert.ErrorIs(t, err, domain.ErrVendorNotFound)
}

func TestAttachValidation(t *testing.T) {
	f := newFixture(t)
	vendor := f.createVendor(t, "Hillside Orchard")

	_, err := f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: "not-a-uuid",
		Kind:     varietydomain.KindBaseFruit,
		NameOrID: "Dabinett",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVendorID)

	_, err = f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.Kind("cider"),
		NameOrID: "Dabinett",
	})
	assert.ErrorIs(t, err, varietydomain.ErrInvalidKind)

	_, err = f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.KindBaseFruit,
		NameOrID: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestDetachSoftDeletesAndAudits(t *testing.T) {
	f := newFixture(t)
	vendor := f.createVendor(t, "Hillside Orchard")
	variety := f.createVariety(t, varietydomain.KindPackaging, "750ml bottle", true)

	_, err := f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.KindPackaging,
		NameOrID: variety.ID.String(),
	})
	require.NoError(t, err)

	resp, err := f.svc.Detach(context.Background(), domain.DetachRequest{
		VendorID:  vendor.ID.String(),
		Kind:      varietydomain.KindPackaging,
		VarietyID: variety.ID.String(),
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "unlinked")

	assert.EqualValues(t, 0, f.countLinks(t, varietydomain.KindPackaging, vendor.ID, variety.ID, true))
	assert.EqualValues(t, 1, f.countLinks(t, varietydomain.KindPackaging, vendor.ID, variety.ID, false))

	reasons := f.auditReasons(t, varietydomain.KindPackaging.LinkTableName())
	assert.Equal(t, []string{"link created via API", "link removed via API"}, reasons)

	// Detaching again reports the link as gone.
	_, err = f.svc.Detach(context.Background(), domain.DetachRequest{
		VendorID:  vendor.ID.String(),
		Kind:      varietydomain.KindPackaging,
		VarietyID: variety.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	// The failed detach writes no audit record.
	assert.Len(t, f.auditReasons(t, varietydomain.KindPackaging.LinkTableName()), 2)
}

func TestReattachAfterDetachCreatesNewRow(t *testing.T) {
	f := newFixture(t)
	vendor := f.createVendor(t, "Hillside Orchard")
	variety := f.createVariety(t, varietydomain.KindAdditive, "Pectic enzyme", true)

	attach := domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.KindAdditive,
		NameOrID: variety.ID.String(),
	}

	_, err := f.svc.Attach(context.Background(), attach)
	require.NoError(t, err)

	_, err = f.svc.Detach(context.Background(), domain.DetachRequest{
		VendorID:  vendor.ID.String(),
		Kind:      varietydomain.KindAdditive,
		VarietyID: variety.ID.String(),
	})
	require.NoError(t, err)

	resp, err := f.svc.Attach(context.Background(), attach)
	require.NoError(t, err)
	assert.False(t, resp.AlreadyExists)

	// The soft-deleted row stays; a second, live row exists alongside it.
	assert.EqualValues(t, 2, f.countLinks(t, varietydomain.KindAdditive, vendor.ID, variety.ID, false))
	assert.EqualValues(t, 1, f.countLinks(t, varietydomain.KindAdditive, vendor.ID, variety.ID, true))
}

func TestListForVendorMergesKindsSorted(t *testing.T) {
	f := newFixture(t)
	vendor := f.createVendor(t, "Hillside Orchard")

	names := map[varietydomain.Kind]string{
		varietydomain.KindJuice:     "apple juice blend",
		varietydomain.KindBaseFruit: "Dabinett",
		varietydomain.KindPackaging: "Crown cap",
		varietydomain.KindAdditive:  "yeast nutrient",
	}
	for kind, name := range names {
		_, err := f.svc.Attach(context.Background(), domain.AttachRequest{
			VendorID: vendor.ID.String(),
			Kind:     kind,
			NameOrID: name,
		})
		require.NoError(t, err)
	}

	// A detached link must not appear in the listing.
	dropped := f.createVariety(t, varietydomain.KindBaseFruit, "Yarlington Mill", true)
	_, err := f.svc.Attach(context.Background(), domain.AttachRequest{
		VendorID: vendor.ID.String(),
		Kind:     varietydomain.KindBaseFruit,
		NameOrID: dropped.ID.String(),
	})
	require.NoError(t, err)
	_, err = f.svc.Detach(context.Background(), domain.DetachRequest{
		VendorID:  vendor.ID.String(),
		Kind:      varietydomain.KindBaseFruit,
		VarietyID: dropped.ID.String(),
	})
	require.NoError(t, err)

	resp, err := f.svc.ListForVendor(context.Background(), domain.ListForVendorRequest{
		VendorID: vendor.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, resp.Varieties, 4)

	got := make([]string, 0, len(resp.Varieties))
	for _, item := range resp.Varieties {
		got = append(got, item.Name)
	}
	assert.Equal(t, []string{"apple juice blend", "Crown cap", "Dabinett", "yeast nutrient"}, got)

	kinds := map[string]varietydomain.Kind{}
	for _, item := range resp.Varieties {
		kinds[item.Name] = item.Kind
	}
	assert.Equal(t, varietydomain.KindPackaging, kinds["Crown cap"])
	assert.Equal(t, varietydomain.KindJuice, kinds["apple juice blend"])
}

func TestListForVendorUnknownVendor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListForVendor(context.Background(), domain.ListForVendorRequest{
		VendorID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, domain.ErrVendorNotFound)
}

func TestSearchMatchesSubstringCaseInsensitive(t *testing.T) {
	f := newFixture(t)

	f.createVariety(t, varietydomain.KindBaseFruit, "Kingston Black", true)
	f.createVariety(t, varietydomain.KindBaseFruit, "Black Dabinett", true)
	f.createVariety(t, varietydomain.KindBaseFruit, "Browns Apple", true)
	f.createVariety(t, varietydomain.KindBaseFruit, "Blackwood", false)
	archived := f.createVariety(t, varietydomain.KindBaseFruit, "Black Vintage", true)
	require.NoError(t, f.varietyRepo.SoftDelete(context.Background(), f.db, varietydomain.KindBaseFruit, archived.ID))

	resp, err := f.svc.Search(context.Background(), domain.SearchRequest{Query: "bLaCk"})
	require.NoError(t, err)

	assert.Equal(t, "bLaCk", resp.Query)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Varieties, 2)
	assert.Equal(t, "Black Dabinett", resp.Varieties[0].Name)
	assert.Equal(t, "Kingston Black", resp.Varieties[1].Name)
}

func TestSearchLimitAndValidation(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 15; i++ {
		f.createVariety(t, varietydomain.KindBaseFruit, fmt.Sprintf("Seedling %02d", i), true)
	}

	resp, err := f.svc.Search(context.Background(), domain.SearchRequest{Query: "seedling"})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Count)

	resp, err = f.svc.Search(context.Background(), domain.SearchRequest{Query: "seedling", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Count)

	_, err = f.svc.Search(context.Background(), domain.SearchRequest{Query: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}
