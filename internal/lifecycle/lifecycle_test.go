package lifecycle

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emprendia/emprendia/internal/authz"
	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/internal/mediastore"
	"github.com/emprendia/emprendia/internal/repository"
)

type recordingBus struct {
	events []AuditEvent
}

func (b *recordingBus) Publish(topic string, args ...interface{}) {
	if topic != TopicResourceAudit || len(args) == 0 {
		return
	}
	if evt, ok := args[0].(AuditEvent); ok {
		b.events = append(b.events, evt)
	}
}

type fixture struct {
	db       *gorm.DB
	store    *mediastore.Store
	products *repository.ProductRepository
	services *repository.ServiceRepository
	manager  *Manager
	bus      *recordingBus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	store, err := mediastore.NewStore(t.TempDir(), "/storage", 1<<20)
	require.NoError(t, err)

	products := repository.NewProductRepository(db)
	services := repository.NewServiceRepository(db)
	favorites := repository.NewFavoriteRepository(db)
	bus := &recordingBus{}
	return &fixture{
		db:       db,
		store:    store,
		products: products,
		services: services,
		manager:  NewManager(store, products, services, favorites, bus),
		bus:      bus,
	}
}

func (f *fixture) storedFileCount(t *testing.T) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(f.store.Root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}

func pngUpload() *Upload {
	return &Upload{
		Data: append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...),
		Mime: "image/png",
		Name: "foto.png",
	}
}

var owner = domain.Actor{ID: 1, Kind: domain.ActorKindEntrepreneur, Role: domain.RoleEntrepreneur}

func validProductInput() ProductInput {
	return ProductInput{
		Name:        "Camisa Azul",
		Category:    "ropa",
		Description: "una camisa azul de algodón",
		Price:       35000,
		Stock:       3,
	}
}

func TestCreateProductStoresMediaAndRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validProductInput()
	in.MainImage = pngUpload()
	in.Gallery = []Upload{*pngUpload(), *pngUpload()}

	p, err := f.manager.CreateProduct(ctx, owner, in)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, p.EntrepreneurID)
	assert.True(t, f.store.Exists(p.MainImage))
	for _, ref := range p.GalleryImages {
		assert.True(t, f.store.Exists(ref))
	}
	assert.Equal(t, 3, f.storedFileCount(t))

	require.Len(t, f.bus.events, 1)
	assert.Equal(t, "create", f.bus.events[0].Action)
	assert.Equal(t, "product", f.bus.events[0].Resource)
}

func TestCreateProductValidationStoresNothing(t *testing.T) {
	f := newFixture(t)

	in := validProductInput()
	in.Name = ""
	in.Price = -1
	in.MainImage = pngUpload()

	_, err := f.manager.CreateProduct(context.Background(), owner, in)
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "name")
	assert.Contains(t, fe, "price")
	assert.Zero(t, f.storedFileCount(t), "validation failures must not store files")
}

func TestCreateProductRejectsBadMedia(t *testing.T) {
	f := newFixture(t)

	in := validProductInput()
	in.MainImage = &Upload{Data: []byte("not an image"), Mime: "text/plain", Name: "x.txt"}

	_, err := f.manager.CreateProduct(context.Background(), owner, in)
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "main_image")
	assert.Zero(t, f.storedFileCount(t))

	var total int64
	f.db.Model(&domain.Product{}).Count(&total)
	assert.Zero(t, total, "no row persists when media is rejected")
}

func TestCreateProductRollsBackMediaOnPersistFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Make the insert fail after the files are already stored.
	require.NoError(t, f.db.Migrator().DropTable(&domain.Product{}))

	in := validProductInput()
	in.MainImage = pngUpload()
	in.Gallery = []Upload{*pngUpload()}

	_, err := f.manager.CreateProduct(ctx, owner, in)
	require.Error(t, err)
	assert.Zero(t, f.storedFileCount(t), "stored files must be removed when the row cannot persist")
	assert.Empty(t, f.bus.events)
}

func TestCreateProductForOtherOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validProductInput()
	in.EntrepreneurID = 2

	_, err := f.manager.CreateProduct(ctx, owner, in)
	assert.ErrorIs(t, err, authz.ErrForbidden, "an entrepreneur cannot create for someone else")

	admin := domain.Actor{ID: 99, Kind: domain.ActorKindUser, Role: domain.RoleAdmin}
	p, err := f.manager.CreateProduct(ctx, admin, in)
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.EntrepreneurID)
}

func TestUpdateProductReplacesMediaAfterPersist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validProductInput()
	in.MainImage = pngUpload()
	p, err := f.manager.CreateProduct(ctx, owner, in)
	require.NoError(t, err)
	oldRef := p.MainImage

	patch := ProductPatch{MainImage: pngUpload()}
	updated, err := f.manager.UpdateProduct(ctx, owner, p.ID, patch)
	require.NoError(t, err)

	assert.NotEqual(t, oldRef, updated.MainImage)
	assert.True(t, f.store.Exists(updated.MainImage))
	assert.False(t, f.store.Exists(oldRef), "superseded file is deleted after persist")
	assert.Equal(t, 1, f.storedFileCount(t))
}

func TestUpdateProductGalleryReplacement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validProductInput()
	in.Gallery = []Upload{*pngUpload(), *pngUpload()}
	p, err := f.manager.CreateProduct(ctx, owner, in)
	require.NoError(t, err)
	oldRefs := append([]string(nil), p.GalleryImages...)

	patch := ProductPatch{Gallery: []Upload{*pngUpload()}}
	updated, err := f.manager.UpdateProduct(ctx, owner, p.ID, patch)
	require.NoError(t, err)

	require.Len(t, updated.GalleryImages, 1, "a submitted gallery replaces the whole set")
	for _, ref := range oldRefs {
		assert.False(t, f.store.Exists(ref))
	}
	assert.Equal(t, 1, f.storedFileCount(t))
}

func TestUpdateProductPartialLeavesMediaAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validProductInput()
	in.MainImage = pngUpload()
	in.Gallery = []Upload{*pngUpload()}
	p, err := f.manager.CreateProduct(ctx, owner, in)
	require.NoError(t, err)

	price := 40000.0
	updated, err := f.manager.UpdateProduct(ctx, owner, p.ID, ProductPatch{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, 40000.0, updated.Price)
	assert.Equal(t, p.MainImage, updated.MainImage)
	assert.Equal(t, p.GalleryImages, updated.GalleryImages)
	assert.Equal(t, 2, f.storedFileCount(t))
}

func TestUpdateProductForbiddenLeavesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validProductInput()
	in.MainImage = pngUpload()
	p, err := f.manager.CreateProduct(ctx, owner, in)
	require.NoError(t, err)

	stranger := domain.Actor{ID: 42, Kind: domain.ActorKindEntrepreneur, Role: domain.RoleEntrepreneur}
	name := "Robada"
	_, err = f.manager.UpdateProduct(ctx, stranger, p.ID, ProductPatch{
		Name: &name, MainImage: pngUpload(),
	})
	assert.ErrorIs(t, err, authz.ErrForbidden)

	got, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camisa Azul", got.Name)
	assert.Equal(t, p.MainImage, got.MainImage)
	assert.Equal(t, 1, f.storedFileCount(t), "no replacement file is stored for a denied actor")
}

func TestDeleteProductKeepsMediaUntilPurge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validProductInput()
	in.MainImage = pngUpload()
	in.Gallery = []Upload{*pngUpload()}
	p, err := f.manager.CreateProduct(ctx, owner, in)
	require.NoError(t, err)

	require.NoError(t, f.manager.DeleteProduct(ctx, owner, p.ID))

	_, err = f.products.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 2, f.storedFileCount(t), "soft delete keeps media recoverable")

	require.NoError(t, f.manager.PurgeProduct(ctx, p))
	assert.Zero(t, f.storedFileCount(t), "purge removes media with the row")
}

func TestPurgeProductClearsFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.manager.CreateProduct(ctx, owner, validProductInput())
	require.NoError(t, err)

	favorites := repository.NewFavoriteRepository(f.db)
	target := domain.FavoriteTarget{Kind: domain.FavoriteProduct, TargetID: p.ID}
	require.NoError(t, favorites.Add(ctx, 500, target))

	require.NoError(t, f.manager.PurgeProduct(ctx, p))

	rows, err := favorites.ListByUser(ctx, 500)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestToggleProductStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.manager.CreateProduct(ctx, owner, validProductInput())
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, p.Status)

	toggled, err := f.manager.ToggleProductStatus(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, toggled.Status)

	toggled, err = f.manager.ToggleProductStatus(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, toggled.Status)
}

func TestToggleProductFeaturedIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.manager.CreateProduct(ctx, owner, validProductInput())
	require.NoError(t, err)

	_, err = f.manager.ToggleProductFeatured(ctx, owner, p.ID)
	assert.ErrorIs(t, err, authz.ErrForbidden, "even the owner cannot feature their own product")

	admin := domain.Actor{ID: 9, Kind: domain.ActorKindUser, Role: domain.RoleAdmin}
	featured, err := f.manager.ToggleProductFeatured(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.True(t, featured.Featured)
}

func validServiceInput() ServiceInput {
	return ServiceInput{
		Name:        "Peluquería Canina",
		Category:    "mascotas",
		Description: "baño, corte y peinado",
		Address:     "Calle 10 #4-32",
		Phone:       "3001234567",
	}
}

func TestServiceLifecycleSpanishFieldErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.CreateService(context.Background(), owner, ServiceInput{})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "nombre_servicio")
	assert.Contains(t, fe, "categoria")
	assert.Contains(t, fe, "descripcion")
	assert.Contains(t, fe, "direccion")
	assert.Contains(t, fe, "telefono")
}

func TestServiceUpdateReplacesMainImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validServiceInput()
	in.MainImage = pngUpload()
	s, err := f.manager.CreateService(ctx, owner, in)
	require.NoError(t, err)
	oldRef := s.MainImage

	updated, err := f.manager.UpdateService(ctx, owner, s.ID, ServicePatch{MainImage: pngUpload()})
	require.NoError(t, err)
	assert.NotEqual(t, oldRef, updated.MainImage)
	assert.False(t, f.store.Exists(oldRef))
	assert.True(t, f.store.Exists(updated.MainImage))
}

func TestServiceSoftDeleteThenPurge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validServiceInput()
	in.Gallery = []Upload{*pngUpload()}
	s, err := f.manager.CreateService(ctx, owner, in)
	require.NoError(t, err)

	require.NoError(t, f.manager.DeleteService(ctx, owner, s.ID))
	assert.Equal(t, 1, f.storedFileCount(t))

	require.NoError(t, f.manager.PurgeService(ctx, s))
	assert.Zero(t, f.storedFileCount(t))
}
