package service

import (
	"context"
	"strings"
	"testing"

	"redoma-support-be/internal/constant"
	"redoma-support-be/internal/dto"
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProviderService(f *fakeFactory, feed *fakeFeedPublisher, store *fakeStorage) IProviderService {
	return NewProviderService(f, feed, store, fakeLogger{})
}

func TestEnsureSeededIsIdempotent(t *testing.T) {
	f := newFakeFactory()
	svc := newProviderService(f, &fakeFeedPublisher{}, &fakeStorage{})

	require.NoError(t, svc.EnsureSeeded(context.Background()))
	assert.Len(t, f.uow.providers.providers, 3)

	names := map[string]bool{}
	for _, p := range f.uow.providers.providers {
		names[p.Name] = true
		assert.True(t, p.IsActive)
	}
	assert.True(t, names["Mercado Livre"])
	assert.True(t, names["Shopee"])
	assert.True(t, names["Redoma Reformas"])

	// A second run on a populated table inserts nothing.
	require.NoError(t, svc.EnsureSeeded(context.Background()))
	assert.Len(t, f.uow.providers.providers, 3)
}

func TestListActiveHidesInactiveProviders(t *testing.T) {
	f := newFakeFactory()
	active := &entity.Provider{Id: uuid.New(), Name: "Shopee", Type: entity.ProviderTypeEcommerce, IsActive: true}
	hidden := &entity.Provider{Id: uuid.New(), Name: "Old Partner", Type: entity.ProviderTypeService, IsActive: false}
	f.uow.providers.providers[active.Id] = active
	f.uow.providers.providers[hidden.Id] = hidden
	svc := newProviderService(f, &fakeFeedPublisher{}, &fakeStorage{})

	res, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Shopee", res[0].Name)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateProviderDefaultsToActiveAndBroadcasts(t *testing.T) {
	f := newFakeFactory()
	feed := &fakeFeedPublisher{}
	svc := newProviderService(f, feed, &fakeStorage{})

	res, err := svc.Create(context.Background(), &dto.CreateProviderRequest{
		Name:            "Magalu",
		Type:            "ecommerce",
		Category:        "Marketplace",
		CashbackPercent: 3.5,
		Link:            "https://www.magazineluiza.com.br",
	})
	require.NoError(t, err)
	assert.True(t, res.IsActive)

	rows := feed.forTable(constant.TableProviders)
	require.Len(t, rows, 1)
	assert.Equal(t, "INSERT", rows[0].Action)
	// Catalog changes are public, never scoped to a conversation or token.
	assert.Empty(t, rows[0].ConversationId)
	assert.Empty(t, rows[0].ClientToken)
}

func TestUpdateProviderAppliesPartialPatch(t *testing.T) {
	f := newFakeFactory()
	p := &entity.Provider{Id: uuid.New(), Name: "Shopee", Type: entity.ProviderTypeEcommerce, CashbackPercent: 5.0, IsActive: true}
	f.uow.providers.providers[p.Id] = p
	svc := newProviderService(f, &fakeFeedPublisher{}, &fakeStorage{})

	inactive := false
	cashback := 7.5
	res, err := svc.Update(context.Background(), p.Id, &dto.UpdateProviderRequest{
		CashbackPercent: &cashback,
		IsActive:        &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.5, res.CashbackPercent)
	assert.False(t, res.IsActive)
	assert.Equal(t, "Shopee", res.Name)
}

func TestUpdateUnknownProvider(t *testing.T) {
	f := newFakeFactory()
	svc := newProviderService(f, &fakeFeedPublisher{}, &fakeStorage{})

	name := "Ghost"
	_, err := svc.Update(context.Background(), uuid.New(), &dto.UpdateProviderRequest{Name: &name})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestDeleteProviderBroadcastsRemoval(t *testing.T) {
	f := newFakeFactory()
	p := &entity.Provider{Id: uuid.New(), Name: "Shopee", IsActive: true}
	f.uow.providers.providers[p.Id] = p
	feed := &fakeFeedPublisher{}
	svc := newProviderService(f, feed, &fakeStorage{})

	require.NoError(t, svc.Delete(context.Background(), p.Id))
	assert.Empty(t, f.uow.providers.providers)

	rows := feed.forTable(constant.TableProviders)
	require.Len(t, rows, 1)
	assert.Equal(t, "DELETE", rows[0].Action)
}

func TestUploadLogoStampsPublicURL(t *testing.T) {
	f := newFakeFactory()
	p := &entity.Provider{Id: uuid.New(), Name: "Shopee", IsActive: true}
	f.uow.providers.providers[p.Id] = p
	store := &fakeStorage{}
	svc := newProviderService(f, &fakeFeedPublisher{}, store)

	res, err := svc.UploadLogo(context.Background(), p.Id, &ImageUpload{
		FileName:    "logo.svg",
		ContentType: "image/svg+xml",
		Reader:      strings.NewReader("<svg/>"),
	})
	require.NoError(t, err)

	require.Len(t, store.uploads, 1)
	up := store.uploads[0]
	assert.Equal(t, constant.BucketProviderLogos, up.Bucket)
	assert.True(t, strings.HasPrefix(up.Path, "logos/"), up.Path)
	assert.True(t, strings.HasSuffix(up.Path, ".svg"), up.Path)
	assert.Equal(t, store.PublicURL(up.Bucket, up.Path), res.LogoURL)
}

func TestUploadLogoRejectsNonImage(t *testing.T) {
	f := newFakeFactory()
	p := &entity.Provider{Id: uuid.New(), Name: "Shopee", IsActive: true}
	f.uow.providers.providers[p.Id] = p
	store := &fakeStorage{}
	svc := newProviderService(f, &fakeFeedPublisher{}, store)

	_, err := svc.UploadLogo(context.Background(), p.Id, &ImageUpload{
		FileName:    "logo.exe",
		ContentType: "application/octet-stream",
		Reader:      strings.NewReader("MZ"),
	})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Empty(t, store.uploads)
}
